package home

// FAQ is one question of the home page.
type FAQ struct {
	Question string
	Answer   string
	Category string
}

// FAQs are shown in this order.
var FAQs = []FAQ{
	{
		Question: "How Long Does It Take?",
		Answer: "The setup is quick and easy! Our team will guide you through every step to make sure " +
			"Roxy integrates smoothly with your scheduling tools.",
		Category: "Setup",
	},
	{
		Question: "How Secure Is My Data with Blackwork?",
		Answer: "Your data security is our top priority. Blackwork.ai uses advanced encryption to protect " +
			"your information. Roxy only accesses the data she needs, ensuring your clients' privacy and " +
			"your studio's confidentiality remain safe.",
		Category: "Security",
	},
	{
		Question: "How Much Does It Cost?",
		Answer: "We offer flexible pricing to fit studios of all sizes. The first 200 tattoo shops can claim " +
			"Roxy for free. For additional features and larger studios, we have various pricing tiers. " +
			"Contact us for more details tailored to your needs.",
		Category: "Pricing",
	},
	{
		Question: "Is Roxy easy to set up and use?",
		Answer: "Roxy is user-friendly and easy to set up. Our team will guide you through the installation, " +
			"and she integrates smoothly with your current scheduling tools. No tech skills needed!",
		Category: "Setup",
	},
	{
		Question: "How does the AI voice agent handle complex tattoo inquiries?",
		Answer: "Our AI is specifically trained on tattoo industry terminology and can handle detailed " +
			"questions about styles, techniques, and pricing. It provides accurate information while " +
			"knowing when to escalate complex queries to human staff.",
		Category: "Technology",
	},
	{
		Question: "What booking features are included?",
		Answer: "The system handles appointment scheduling, rescheduling, cancellations, and waitlist " +
			"management. It automatically sends confirmation emails and reminder notifications to reduce no-shows.",
		Category: "Features",
	},
	{
		Question: "Is the AI voice agent available 24/7?",
		Answer: "Yes, our AI assistant operates round-the-clock, ensuring your studio never misses a booking " +
			"opportunity and clients can get information anytime.",
		Category: "Service",
	},
	{
		Question: "How does the system handle multiple artists' schedules?",
		Answer: "Each artist can maintain their own calendar, availability, and booking preferences. The AI " +
			"intelligently manages scheduling conflicts and distributes bookings based on artist specialties.",
		Category: "Features",
	},
	{
		Question: "What languages are supported?",
		Answer: "Currently, our AI assistant is fluent in English, Spanish, and French, with more languages " +
			"being added regularly to serve diverse client bases.",
		Category: "Service",
	},
}

// Categories returns the FAQ categories in first seen order.
func Categories() []string {
	seen := make(map[string]bool, len(FAQs))
	out := make([]string, 0, len(FAQs))

	for _, f := range FAQs {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}

	return out
}
