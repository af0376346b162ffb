// Package onboarding implements the three step wizard that creates a studio's voice agent.
package onboarding

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
)

// DefaultWelcomeMessage greets callers until the studio writes its own.
const DefaultWelcomeMessage = "Hey there! How can I assist you today?"

// DefaultLanguage of new assistants.
const DefaultLanguage = "en-US"

// Languages the voice agent platform supports for the greeting and prompt.
var Languages = []string{"en-GB", "en-US", "de", "es", "it", "fr"} //nolint:gochecknoglobals

// FormData is the wizard working copy. Field names match the posted form.
type FormData struct {
	// Business info
	OwnerName   string `form:"ownerName" json:"ownerName"`
	ShopName    string `form:"shopName" json:"shopName"`
	Website     string `form:"website" json:"website"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
	Timezone    string `form:"timezone" json:"timezone"`

	// Operational preferences
	AppointmentType      models.AppointmentType  `form:"appointmentType" json:"appointmentType"`
	OperatingHours       []models.OperatingHours `form:"-" json:"operatingHours"`
	PiercingServices     bool                    `form:"piercingServices" json:"piercingServices"`
	HourlyRate           string                  `form:"hourlyRate" json:"hourlyRate"`
	SpecificInstructions string                  `form:"specificInstructions" json:"specificInstructions"`

	// AI configuration
	AssistantName       string `form:"assistantName" json:"assistantName"`
	WelcomeMessage      string `form:"welcomeMessage" json:"welcomeMessage"`
	Language            string `form:"language" json:"language"`
	DailyCallLimit      int    `form:"dailyCallLimit" json:"dailyCallLimit"`
	CallHandling        string `form:"callHandling" json:"callHandling"`
	VoicemailManagement bool   `form:"voicemailManagement" json:"voicemailManagement"`
	AutomaticReminders  bool   `form:"automaticReminders" json:"automaticReminders"`
	WaitlistManagement  bool   `form:"waitlistManagement" json:"waitlistManagement"`
	SupportEmail        string `form:"supportEmail" json:"supportEmail"`
}

// DefaultFormData returns the values a new wizard starts with.
func DefaultFormData() FormData {
	return FormData{
		AppointmentType: models.AppointmentTypeBoth,
		OperatingHours:  models.DefaultOperatingHours(),
		WelcomeMessage:  DefaultWelcomeMessage,
		Language:        DefaultLanguage,
		CallHandling:    synthflow.TypeInbound,
	}
}

// SetDayOpen opens or closes day. The stored times are kept either way.
func (f *FormData) SetDayOpen(day string, open bool) {
	for i := range f.OperatingHours {
		if f.OperatingHours[i].Day == day {
			f.OperatingHours[i].IsOpen = open
		}
	}
}

// SetDayTimes changes the hours of day. Empty values leave the current time.
func (f *FormData) SetDayTimes(day, openTime, closeTime string) {
	for i := range f.OperatingHours {
		if f.OperatingHours[i].Day != day {
			continue
		}

		if openTime != "" {
			f.OperatingHours[i].OpenTime = openTime
		}

		if closeTime != "" {
			f.OperatingHours[i].CloseTime = closeTime
		}
	}
}

var (
	rateJunk   = regexp.MustCompile(`[^\d.]`)
	ratePrefix = regexp.MustCompile(`^\d*(\.\d*)?`)
)

// RateText is the rate as the studio typed it with everything but digits and dots removed.
// "$25.50/h" is "25.50".
func RateText(s string) string {
	return rateJunk.ReplaceAllString(s, "")
}

// ParseRate reads an hourly rate the way a browser number parser does:
// everything but digits and dots is dropped, then the longest numeric prefix is used.
// "$85.50/h" is 85.50 and "12.5.3" is 12.5. ok is false when no digits are left.
func ParseRate(s string) (decimal.Decimal, bool) {
	prefix := ratePrefix.FindString(rateJunk.ReplaceAllString(s, ""))
	if strings.Trim(prefix, ".") == "" {
		return decimal.Zero, false
	}

	prefix = strings.TrimSuffix(prefix, ".")
	if strings.HasPrefix(prefix, ".") {
		prefix = "0" + prefix
	}

	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}
