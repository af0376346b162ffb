package onboarding

import (
	"regexp"
	"strings"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

// Wizard steps.
const (
	StepBusinessInfo = 1
	StepPreferences  = 2
	StepAssistant    = 3

	LastStep = StepAssistant
)

// Field error messages.
const (
	MsgOwnerNameRequired      = "Owner name is required"
	MsgShopNameRequired       = "Shop name is required"
	MsgPhoneRequired          = "Phone number is required"
	MsgPhoneInvalid           = "Please enter a valid 10-digit phone number"
	MsgWebsiteInvalid         = "Please enter a valid website URL starting with http:// or https://"
	MsgHourlyRateRequired     = "Hourly rate is required"
	MsgHourlyRateInvalid      = "Please enter a valid hourly rate"
	MsgOperatingHoursInvalid  = "Please set the hours of every day of the week"
	MsgAssistantNameRequired  = "Assistant name is required"
	MsgWelcomeMessageRequired = "Welcome message is required"
	MsgSupportEmailRequired   = "Support email is required"
	MsgSupportEmailInvalid    = "Please enter a valid email address"
)

var (
	nonDigits      = regexp.MustCompile(`\D`)
	websitePattern = regexp.MustCompile(`^https?://.+\..+`)
)

// Wizard is the state of one onboarding run.
type Wizard struct {
	Step   int               `json:"step"`
	Data   FormData          `json:"data"`
	Errors map[string]string `json:"errors,omitempty"`
}

// NewWizard starts at the first step with the default form.
func NewWizard() *Wizard {
	return &Wizard{
		Step:   StepBusinessInfo,
		Data:   DefaultFormData(),
		Errors: map[string]string{},
	}
}

// ValidateStep checks the fields of step and replaces Errors with the result.
// It reports whether the step is valid.
func (w *Wizard) ValidateStep(step int) bool {
	w.Errors = validateStep(step, &w.Data)

	return len(w.Errors) == 0
}

// Next moves forward when the current step is valid. Only Errors change otherwise.
func (w *Wizard) Next() bool {
	if !w.ValidateStep(w.Step) {
		return false
	}

	if w.Step < LastStep {
		w.Step++
	}

	return true
}

// Back moves one step back and clears the errors.
func (w *Wizard) Back() {
	if w.Step > StepBusinessInfo {
		w.Step--
	}

	w.Errors = map[string]string{}
}

// ValidateAll checks every step. On failure Step points at the first invalid one.
func (w *Wizard) ValidateAll() bool {
	for step := StepBusinessInfo; step <= LastStep; step++ {
		if !w.ValidateStep(step) {
			w.Step = step
			return false
		}
	}

	return true
}

func validateStep(step int, d *FormData) map[string]string {
	errs := map[string]string{}

	switch step {
	case StepBusinessInfo:
		if d.OwnerName == "" {
			errs["ownerName"] = MsgOwnerNameRequired
		}

		if d.ShopName == "" {
			errs["shopName"] = MsgShopNameRequired
		}

		switch {
		case d.PhoneNumber == "":
			errs["phoneNumber"] = MsgPhoneRequired
		case len(nonDigits.ReplaceAllString(d.PhoneNumber, "")) != 10: //nolint:mnd
			errs["phoneNumber"] = MsgPhoneInvalid
		}

		if d.Website != "" && !websitePattern.MatchString(d.Website) {
			errs["website"] = MsgWebsiteInvalid
		}
	case StepPreferences:
		if !models.FullWeek(d.OperatingHours) {
			errs["operatingHours"] = MsgOperatingHoursInvalid
		}

		if d.HourlyRate == "" {
			errs["hourlyRate"] = MsgHourlyRateRequired
			break
		}

		if rate, ok := ParseRate(d.HourlyRate); !ok || !rate.IsPositive() {
			errs["hourlyRate"] = MsgHourlyRateInvalid
		}
	case StepAssistant:
		if strings.TrimSpace(d.AssistantName) == "" {
			errs["assistantName"] = MsgAssistantNameRequired
		}

		if strings.TrimSpace(d.WelcomeMessage) == "" {
			errs["welcomeMessage"] = MsgWelcomeMessageRequired
		}

		switch {
		case d.SupportEmail == "":
			errs["supportEmail"] = MsgSupportEmailRequired
		case !auth.ValidEmail(d.SupportEmail):
			errs["supportEmail"] = MsgSupportEmailInvalid
		}
	}

	return errs
}
