package onboarding

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/onboarding"
)

// bindStep copies the fields of the posted step into w.
// Checkboxes of that step are cleared first, browsers omit unchecked boxes.
func bindStep(c *fiber.Ctx, w *onboarding.Wizard) error {
	d := &w.Data

	switch w.Step {
	case onboarding.StepPreferences:
		d.PiercingServices = false
	case onboarding.StepAssistant:
		d.VoicemailManagement = false
		d.AutomaticReminders = false
		d.WaitlistManagement = false
	}

	if err := c.BodyParser(d); err != nil {
		return err
	}

	// JSON bodies carry operatingHours themselves
	if w.Step == onboarding.StepPreferences && !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		bindHours(c, d)
	}

	return nil
}

// bindHours reads hours.<Day>.isOpen, hours.<Day>.openTime and hours.<Day>.closeTime.
func bindHours(c *fiber.Ctx, d *onboarding.FormData) {
	for _, h := range d.OperatingHours {
		prefix := "hours." + h.Day + "."

		d.SetDayOpen(h.Day, c.FormValue(prefix+"isOpen") != "")
		d.SetDayTimes(h.Day, c.FormValue(prefix+"openTime"), c.FormValue(prefix+"closeTime"))
	}
}

// action returns the requested wizard action, from the form or the query string.
func action(c *fiber.Ctx) string {
	if a := c.Query("action"); a != "" {
		return a
	}

	return c.FormValue("action", ActionNext)
}
