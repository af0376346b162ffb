// Package prompt renders the instruction text of the studio voice agent.
package prompt

import (
	_ "embed"
	"strings"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

//go:embed persona.md
var persona string

const intro = "As a tattoo shop assistant, I handle appointments and inquiries with the following guidelines:"

const genericPricing = "Pricing varies based on the specific tattoo design and complexity."

const responsibilities = `Key Responsibilities:
1. Schedule appointments during operating hours only
2. Provide pricing information when asked
3. Answer questions about the tattoo process
4. Handle scheduling conflicts professionally
5. Send appointment confirmations
6. Manage cancellations and rescheduling requests

Please maintain a professional yet friendly tone, prioritize client safety and satisfaction, ` +
	`and ensure all appointments are scheduled within our operating hours.`

// Generate builds the agent prompt from the studio hours, hourly rate and free text instructions.
// The output only depends on its arguments.
func Generate(hours []models.OperatingHours, hourlyRate, instructions string) string {
	var b strings.Builder

	b.WriteString(intro)
	b.WriteString("\n\nOPERATING HOURS:\n")

	for i, h := range hours {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(FormatDay(h))
	}

	b.WriteString("\n\nPRICING:\n")
	b.WriteString(Pricing(hourlyRate))

	if instructions != "" {
		b.WriteString("\n\nSPECIFIC INSTRUCTIONS:\n")
		b.WriteString(instructions)
	}

	b.WriteString("\n\n")
	b.WriteString(responsibilities)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(persona))

	return b.String()
}

// FormatDay renders one line of the opening hours. Closed days ignore their stored times.
func FormatDay(h models.OperatingHours) string {
	if !h.IsOpen {
		return h.Day + ": Closed"
	}

	return h.Day + ": " + h.OpenTime + " - " + h.CloseTime
}

// Pricing renders the rate sentence, or the generic one when no rate is set.
func Pricing(hourlyRate string) string {
	hourlyRate = strings.TrimSpace(hourlyRate)
	if hourlyRate == "" {
		return genericPricing
	}

	return "The standard hourly rate is $" + hourlyRate + "."
}
