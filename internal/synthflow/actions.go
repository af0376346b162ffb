package synthflow

import (
	"encoding/base64"
	"strings"
)

// CustomAction lets the agent call an HTTP endpoint during a call.
type CustomAction struct {
	URL                     string       `json:"url"`
	Name                    string       `json:"name"`
	Description             string       `json:"description"`
	SpeechWhileUsingTheTool string       `json:"speech_while_using_the_tool"`
	Method                  string       `json:"method"`
	CustomAuth              CustomAuth   `json:"custom_auth"`
	VariablesDuringTheCall  []Variable   `json:"variables_during_the_call"`
	Headers                 []HeaderPair `json:"headers"`
	JSONBodyStringified     string       `json:"json_body_stringified"`
	Prompt                  string       `json:"prompt"`
}

// CustomAuth places a credential on every action call.
type CustomAuth struct {
	IsNeeded bool   `json:"is_needed"`
	Location string `json:"location"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Variable is collected from the caller before the action runs.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
	Type        string `json:"type"`
}

// HeaderPair is a static request header of an action.
type HeaderPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type actionRequest struct {
	CustomAction *CustomAction `json:"CUSTOM_ACTION"`
}

const bookingBody = `{
  "summary": "Tattoo Appointment",
  "description": "Tattoo appointment scheduled through voice agent",
  "start": {"dateTime": "{{appointment_date}}T{{appointment_time}}:00", "timeZone": "UTC"},
  "end": {"dateTime": "{{appointment_date}}T{{add_hours appointment_time 1}}:00", "timeZone": "UTC"},
  "attendees": [{"email": "{{client_email}}"}],
  "reminders": {
    "useDefault": false,
    "overrides": [{"method": "email", "minutes": 1440}, {"method": "popup", "minutes": 60}]
  }
}`

var confirmationMail = strings.Join([]string{ //nolint:gochecknoglobals
	"From: me",
	"To: {{recipient_email}}",
	"Subject: Tattoo Appointment Confirmation",
	"Content-Type: text/html; charset=utf-8",
	"MIME-Version: 1.0",
	"",
	"<h1>Tattoo Appointment Confirmation</h1>",
	"<p>Your appointment has been scheduled for {{appointment_date}} at {{appointment_time}}.</p>",
	"<p>We look forward to seeing you!</p>",
}, "\r\n")

func bearer(accessToken string) CustomAuth {
	return CustomAuth{IsNeeded: true, Location: "header", Key: "Authorization", Value: "Bearer " + accessToken}
}

func jsonHeaders() []HeaderPair {
	return []HeaderPair{{Key: "Content-Type", Value: "application/json"}}
}

// GoogleCalendarActions returns the booking and confirmation mail actions for a connected Google account.
func GoogleCalendarActions(accessToken string) []*CustomAction {
	return []*CustomAction{
		{
			URL:                     "https://www.googleapis.com/calendar/v3/calendars/primary/events",
			Name:                    "Book Tattoo Appointment",
			Description:             "Creates a tattoo appointment in Google Calendar",
			SpeechWhileUsingTheTool: "I'm scheduling your tattoo appointment now...",
			Method:                  "POST",
			CustomAuth:              bearer(accessToken),
			VariablesDuringTheCall: []Variable{
				{Name: "appointment_date", Description: "Date of the appointment (YYYY-MM-DD)", Example: "2024-03-20", Type: "string"},
				{Name: "appointment_time", Description: "Time of the appointment (HH:mm)", Example: "14:30", Type: "string"},
				{Name: "client_email", Description: "Client's email address", Example: "client@example.com", Type: "email"},
			},
			Headers:             jsonHeaders(),
			JSONBodyStringified: bookingBody,
			Prompt: "I'll help you schedule a tattoo appointment. What date and time would you prefer? " +
				"I'll also need your email address to send you the calendar invitation.",
		},
		{
			URL:                     "https://gmail.googleapis.com/gmail/v1/users/me/messages/send",
			Name:                    "Send Appointment Email",
			Description:             "Sends an email confirmation for the tattoo appointment",
			SpeechWhileUsingTheTool: "I'm sending your confirmation email now...",
			Method:                  "POST",
			CustomAuth:              bearer(accessToken),
			VariablesDuringTheCall: []Variable{
				{Name: "recipient_email", Description: "Recipient's email address", Example: "client@example.com", Type: "email"},
				{Name: "appointment_date", Description: "Date of the appointment", Example: "2024-03-20", Type: "string"},
				{Name: "appointment_time", Description: "Time of the appointment", Example: "14:30", Type: "string"},
			},
			Headers:             jsonHeaders(),
			JSONBodyStringified: `{"raw": "` + base64.RawURLEncoding.EncodeToString([]byte(confirmationMail)) + `"}`,
			Prompt:              "I'll send you a confirmation email. What's your email address?",
		},
	}
}

// SquareBookingActions returns the booking action for a connected Square seller account.
func SquareBookingActions(accessToken string) []*CustomAction {
	return []*CustomAction{
		{
			URL:                     "https://connect.squareup.com/v2/bookings",
			Name:                    "Book Tattoo Appointment",
			Description:             "Creates a tattoo appointment in Square Appointments",
			SpeechWhileUsingTheTool: "I'm scheduling your tattoo appointment now...",
			Method:                  "POST",
			CustomAuth:              bearer(accessToken),
			VariablesDuringTheCall: []Variable{
				{Name: "appointment_date", Description: "Date of the appointment (YYYY-MM-DD)", Example: "2024-03-20", Type: "string"},
				{Name: "appointment_time", Description: "Time of the appointment (HH:mm)", Example: "14:30", Type: "string"},
				{Name: "customer_note", Description: "What the client wants tattooed", Example: "Small rose on the wrist", Type: "string"},
			},
			Headers: jsonHeaders(),
			JSONBodyStringified: `{"booking": {"start_at": "{{appointment_date}}T{{appointment_time}}:00Z", ` +
				`"customer_note": "{{customer_note}}"}}`,
			Prompt: "I'll help you book a tattoo appointment. What date and time would you prefer?",
		},
	}
}
