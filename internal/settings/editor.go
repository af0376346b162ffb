package settings

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

// ErrUnknownField is returned by Set for a field the form does not have.
var ErrUnknownField = errors.New("unknown settings field")

// Editor tracks the edits made to a loaded form.
type Editor struct {
	Form   Form              `json:"form"`
	Errors map[string]string `json:"errors,omitempty"`
	// Changed is set by a Set that alters the form and cleared by MarkSaved.
	Changed bool `json:"changed"`
}

// NewEditor starts editing f without pending changes.
func NewEditor(f Form) *Editor {
	return &Editor{Form: f, Errors: map[string]string{}}
}

// HasChanges reports whether anything was edited since the last load or save.
func (e *Editor) HasChanges() bool {
	return e.Changed
}

// MarkSaved clears the change flag after a successful save.
func (e *Editor) MarkSaved() {
	e.Changed = false
}

// Set changes one field from its posted text value and clears that field's error.
// Operating hours use the keys hours.<Day>.isOpen, hours.<Day>.openTime and hours.<Day>.closeTime.
// A value that does not parse leaves the form untouched and records a field error.
func (e *Editor) Set(field, value string) error {
	if e.Errors == nil {
		e.Errors = map[string]string{}
	}

	f := &e.Form

	before := *f
	before.OperatingHours = slices.Clone(f.OperatingHours)

	var err error

	switch field {
	case "assistantName":
		f.AssistantName = value
	case "welcomeMessage":
		f.WelcomeMessage = value
	case "supportEmail":
		f.SupportEmail = strings.TrimSpace(value)
	case "timezone":
		f.Timezone = value
	case "language":
		f.Language = value
	case "appointmentType":
		f.AppointmentType = models.AppointmentType(value)
	case "hourlyRate":
		f.HourlyRate = value
	case "specificInstructions":
		f.SpecificInstructions = value
	case "piercingServices":
		err = setBool(&f.PiercingServices, value)
	case "voiceId":
		f.VoiceID = value
	case "patienceLevel":
		f.PatienceLevel = value
	case "stability":
		err = setFloat(&f.Stability, value)
	case "styleExaggeration":
		err = setFloat(&f.StyleExaggeration, value)
	case "similarity":
		err = setFloat(&f.Similarity, value)
	case "latencyOptimization":
		err = setFloat(&f.LatencyOptimization, value)
	case "speakerBoost":
		err = setBool(&f.SpeakerBoost, value)
	case "pauseBeforeSpeaking":
		err = setInt(&f.PauseBeforeSpeaking, value)
	case "ringDuration":
		err = setInt(&f.RingDuration, value)
	case "idleRemindersEnabled":
		err = setBool(&f.IdleRemindersEnabled, value)
	case "idleReminderTime":
		err = setInt(&f.IdleReminderTime, value)
	case "reminderMessage":
		f.ReminderMessage = value
	default:
		if !strings.HasPrefix(field, "hours.") {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}

		err = e.setHours(strings.TrimPrefix(field, "hours."), value)
		if errors.Is(err, ErrUnknownField) {
			return err
		}
	}

	if err != nil {
		e.Errors[field] = MsgInvalidValue

		return nil
	}

	delete(e.Errors, field)

	if !reflect.DeepEqual(before, e.Form) {
		e.Changed = true
	}

	return nil
}

// Apply sets every posted field. Unknown keys are ignored.
func (e *Editor) Apply(values map[string]string) {
	for field, value := range values {
		_ = e.Set(field, value) //nolint:errcheck // only ErrUnknownField
	}
}

func (e *Editor) setHours(key, value string) error {
	day, attr, ok := strings.Cut(key, ".")
	if !ok {
		return fmt.Errorf("%w: hours.%s", ErrUnknownField, key)
	}

	for i := range e.Form.OperatingHours {
		h := &e.Form.OperatingHours[i]
		if h.Day != day {
			continue
		}

		switch attr {
		case "isOpen":
			return setBool(&h.IsOpen, value)
		case "openTime":
			h.OpenTime = value
			return nil
		case "closeTime":
			h.CloseTime = value
			return nil
		}
	}

	return fmt.Errorf("%w: hours.%s", ErrUnknownField, key)
}

func setBool(dst *bool, value string) error {
	switch value {
	case "on":
		*dst = true
		return nil
	case "":
		*dst = false
		return nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}

	*dst = b

	return nil
}

func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return err
	}

	*dst = v

	return nil
}

func setInt(dst *int, value string) error {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return err
	}

	*dst = v

	return nil
}
