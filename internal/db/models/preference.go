package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentType is how a studio takes bookings.
type AppointmentType string

// Supported appointment types.
const (
	AppointmentTypeAppointments AppointmentType = "appointments"
	AppointmentTypeWalkins      AppointmentType = "walkins"
	AppointmentTypeBoth         AppointmentType = "both"
)

// Valid reports whether t is one of the supported appointment types.
func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeAppointments, AppointmentTypeWalkins, AppointmentTypeBoth:
		return true
	default:
		return false
	}
}

// Weekdays in the order operating hours are stored and rendered.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} //nolint:gochecknoglobals

// OperatingHours is one day of the week.
// Times of a closed day are kept so reopening restores them.
type OperatingHours struct {
	Day       string `json:"day"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// DefaultOperatingHours opens Monday to Saturday 09:00-17:00, Sunday is closed.
func DefaultOperatingHours() []OperatingHours {
	hours := make([]OperatingHours, 0, len(Weekdays))

	for _, day := range Weekdays {
		hours = append(hours, OperatingHours{
			Day:       day,
			IsOpen:    day != "Sunday",
			OpenTime:  "09:00",
			CloseTime: "17:00",
		})
	}

	return hours
}

// FullWeek reports whether hours has one entry per weekday in Weekdays order.
func FullWeek(hours []OperatingHours) bool {
	if len(hours) != len(Weekdays) {
		return false
	}

	for i, day := range Weekdays {
		if hours[i].Day != day {
			return false
		}
	}

	return true
}

// OptionalPreference holds the business preferences of a studio, one row per user.
type OptionalPreference struct {
	ID                   uint64           `gorm:"primaryKey"`
	UserID               uint64           `gorm:"uniqueIndex;not null"`
	AppointmentType      AppointmentType  `gorm:"type:varchar(20)"`
	OperatingHours       []OperatingHours `gorm:"serializer:json;type:text"`
	PiercingService      bool
	HourlyRate           decimal.Decimal `gorm:"type:decimal(10,2)"`
	SpecificInstructions string          `gorm:"type:text"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
