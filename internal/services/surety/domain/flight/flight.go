// Package flight defines flight identity and status codes.
package flight

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Key identifies a flight: the operating airline, a flight code and the
// scheduled departure in unix seconds. Keys are compared by value.
type Key struct {
	Airline     principal.Principal `json:"airline"`
	Code        string              `json:"code"`
	ScheduledAt int64               `json:"scheduled_at"`
}

// NewKey builds a normalized key.
func NewKey(airline principal.Principal, code string, scheduledAt time.Time) Key {
	return Key{
		Airline:     principal.Principal(strings.TrimSpace(string(airline))),
		Code:        NormalizeCode(code),
		ScheduledAt: scheduledAt.Unix(),
	}
}

// NormalizeCode trims and upper-cases a flight code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Normalize returns the key with its code normalized.
func (k Key) Normalize() Key {
	k.Airline = principal.Principal(strings.TrimSpace(string(k.Airline)))
	k.Code = NormalizeCode(k.Code)
	return k
}

// Validate checks that every key component is present.
func (k Key) Validate() error {
	if k.Airline.IsZero() {
		return errors.New("flight airline is required")
	}
	if NormalizeCode(k.Code) == "" {
		return errors.New("flight code is required")
	}
	if k.ScheduledAt <= 0 {
		return errors.New("flight scheduled time must be positive")
	}
	return nil
}

// Scheduled returns the scheduled departure time.
func (k Key) Scheduled() time.Time {
	return time.Unix(k.ScheduledAt, 0).UTC()
}

// String renders the key as airline/code/scheduledAt.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Airline, k.Code, k.ScheduledAt)
}

// ParseKey parses the String form.
func ParseKey(value string) (Key, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("flight key %q: want airline/code/scheduled_at", value)
	}
	scheduledAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("flight key %q: %w", value, err)
	}
	key := Key{Airline: principal.Principal(parts[0]), Code: parts[1], ScheduledAt: scheduledAt}.Normalize()
	if err := key.Validate(); err != nil {
		return Key{}, err
	}
	return key, nil
}

// Status is a flight status code. Values match the codes reporters submit.
type Status uint8

const (
	StatusUnknown       Status = 0
	StatusOnTime        Status = 10
	StatusLateAirline   Status = 20
	StatusLateWeather   Status = 30
	StatusLateTechnical Status = 40
	StatusLateOther     Status = 50
)

var statusNames = map[Status]string{
	StatusUnknown:       "unknown",
	StatusOnTime:        "on_time",
	StatusLateAirline:   "late_airline",
	StatusLateWeather:   "late_weather",
	StatusLateTechnical: "late_technical",
	StatusLateOther:     "late_other",
}

// Valid reports whether s is a defined status code.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// String returns the snake_case status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "status_" + strconv.Itoa(int(s))
}

// ParseStatus accepts a status name or numeric code.
func ParseStatus(value string) (Status, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for status, name := range statusNames {
		if name == value {
			return status, nil
		}
	}
	code, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return StatusUnknown, fmt.Errorf("unknown flight status %q", value)
	}
	status := Status(code)
	if !status.Valid() {
		return StatusUnknown, fmt.Errorf("unknown flight status code %d", code)
	}
	return status, nil
}
