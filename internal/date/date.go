// Package date provides a calendar day type and clocks that report "today".
package date

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const layout = "2006-01-02"

// Date is a calendar day without time of day, stored as UTC midnight.
type Date struct {
	time.Time
}

// DailyEpoch is the fixed origin for the daily rotation.
var DailyEpoch = New(2024, time.January, 1)

// New creates a Date for the given calendar day
func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime takes the calendar day of t in t's own location
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Parse parses a YYYY-MM-DD string
func Parse(value string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err == nil {
		return FromTime(t), nil
	}
	t, err = time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return FromTime(t), nil
	}
	return Date{}, fmt.Errorf("unable to parse date '%s': expected YYYY-MM-DD or RFC3339 format", value)
}

// MustParse is Parse for constants in tests and fixtures
func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(layout)
}

// AddDays returns the day n days after d. n may be negative.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// DaysUntil returns the signed number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// Compare returns -1, 0 or +1 like time.Time.Compare.
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func (d Date) Equal(other Date) bool {
	return d.Compare(other) == 0
}

// MarshalYAML implements the yaml.Marshaler interface
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler, which also covers JSON
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON shadows the RFC3339 encoding promoted from time.Time
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("json.Unmarshal(date) > %w", err)
	}
	return d.UnmarshalText([]byte(value))
}

// Scan implements sql.Scanner for DATE columns
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case []byte:
		return d.UnmarshalText(v)
	case string:
		return d.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into date.Date", src)
	}
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
