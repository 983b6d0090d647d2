package workflow

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Numeric holds a number the client may send either as a JSON number or as
// a string from a text input. The raw text is kept so validation can report
// on exactly what was typed.
type Numeric struct {
	Raw string
}

// NumericOf is a convenience for tests and fixtures.
func NumericOf(raw string) Numeric {
	return Numeric{Raw: raw}
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		n.Raw = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.Raw = strings.TrimSpace(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	n.Raw = num.String()
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Raw)
}

func (n Numeric) IsZero() bool {
	return n.Raw == ""
}

// Decimal parses the raw text.
func (n Numeric) Decimal() (decimal.Decimal, bool) {
	if n.Raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n.Raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Int truncates toward zero. Missing or non-numeric input yields 0.
func (n Numeric) Int() int64 {
	d, ok := n.Decimal()
	if !ok {
		return 0
	}
	return d.IntPart()
}

// Date is a calendar date sent as "YYYY-MM-DD" or an RFC 3339 timestamp.
type Date struct {
	Raw string
}

// DateOf is a convenience for tests and fixtures.
func DateOf(t time.Time) Date {
	return Date{Raw: t.Format(dateLayout)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		d.Raw = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d.Raw = strings.TrimSpace(s)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw)
}

func (d Date) IsZero() bool {
	return d.Raw == ""
}

// Time parses the date. Timestamps are reduced to their UTC calendar day.
func (d Date) Time() (time.Time, bool) {
	if d.Raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, d.Raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, d.Raw); err == nil {
		return truncateDay(t.UTC()), true
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
