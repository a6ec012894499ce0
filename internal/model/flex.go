// internal/model/flex.go
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FlexID is an identifier the store may hold as a JSON number or a JSON
// string. It always carries the string form, so 12, 12.0 and "12" compare
// equal.
type FlexID string

func (id FlexID) String() string { return string(id) }

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("id %s is neither a string nor a number", b)
	}
	*id = FlexID(NormalizeNumber(f))
	return nil
}

// NormalizeNumber renders a numeric id the way it appears once stringified:
// no exponent, no trailing zeros.
func NormalizeNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FollowerCount accepts numbers and numeric strings ("12500", "12,500").
type FollowerCount int

func (c *FollowerCount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*c = 0
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.NewReplacer(",", "", " ", "", "_", "").Replace(s)
		if raw == "" {
			*c = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("follower count %s is not numeric", b)
	}
	*c = FollowerCount(int(f))
	return nil
}

const dayLayout = "2006-01-02"

// Day is a calendar day. A day decoded from "YYYY-MM-DD" is location-free;
// one decoded from a full timestamp is resolved to a day in whatever
// location it is later viewed from.
type Day struct {
	t        time.Time
	dateOnly bool
}

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), dateOnly: true}
}

func DayOf(t time.Time) Day {
	return Day{t: t}
}

func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dayLayout, s); err == nil {
		return NewDay(t.Year(), t.Month(), t.Day()), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q", s)
	}
	return DayOf(t), nil
}

func (d Day) IsZero() bool { return d.t.IsZero() }

// Midnight returns the start of this day in loc.
func (d Day) Midnight(loc *time.Location) time.Time {
	t := d.t
	if !d.dateOnly {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	if d.dateOnly {
		return d.t.Format(dayLayout)
	}
	return d.t.Format(time.RFC3339)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
