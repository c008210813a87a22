// Package calendar decodes the date fields clients send as either a bare
// YYYY-MM-DD or a full RFC 3339 timestamp.
package calendar

import (
	"encoding/json"
	"time"
)

type Day struct {
	time.Time
	DateOnly bool
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time, d.DateOnly = t, true
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time, d.DateOnly = t, false
	return nil
}

// Resolve places a bare date at midnight in loc; full timestamps keep their instant.
func (d Day) Resolve(loc *time.Location) time.Time {
	if d.DateOnly {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}
	return d.Time.In(loc)
}
