// Package rfctime formats timestamps and days exchanged by the api.
package rfctime

import (
	"encoding/json"
	"time"
)

// Layout of RFC3339 date-time written by the api.
//
// The offset is always numeric ("+00:00", not "Z") and fractions are in milliseconds.
const RFC3339DateTimeFormat string = "2006-01-02T15:04:05.999-07:00"

// RFC3339 is a timestamp in json, as a string of RFC3339 date-time.
//
// It is written in UTC, and read in any offset (including "Z").
type RFC3339 time.Time

func (t RFC3339) Time() time.Time {
	return time.Time(t)
}

// Equal reports both are the same instant. Two nils are equal.
func (t *RFC3339) Equal(other *RFC3339) bool {
	if (t == nil) != (other == nil) {
		return false
	}
	return t == nil || t.Time().Equal(other.Time())
}

func (t RFC3339) String() string {
	return time.Time(t).UTC().Format(RFC3339DateTimeFormat)
}

func (t RFC3339) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON reads RFC3339 date-time. null is ignored.
func (t *RFC3339) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = RFC3339(parsed)
	return nil
}
