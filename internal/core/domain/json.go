package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexFloat is a float64 that tolerates the backend's loose typing:
// JSON numbers, numeric strings ("1500.50"), null and empty string all
// decode, with missing or empty values treated as zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flex float: %s", string(data))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flex float %q: %w", s, err)
	}
	*f = FlexFloat(n)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// Float returns the plain float64 value.
func (f FlexFloat) Float() float64 { return float64(f) }

// FlexInt decodes a JSON number or numeric string into an int64.
// The backend serialises ids inconsistently across resources.
type FlexInt int64

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt(f)
	return nil
}

func (i FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(i))
}

// Int returns the plain int64 value.
func (i FlexInt) Int() int64 { return int64(i) }

const localTimeLayout = "2006-01-02 15:04:05"

// LocalTime wraps time.Time with the backend's "YYYY-MM-DD HH:MM:SS"
// wire format. A bare date ("YYYY-MM-DD") is also accepted.
type LocalTime struct {
	time.Time
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(localTimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.DateOnly, s)
		if err != nil {
			return fmt.Errorf("local time %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(localTimeLayout))
}

// Day returns the calendar date portion ("YYYY-MM-DD").
func (t LocalTime) Day() string {
	return t.Format(time.DateOnly)
}
