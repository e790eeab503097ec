package oadr3

import (
	"encoding/json"
	"time"
)

// Time supports unmarshalling the date-time fields returned by a VTN,
// which may be null or an empty string for objects not yet persisted.
type Time struct {
	time.Time
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
func (m *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		return nil
	}

	return json.Unmarshal(data, &m.Time)
}

// MarshalJSON implements the [json.Marshaler] interface.
// The zero time is encoded as null.
func (m Time) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(m.Time)
}
