package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString accepts either a JSON string or a JSON number and keeps the
// textual form. Some profile fields (income, height) arrive as tier labels
// from one backend and as decimals from another.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Float returns the numeric value, if the text is a number.
func (f FlexString) Float() (float64, bool) {
	v, err := strconv.ParseFloat(string(f), 64)
	return v, err == nil
}
