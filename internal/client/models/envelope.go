package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

const StatusSuccess = "success"

// Envelope is the body the server sends with a failed request. Besides the
// well-known keys it may carry validation errors keyed by field name, e.g.
// {"password": ["This field may not be blank."]}; those land in Fields.
type Envelope struct {
	Status  string              `json:"status,omitempty"`
	Error   string              `json:"error,omitempty"`
	Detail  string              `json:"detail,omitempty"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"-"`
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*e = Envelope{}
	for key, value := range raw {
		switch key {
		case "status":
			e.Status = asText(value)
		case "error":
			e.Error = asText(value)
		case "detail":
			e.Detail = asText(value)
		case "message":
			e.Message = asText(value)
		default:
			if msgs := asTextList(value); len(msgs) > 0 {
				if e.Fields == nil {
					e.Fields = make(map[string][]string)
				}
				e.Fields[key] = msgs
			}
		}
	}
	return nil
}

// Resolve returns the first non-empty of error, detail and message, or
// fallback when none is set.
func (e Envelope) Resolve(fallback string) string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	default:
		return fallback
	}
}

// FieldMessage returns the first validation message, preferring the keys in
// order and then any remaining field in alphabetical order.
func (e Envelope) FieldMessage(order ...string) (string, bool) {
	for _, k := range order {
		if msgs := e.Fields[k]; len(msgs) > 0 {
			return msgs[0], true
		}
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msgs := e.Fields[k]; len(msgs) > 0 {
			return msgs[0], true
		}
	}
	return "", false
}

// ResponseError carries a decoded error body together with the HTTP status
// it arrived with.
type ResponseError struct {
	StatusCode int
	Data       Envelope
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Data.Resolve("no details"))
}

func asText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if list := asTextList(raw); len(list) > 0 {
		return list[0]
	}
	return ""
}

func asTextList(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}
	return nil
}
