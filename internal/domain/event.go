// Package domain holds the entities and ports shared across the
// notification, feed and search services.
package domain

import "encoding/json"

// RawEvent is a parsed JSON event payload that tolerates both camelCase
// and snake_case field spellings, matching the wire contracts described
// in the external interfaces (§6): producers on this bus are not
// guaranteed to agree on a single casing convention.
type RawEvent map[string]json.RawMessage

// ParseRawEvent decodes a JSON object into a RawEvent. It never fails on
// unknown fields; callers probe for the keys they need.
func ParseRawEvent(data []byte) (RawEvent, error) {
	var raw RawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// EventType returns the discriminant field, accepting both "event_type"
// and "eventType" spellings.
func (e RawEvent) EventType() string {
	return e.String("event_type", "eventType")
}

// String returns the first non-empty string value found under any of
// the given key spellings.
func (e RawEvent) String(keys ...string) string {
	for _, k := range keys {
		raw, ok := e[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first present integer value found under any of the
// given key spellings, or 0 if none is present or parseable.
func (e RawEvent) Int(keys ...string) int {
	for _, k := range keys {
		raw, ok := e[k]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return int(f)
		}
	}
	return 0
}

// Raw returns the raw JSON for the first present key spelling, useful
// for nested objects like "data" or "payload".
func (e RawEvent) Raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := e[k]; ok {
			return raw, true
		}
	}
	return nil, false
}
