package records

import "encoding/json"

// OptionalString decodes a JSON field that may be omitted, null, a string, or
// a value of the wrong type. Omitted, null, and invalid are distinct states so
// merge-on-provided update payloads can treat them differently: omitted means
// "unchanged", null means "clear", invalid is rejected by the caller.
type OptionalString struct {
	Present bool
	Null    bool
	Valid   bool
	Value   string
}

// UnmarshalJSON records the field state instead of failing, so one malformed
// field cannot abort decoding before per-field validation runs.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Null = true
		o.Valid = true
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		o.Valid = false
		return nil
	}
	o.Valid = true
	o.Value = value
	return nil
}

// OptionalBool decodes a JSON field that may be omitted, a boolean, or a value
// of the wrong type. JSON null counts as invalid: a boolean flag must be
// explicitly true or false when provided.
type OptionalBool struct {
	Present bool
	Valid   bool
	Value   bool
}

// UnmarshalJSON records the field state instead of failing.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Present = true
	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		o.Valid = false
		return nil
	}
	o.Valid = true
	o.Value = value
	return nil
}
