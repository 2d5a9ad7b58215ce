package record

import (
	"encoding/json"
	"errors"
	"fmt"
)

// InputRecord is one line of the input dataset
type InputRecord struct {
	Regex  string   `json:"regex"`
	Inputs []string `json:"inputs"`
	// FilePath is passed through untouched; absent stays absent
	FilePath json.RawMessage `json:"file_path,omitempty"`
}

// UnmarshalJSON decodes an input line. Keys match exactly, unlike the default
// case-insensitive struct decoding. A missing regex is the empty pattern, a
// present one must be a string.
func (r *InputRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("record is null")
	}

	*r = InputRecord{}

	if raw, ok := fields["regex"]; ok {
		if !isString(raw) {
			return fmt.Errorf("regex must be a string, got %s", raw)
		}
		if err := json.Unmarshal(raw, &r.Regex); err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
	}

	if raw, ok := fields["inputs"]; ok {
		if err := json.Unmarshal(raw, &r.Inputs); err != nil {
			return fmt.Errorf("invalid inputs: %w", err)
		}
	}

	if raw, ok := fields["file_path"]; ok {
		r.FilePath = raw
	}

	return nil
}

// ClassifiedRecord is the transformed form of an InputRecord. Field order is
// the serialized order.
type ClassifiedRecord struct {
	Regex          string          `json:"regex"`
	PositiveInputs []string        `json:"positive_inputs"`
	NegativeInputs []string        `json:"negative_inputs"`
	FilePath       json.RawMessage `json:"file_path,omitempty"`
}

// Total returns the number of inputs the record was built from
func (r *ClassifiedRecord) Total() int {
	return len(r.PositiveInputs) + len(r.NegativeInputs)
}

// FilePathString returns file_path as text: the value itself when it is a
// JSON string, its raw JSON otherwise, and "" when absent.
func (r *ClassifiedRecord) FilePathString() string {
	if len(r.FilePath) == 0 {
		return ""
	}
	var s string
	if isString(r.FilePath) && json.Unmarshal(r.FilePath, &s) == nil {
		return s
	}
	return string(r.FilePath)
}

func isString(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '"'
}
