package vaultserver

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// recordSchema is the upload contract. Name, age and symptoms must contain
// at least one non-space character; other fields are optional strings.
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "age", "symptoms"],
  "properties": {
    "name":                {"type": "string", "pattern": "\\S", "maxLength": 100},
    "age":                 {"type": "string", "pattern": "\\S", "maxLength": 10},
    "symptoms":            {"type": "string", "pattern": "\\S"},
    "medical_history":     {"type": "string"},
    "current_medications": {"type": "string"},
    "allergies":           {"type": "string", "maxLength": 500},
    "emergency_contact":   {"type": "string", "maxLength": 200},
    "additional_notes":    {"type": "string"},
    "timestamp":           {"type": "string"}
  }
}`

// recordValidator checks upload bodies against recordSchema.
type recordValidator struct {
	schema *gojsonschema.Schema
}

func newRecordValidator() (*recordValidator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	return &recordValidator{schema: s}, nil
}

// Validate returns nil when payload satisfies the schema, or an error
// listing every violation.
func (v *recordValidator) Validate(payload []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("record failed validation: %s", strings.Join(msgs, "; "))
}
