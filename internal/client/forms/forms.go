// Package forms models the section editor dialogs: one form per section
// type, usable both for adding a new section and editing an existing one.
// Submit validates the entered values against the section type's schema and
// returns the properties document to send to the server; nothing is
// persisted until the caller does that.
package forms

import (
	"encoding/json"

	"github.com/conlangforge/conlangforge/internal/section"
)

type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

// submit marshals a payload and runs it through schema validation, returning
// the document only when it is acceptable.
func submit(t section.Type, payload section.Properties) (json.RawMessage, error) {
	raw, err := section.Encode(payload)
	if err != nil {
		return nil, err
	}
	if _, err := section.Validate(t, raw); err != nil {
		return nil, err
	}
	return raw, nil
}
