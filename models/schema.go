package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskBodySchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"description": {"type": "string"},
		"completed": {"type": "boolean"}
	}
}`

var taskBodySchema = jsonschema.MustCompileString("task-body.json", taskBodySchemaJSON)

// bodyFields fixes the order messages are reported in.
var bodyFields = []string{"description", "completed"}

var shapeMessages = map[string]string{
	"description": "Description must be a string",
	"completed":   "Completed must be a boolean value (true/false)",
}

const InvalidBodyMessage = "Invalid request body"

// ValidateBody checks the JSON shape of a create or update body. An empty
// body is treated as an empty object.
func ValidateBody(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return NewValidationError("body", InvalidBodyMessage)
	}
	// A body holds exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return NewValidationError("body", InvalidBodyMessage)
	}

	err := taskBodySchema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	bad := make(map[string]bool)
	collectSchemaFields(ve, bad)

	out := &ValidationError{}
	for _, field := range bodyFields {
		if bad[field] {
			out.Add(field, shapeMessages[field])
		}
	}
	if len(out.Fields) == 0 {
		return NewValidationError("body", InvalidBodyMessage)
	}
	return out
}

func collectSchemaFields(err *jsonschema.ValidationError, bad map[string]bool) {
	if len(err.Causes) == 0 {
		field := strings.SplitN(strings.TrimPrefix(err.InstanceLocation, "/"), "/", 2)[0]
		if field != "" {
			bad[field] = true
		}
		return
	}
	for _, cause := range err.Causes {
		collectSchemaFields(cause, bad)
	}
}
