package rest

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskSchemaJSON = `{
	"type": "object",
	"required": ["id", "title"],
	"properties": {
		"id": {"type": "integer", "minimum": 1},
		"title": {"type": "string"},
		"description": {"type": ["string", "null"]},
		"completed": {"type": ["boolean", "null"]},
		"created_at": {"type": ["string", "null"]},
		"category": {"type": ["string", "null"]},
		"category_id": {"type": ["integer", "null"]}
	}
}`

const categorySchemaJSON = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "integer", "minimum": 1},
		"name": {"type": "string"}
	}
}`

var (
	taskSchema         = mustCompile("task.json", taskSchemaJSON)
	categorySchema     = mustCompile("category.json", categorySchemaJSON)
	taskListSchema     = mustCompile("tasks.json", arrayOf(taskSchemaJSON))
	categoryListSchema = mustCompile("categories.json", arrayOf(categorySchemaJSON))
	messageSchema      = mustCompile("message.json", `{"type": ["object", "string"]}`)
)

func arrayOf(item string) string {
	return `{"type": "array", "items": ` + item + `}`
}

func mustCompile(name, schema string) *jsonschema.Schema {
	return jsonschema.MustCompileString("taskdeck:///"+name, schema)
}

// validate checks a response body against schema.
func validate(schema *jsonschema.Schema, body []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("unexpected response shape: %s", firstCause(ve))
		}
		return err
	}
	return nil
}

// firstCause returns the innermost message of a validation error, which is
// more useful than the top-level "doesn't validate" line.
func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
