package tools

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	schemaOnce sync.Once
	schemas    map[string]*gojsonschema.Schema
	schemaErr  error
)

// compileSchemas compiles every catalog schema once. The catalog is
// static, so a compile failure is a programming error surfaced on
// first use.
func compileSchemas() {
	schemas = make(map[string]*gojsonschema.Schema)
	for _, spec := range Specs() {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(spec.InputSchema))
		if err != nil {
			schemaErr = fmt.Errorf("failed to compile schema for %s: %w", spec.Name, err)
			return
		}
		schemas[spec.Name] = compiled
	}
}

// ValidateInput checks a tool call's input against the tool's declared
// JSON Schema. An unknown tool name is an error in its own right.
func ValidateInput(toolName string, input map[string]interface{}) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}

	schema, ok := schemas[toolName]
	if !ok {
		return fmt.Errorf("unknown tool: %s", toolName)
	}

	if input == nil {
		input = map[string]interface{}{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", toolName, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("invalid input for %s: %s", toolName, strings.Join(details, "; "))
	}

	return nil
}
