package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/evergrid/emissary/internal/model"
)

// buildFieldSchema renders a spec's field list as a JSON Schema map. Required
// fields are deliberately not listed in the schema's "required" clause:
// missing required fields demote an extraction toward manual review instead
// of failing validation outright, so the dispatcher tracks them separately.
func buildFieldSchema(spec model.DocumentTypeSpec) map[string]any {
	props := make(map[string]any, len(spec.Fields))
	for _, f := range spec.Fields {
		props[f.Name] = fieldProp(f.Kind)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
	}
}

func fieldProp(kind model.FieldKind) map[string]any {
	switch kind {
	case model.FieldNumber:
		return map[string]any{"type": "number"}
	case model.FieldBool:
		return map[string]any{"type": "boolean"}
	case model.FieldDate:
		return map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
	default:
		return map[string]any{"type": "string"}
	}
}

func compileFieldSchema(spec model.DocumentTypeSpec) (*jsonschema.Schema, error) {
	b, err := json.Marshal(buildFieldSchema(spec))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	resource := fmt.Sprintf("%s.schema.json", spec.TypeID)
	if err := compiler.AddResource(resource, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
