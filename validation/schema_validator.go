package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/reglet-traitcast/manifest"
)

const schemaURL = "manifest.schema.json"

// SchemaValidator validates raw manifest documents against manifest.Schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the manifest schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	raw, err := manifest.Schema()
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add manifest schema: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// ValidateYAML validates a YAML (or JSON, which is valid YAML) document.
// A document that cannot be decoded at all is an error; schema violations
// are reported in the Result.
func (v *SchemaValidator) ValidateYAML(data []byte) (*Result, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	// Round-trip through JSON so the validator sees JSON value types.
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize manifest: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var inst interface{}
	if err := dec.Decode(&inst); err != nil {
		return nil, fmt.Errorf("failed to normalize manifest: %w", err)
	}

	return v.validate(inst)
}

func (v *SchemaValidator) validate(inst interface{}) (*Result, error) {
	err := v.schema.Validate(inst)
	if err == nil {
		return newResult(nil), nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	var errs []string
	collectLeaves(ve, &errs)
	return newResult(errs), nil
}

// collectLeaves flattens the validation error tree into its most specific causes.
func collectLeaves(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}
