// internal/common/validation/schema.go
package validation

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Contract names for outgoing gateway payloads.
const (
	SchemaLeaseApplication = "lease_application"
	SchemaPayment          = "payment"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

func loadSchemas() {
	compiled = make(map[string]*gojsonschema.Schema)
	for _, name := range []string{SchemaLeaseApplication, SchemaPayment} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			compileErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			compileErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		compiled[name] = schema
	}
}

// Validate checks document (any JSON-marshalable value) against the named contract.
func Validate(schemaName string, document interface{}) (*ValidationResult, error) {
	compileOnce.Do(loadSchemas)
	if compileErr != nil {
		return nil, compileErr
	}

	schema, ok := compiled[schemaName]
	if !ok {
		return nil, fmt.Errorf("unknown schema: %s", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validate against %s: %w", schemaName, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    re.Type(),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

// Summary joins the violations into a single line for error details.
func (r *ValidationResult) Summary() string {
	if r == nil || r.Valid {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}
