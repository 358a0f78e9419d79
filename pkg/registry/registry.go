// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

//go:embed forms.json
var defaultForms []byte

var (
	defaultOnce sync.Once
	defaultReg  *FormRegistry
	defaultErr  error
)

// Default returns the registry compiled into the binary.
func Default() (*FormRegistry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(defaultForms)
	})
	return defaultReg, defaultErr
}

// LoadRegistry reads a registry file, e.g. a localized copy of forms.json.
func LoadRegistry(path string) (*FormRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*FormRegistry, error) {
	var reg FormRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse form registry: %w", err)
	}
	if len(reg.Steps) == 0 {
		return nil, fmt.Errorf("parse form registry: no steps defined")
	}
	return &reg, nil
}

// Step returns the spec for a wizard step number.
func (r *FormRegistry) Step(number int) (StepSpec, bool) {
	for _, s := range r.Steps {
		if s.Number == number {
			return s, true
		}
	}
	return StepSpec{}, false
}

// Field finds a field by key across the wizard steps and the payment page.
func (r *FormRegistry) Field(key string) (FieldSpec, bool) {
	for _, s := range append(append([]StepSpec(nil), r.Steps...), r.Payment) {
		for _, f := range s.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return FieldSpec{}, false
}
