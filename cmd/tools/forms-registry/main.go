// cmd/tools/forms-registry/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	formwizard "lease-client/internal/flows/application/form-wizard"
	paymentsubmitter "lease-client/internal/flows/payment/payment-submitter"
	"lease-client/pkg/registry"
)

var registryPath string

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	exportCmd.StringVar(&registryPath, "path", "configs/forms.json", "Where to write the built-in registry")

	// Update command flags
	updateCmd.StringVar(&registryPath, "path", "configs/forms.json", "Path to registry file")
	key := updateCmd.String("key", "", "Field key to update (e.g., firstName)")
	field := updateCmd.String("field", "", "Attribute to update (label, placeholder)")
	value := updateCmd.String("value", "", "New value for the attribute")

	validateCmd.StringVar(&registryPath, "path", "configs/forms.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		reg, err := registry.Default()
		if err != nil {
			fmt.Printf("Error loading built-in registry: %v\n", err)
			os.Exit(1)
		}
		if err := saveRegistry(reg, registryPath); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported registry to %s\n", registryPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *key == "" || *field == "" || *value == "" {
			fmt.Println("Error: key, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateField(registryPath, *key, *field, *value); err != nil {
			fmt.Printf("Error updating field: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated field %s, %s to %q\n", *key, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		if err := validateRegistry(reg); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d steps.\n", len(reg.Steps))

	case "help":
		fallthrough
	default:
		help()
	}
}

func updateField(path, key, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	spec := findField(reg, key)
	if spec == nil {
		return fmt.Errorf("field %s not found", key)
	}
	switch field {
	case "label":
		spec.Label = value
	case "placeholder":
		spec.Placeholder = value
	default:
		return fmt.Errorf("unknown field attribute: %s", field)
	}

	reg.LastUpdated = time.Now().Format("2006-01-02")
	return saveRegistry(reg, path)
}

func findField(reg *registry.FormRegistry, key string) *registry.FieldSpec {
	for i := range reg.Steps {
		for j := range reg.Steps[i].Fields {
			if reg.Steps[i].Fields[j].Key == key {
				return &reg.Steps[i].Fields[j]
			}
		}
	}
	for j := range reg.Payment.Fields {
		if reg.Payment.Fields[j].Key == key {
			return &reg.Payment.Fields[j]
		}
	}
	return nil
}

// validateRegistry checks that a registry still describes the forms the
// wizard and payment flows enforce. Labels and placeholders are free text.
func validateRegistry(reg *registry.FormRegistry) error {
	if len(reg.Steps) != int(formwizard.LastStep) {
		return fmt.Errorf("expected %d steps, found %d", formwizard.LastStep, len(reg.Steps))
	}

	for step := formwizard.FirstStep; step <= formwizard.LastStep; step++ {
		spec, ok := reg.Step(int(step))
		if !ok {
			return fmt.Errorf("step %d is missing", step)
		}
		if spec.Title != step.Title() {
			return fmt.Errorf("step %d title is %q, want %q", step, spec.Title, step.Title())
		}
		if err := checkLabels(spec); err != nil {
			return err
		}

		if step == formwizard.StepOccupants {
			if !spec.Repeated {
				return fmt.Errorf("step %d must be repeated", step)
			}
			for _, f := range spec.Fields {
				switch formwizard.OccupantField(f.Key) {
				case formwizard.OccupantName, formwizard.OccupantRelationship, formwizard.OccupantAge:
				default:
					return fmt.Errorf("step %d: unknown occupant field %s", step, f.Key)
				}
			}
			continue
		}

		for _, f := range spec.Fields {
			owner, known := formwizard.StepOf(formwizard.FieldKey(f.Key))
			if !known {
				return fmt.Errorf("step %d: unknown field %s", step, f.Key)
			}
			if owner != step {
				return fmt.Errorf("field %s belongs to step %d, not %d", f.Key, owner, step)
			}
		}
		want := keysOf(formwizard.RequiredFields(step))
		if got := spec.RequiredKeys(); !reflect.DeepEqual(want, got) {
			return fmt.Errorf("step %d required fields are %v, want %v", step, got, want)
		}
	}

	if err := checkLabels(reg.Payment); err != nil {
		return err
	}
	want := keysOf(paymentsubmitter.Fields)
	if got := reg.Payment.RequiredKeys(); !reflect.DeepEqual(want, got) {
		return fmt.Errorf("payment fields are %v, want %v", got, want)
	}
	return nil
}

func checkLabels(spec registry.StepSpec) error {
	seen := make(map[string]bool)
	for _, f := range spec.Fields {
		if seen[f.Key] {
			return fmt.Errorf("duplicate field key: %s", f.Key)
		}
		seen[f.Key] = true
		if f.Label == "" {
			return fmt.Errorf("field %s missing required attribute: label", f.Key)
		}
	}
	return nil
}

func keysOf[K ~string](keys []K) []string {
	var out []string
	for _, k := range keys {
		out = append(out, string(k))
	}
	return out
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.FormRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: forms-registry <command> [flags]

Commands:
  export    Write the built-in form registry to a file for editing
  update    Change a field's label or placeholder
  validate  Check a registry file against the application and payment forms
  help      Show this help message

Examples:
  forms-registry export -path configs/forms.json
  forms-registry update -path configs/forms.json -key firstName -field label -value "Given Name"
  forms-registry validate -path configs/forms.json

Use 'forms-registry <command> -h' for more information about a command.
` + "\n")
}
