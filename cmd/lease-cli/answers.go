// cmd/lease-cli/answers.go
package main

import (
	"fmt"
	"os"
	"sort"

	formwizard "lease-client/internal/flows/application/form-wizard"
	"lease-client/internal/models"

	"gopkg.in/yaml.v3"
)

// answers prefills an application draft, e.g.
//
//	fields:
//	  firstName: John
//	occupants:
//	  - name: Jane Doe
//	    relationship: spouse
//	    age: "31"
type answers struct {
	Fields    map[string]string `yaml:"fields"`
	Occupants []models.Occupant `yaml:"occupants"`
}

func loadAnswers(path string) (*answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var a answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return &a, nil
}

// apply writes the answers into the wizard. Unknown keys are rejected so a
// typo does not silently leave a field blank.
func (a *answers) apply(w *formwizard.Controller) error {
	keys := make([]string, 0, len(a.Fields))
	for k := range a.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.SetField(formwizard.FieldKey(k), a.Fields[k]); err != nil {
			return err
		}
	}

	for i, o := range a.Occupants {
		if i >= len(w.Snapshot().Draft.Occupants) {
			if err := w.AddOccupant(); err != nil {
				return err
			}
		}
		for field, value := range map[formwizard.OccupantField]string{
			formwizard.OccupantName:         o.Name,
			formwizard.OccupantRelationship: o.Relationship,
			formwizard.OccupantAge:          o.Age,
		} {
			if err := w.SetOccupantField(i, field, value); err != nil {
				return err
			}
		}
	}
	return nil
}
