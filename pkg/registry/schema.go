// pkg/registry/schema.go
package registry

// FormRegistry describes how each form page is rendered.
type FormRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Steps       []StepSpec `json:"steps"`
	Payment     StepSpec   `json:"payment"`
}

type StepSpec struct {
	Number   int         `json:"number"`
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Repeated bool        `json:"repeated"` // one field group per occupant
	Fields   []FieldSpec `json:"fields"`
}

type FieldSpec struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
	Secret      bool   `json:"secret"`
	Numeric     bool   `json:"numeric"`
}

// RequiredKeys returns the required field keys in display order.
func (s StepSpec) RequiredKeys() []string {
	var keys []string
	for _, f := range s.Fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
