// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	formwizard "lease-client/internal/flows/application/form-wizard"
	paymentsubmitter "lease-client/internal/flows/payment/payment-submitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RequiredFieldsMatchWizard(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.Len(t, reg.Steps, int(formwizard.LastStep))

	for step := formwizard.FirstStep; step <= formwizard.LastStep; step++ {
		spec, ok := reg.Step(int(step))
		require.True(t, ok, "step %d missing", step)
		assert.Equal(t, step.Title(), spec.Title)

		var want []string
		for _, key := range formwizard.RequiredFields(step) {
			want = append(want, string(key))
		}
		assert.Equal(t, want, spec.RequiredKeys(), "step %d", step)
	}
}

func TestDefault_PaymentFieldsMatchValidationOrder(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	var want []string
	for _, key := range paymentsubmitter.Fields {
		want = append(want, string(key))
	}
	assert.Equal(t, want, reg.Payment.RequiredKeys())
}

func TestDefault_EveryWizardFieldIsKnown(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, s := range reg.Steps {
		if s.Repeated {
			continue
		}
		for _, f := range s.Fields {
			assert.True(t, formwizard.KnownField(formwizard.FieldKey(f.Key)), f.Key)
		}
	}
}

func TestField(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	ssn, ok := reg.Field("ssn")
	require.True(t, ok)
	assert.True(t, ssn.Secret)

	cvv, ok := reg.Field("cvv")
	require.True(t, ok)
	assert.True(t, cvv.Secret)

	_, ok = reg.Field("nickname")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forms.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","steps":[{"number":1,"title":"Only"}]}`), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)

	require.NoError(t, os.WriteFile(path, []byte(`{"steps":[]}`), 0o644))
	_, err = LoadRegistry(path)
	assert.Error(t, err)

	_, err = LoadRegistry(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
