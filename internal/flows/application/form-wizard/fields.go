// internal/flows/application/form-wizard/fields.go
package formwizard

import (
	"errors"
	"fmt"
	"strings"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/models"
)

var (
	ErrUnknownField         = errors.New("UNKNOWN_FIELD")
	ErrOccupantOutOfRange   = errors.New("OCCUPANT_OUT_OF_RANGE")
	ErrUnknownOccupantField = errors.New("UNKNOWN_OCCUPANT_FIELD")
)

type fieldAccess struct {
	get func(d *models.ApplicationDraft) string
	set func(d *models.ApplicationDraft, v string)
}

var fields = map[FieldKey]fieldAccess{
	FieldFirstName: {
		func(d *models.ApplicationDraft) string { return d.PersonalInfo.FirstName },
		func(d *models.ApplicationDraft, v string) { d.PersonalInfo.FirstName = v },
	},
	FieldLastName: {
		func(d *models.ApplicationDraft) string { return d.PersonalInfo.LastName },
		func(d *models.ApplicationDraft, v string) { d.PersonalInfo.LastName = v },
	},
	FieldEmail: {
		func(d *models.ApplicationDraft) string { return d.PersonalInfo.Email },
		func(d *models.ApplicationDraft, v string) { d.PersonalInfo.Email = v },
	},
	FieldPhone: {
		func(d *models.ApplicationDraft) string { return d.PersonalInfo.Phone },
		func(d *models.ApplicationDraft, v string) { d.PersonalInfo.Phone = v },
	},
	FieldDateOfBirth: {
		func(d *models.ApplicationDraft) string { return d.PersonalInfo.DateOfBirth },
		func(d *models.ApplicationDraft, v string) { d.PersonalInfo.DateOfBirth = v },
	},
	FieldSSN: {
		func(d *models.ApplicationDraft) string { return d.PersonalInfo.SSN },
		func(d *models.ApplicationDraft, v string) { d.PersonalInfo.SSN = v },
	},

	FieldCurrentStreet: {
		func(d *models.ApplicationDraft) string { return d.CurrentAddress.Street },
		func(d *models.ApplicationDraft, v string) { d.CurrentAddress.Street = v },
	},
	FieldCurrentCity: {
		func(d *models.ApplicationDraft) string { return d.CurrentAddress.City },
		func(d *models.ApplicationDraft, v string) { d.CurrentAddress.City = v },
	},
	FieldCurrentState: {
		func(d *models.ApplicationDraft) string { return d.CurrentAddress.State },
		func(d *models.ApplicationDraft, v string) { d.CurrentAddress.State = v },
	},
	FieldCurrentZipCode: {
		func(d *models.ApplicationDraft) string { return d.CurrentAddress.ZipCode },
		func(d *models.ApplicationDraft, v string) { d.CurrentAddress.ZipCode = v },
	},

	FieldEmployer: {
		func(d *models.ApplicationDraft) string { return d.Employment.Employer },
		func(d *models.ApplicationDraft, v string) { d.Employment.Employer = v },
	},
	FieldPosition: {
		func(d *models.ApplicationDraft) string { return d.Employment.Position },
		func(d *models.ApplicationDraft, v string) { d.Employment.Position = v },
	},
	FieldMonthlyIncome: {
		func(d *models.ApplicationDraft) string { return d.Employment.MonthlyIncome },
		func(d *models.ApplicationDraft, v string) { d.Employment.MonthlyIncome = v },
	},
	FieldEmploymentLength: {
		func(d *models.ApplicationDraft) string { return d.Employment.EmploymentLength },
		func(d *models.ApplicationDraft, v string) { d.Employment.EmploymentLength = v },
	},
	FieldEmployerContact: {
		func(d *models.ApplicationDraft) string { return d.Employment.EmployerContact },
		func(d *models.ApplicationDraft, v string) { d.Employment.EmployerContact = v },
	},

	FieldPreviousStreet: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.PreviousAddress.Street },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.PreviousAddress.Street = v },
	},
	FieldPreviousCity: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.PreviousAddress.City },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.PreviousAddress.City = v },
	},
	FieldPreviousState: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.PreviousAddress.State },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.PreviousAddress.State = v },
	},
	FieldPreviousZipCode: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.PreviousAddress.ZipCode },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.PreviousAddress.ZipCode = v },
	},
	FieldLandlordName: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.LandlordName },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.LandlordName = v },
	},
	FieldLandlordContact: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.LandlordContact },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.LandlordContact = v },
	},
	FieldMonthlyRent: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.MonthlyRent },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.MonthlyRent = v },
	},
	FieldLengthOfStay: {
		func(d *models.ApplicationDraft) string { return d.RentalHistory.LengthOfStay },
		func(d *models.ApplicationDraft, v string) { d.RentalHistory.LengthOfStay = v },
	},
}

// requiredFields is the step transition table. Order is the reporting order.
var requiredFields = map[Step][]FieldKey{
	StepPersonal: {
		FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldDateOfBirth, FieldSSN,
	},
	StepCurrentAddress: {
		FieldCurrentStreet, FieldCurrentCity, FieldCurrentState, FieldCurrentZipCode,
	},
	StepEmployment: {
		FieldEmployer, FieldPosition, FieldMonthlyIncome, FieldEmploymentLength, FieldEmployerContact,
	},
	StepRentalHistory: {
		FieldPreviousStreet, FieldPreviousCity, FieldPreviousState, FieldPreviousZipCode,
		FieldLandlordName, FieldLandlordContact, FieldMonthlyRent, FieldLengthOfStay,
	},
	StepOccupants: {},
}

// RequiredFields returns a copy of the required keys for step.
func RequiredFields(step Step) []FieldKey {
	return append([]FieldKey(nil), requiredFields[step]...)
}

// StepOf returns the step that owns key.
func StepOf(key FieldKey) (Step, bool) {
	for step := FirstStep; step <= LastStep; step++ {
		for _, k := range requiredFields[step] {
			if k == key {
				return step, true
			}
		}
	}
	return 0, false
}

// KnownField reports whether key is a draft field.
func KnownField(key FieldKey) bool {
	_, ok := fields[key]
	return ok
}

// Apply is the draft reducer: it returns a copy of draft with key set to value.
// No validation beyond the key being known.
func Apply(draft models.ApplicationDraft, key FieldKey, value string) (models.ApplicationDraft, error) {
	access, ok := fields[key]
	if !ok {
		return draft, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	next := draft.Clone()
	access.set(&next, value)
	return next, nil
}

// ApplyOccupant sets one field of the occupant at index.
func ApplyOccupant(draft models.ApplicationDraft, index int, field OccupantField, value string) (models.ApplicationDraft, error) {
	if index < 0 || index >= len(draft.Occupants) {
		return draft, fmt.Errorf("%w: %d", ErrOccupantOutOfRange, index)
	}
	next := draft.Clone()
	o := &next.Occupants[index]
	switch field {
	case OccupantName:
		o.Name = value
	case OccupantRelationship:
		o.Relationship = value
	case OccupantAge:
		o.Age = value
	default:
		return draft, fmt.Errorf("%w: %s", ErrUnknownOccupantField, field)
	}
	return next, nil
}

// FieldValue reads a draft field by key.
func FieldValue(draft models.ApplicationDraft, key FieldKey) (string, error) {
	access, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return access.get(&draft), nil
}

// ValidateStep returns a MissingFieldsError naming every blank required field of step.
func ValidateStep(draft models.ApplicationDraft, step Step) error {
	var missing []string
	for _, key := range requiredFields[step] {
		if strings.TrimSpace(fields[key].get(&draft)) == "" {
			missing = append(missing, string(key))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &apperrors.MissingFieldsError{
		Step:     int(step),
		StepName: step.Title(),
		Fields:   missing,
	}
}

// ValidateThrough validates steps FirstStep..last and returns the first failure.
func ValidateThrough(draft models.ApplicationDraft, last Step) error {
	for s := FirstStep; s <= last; s++ {
		if err := ValidateStep(draft, s); err != nil {
			return err
		}
	}
	return nil
}

// MissingFieldsMessage is the prompt shown when a step is incomplete.
func MissingFieldsMessage(step Step) string {
	switch step {
	case StepPersonal:
		return "Please fill in all personal information fields."
	case StepCurrentAddress:
		return "Please fill in all current address fields."
	case StepEmployment:
		return "Please fill in all employment information fields."
	case StepRentalHistory:
		return "Please fill in all rental history fields."
	default:
		return "Please fill in all required fields."
	}
}
