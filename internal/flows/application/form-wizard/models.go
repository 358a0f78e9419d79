// internal/flows/application/form-wizard/models.go
package formwizard

import (
	"time"

	"lease-client/internal/models"
)

// Step is one page of the lease application.
type Step int

const (
	StepPersonal Step = iota + 1
	StepCurrentAddress
	StepEmployment
	StepRentalHistory
	StepOccupants
)

const (
	FirstStep = StepPersonal
	LastStep  = StepOccupants
)

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) Title() string {
	switch s {
	case StepPersonal:
		return "Personal Information"
	case StepCurrentAddress:
		return "Current Address"
	case StepEmployment:
		return "Employment Information"
	case StepRentalHistory:
		return "Rental History"
	case StepOccupants:
		return "Additional Occupants"
	default:
		return "Unknown"
	}
}

// Phase tracks the submission lifecycle. Submitted is terminal.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
	PhaseFailed     Phase = "failed"
)

// FieldKey names a scalar draft field.
type FieldKey string

const (
	FieldFirstName   FieldKey = "firstName"
	FieldLastName    FieldKey = "lastName"
	FieldEmail       FieldKey = "email"
	FieldPhone       FieldKey = "phone"
	FieldDateOfBirth FieldKey = "dateOfBirth"
	FieldSSN         FieldKey = "ssn"

	FieldCurrentStreet  FieldKey = "currentStreet"
	FieldCurrentCity    FieldKey = "currentCity"
	FieldCurrentState   FieldKey = "currentState"
	FieldCurrentZipCode FieldKey = "currentZipCode"

	FieldEmployer         FieldKey = "employer"
	FieldPosition         FieldKey = "position"
	FieldMonthlyIncome    FieldKey = "monthlyIncome"
	FieldEmploymentLength FieldKey = "employmentLength"
	FieldEmployerContact  FieldKey = "employerContact"

	FieldPreviousStreet  FieldKey = "previousStreet"
	FieldPreviousCity    FieldKey = "previousCity"
	FieldPreviousState   FieldKey = "previousState"
	FieldPreviousZipCode FieldKey = "previousZipCode"
	FieldLandlordName    FieldKey = "landlordName"
	FieldLandlordContact FieldKey = "landlordContact"
	FieldMonthlyRent     FieldKey = "monthlyRent"
	FieldLengthOfStay    FieldKey = "lengthOfStay"
)

// OccupantField names a field of one additional occupant.
type OccupantField string

const (
	OccupantName         OccupantField = "name"
	OccupantRelationship OccupantField = "relationship"
	OccupantAge          OccupantField = "age"
)

// Snapshot is a value copy of the wizard state for presentation.
type Snapshot struct {
	ListingID      string
	Step           Step
	Phase          Phase
	Draft          models.ApplicationDraft
	Result         *models.SubmissionResult
	ApplicationFee float64
	Err            error
	ErrorMessage   string
}

// SavedDraft is what a DraftStore persists between sessions.
type SavedDraft struct {
	Draft   models.ApplicationDraft `json:"draft"`
	Step    Step                    `json:"step"`
	SavedAt time.Time               `json:"savedAt"`
}
