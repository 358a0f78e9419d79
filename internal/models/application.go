// internal/models/application.go
package models

// ApplicationDraft accumulates the applicant's answers as typed. Numeric
// fields stay raw strings until the submission payload is built.
type ApplicationDraft struct {
	ListingID      string             `json:"listingId"`
	PersonalInfo   PersonalInfo       `json:"personalInfo"`
	CurrentAddress Address            `json:"currentAddress"`
	Employment     EmploymentDraft    `json:"employment"`
	RentalHistory  RentalHistoryDraft `json:"rentalHistory"`
	Occupants      []Occupant         `json:"occupants"`
}

type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type EmploymentDraft struct {
	Employer         string `json:"employer"`
	Position         string `json:"position"`
	MonthlyIncome    string `json:"monthlyIncome"`
	EmploymentLength string `json:"employmentLength"`
	EmployerContact  string `json:"employerContact"`
}

type RentalHistoryDraft struct {
	PreviousAddress Address `json:"previousAddress"`
	LandlordName    string  `json:"landlordName"`
	LandlordContact string  `json:"landlordContact"`
	MonthlyRent     string  `json:"monthlyRent"`
	LengthOfStay    string  `json:"lengthOfStay"`
}

type Occupant struct {
	Name         string `json:"name" yaml:"name"`
	Relationship string `json:"relationship" yaml:"relationship"`
	Age          string `json:"age" yaml:"age"`
}

// NewApplicationDraft returns an empty draft bound to a listing with one blank occupant.
func NewApplicationDraft(listingID string) ApplicationDraft {
	return ApplicationDraft{
		ListingID: listingID,
		Occupants: []Occupant{{}},
	}
}

// Clone returns a deep copy of the draft.
func (d ApplicationDraft) Clone() ApplicationDraft {
	out := d
	out.Occupants = append([]Occupant(nil), d.Occupants...)
	return out
}

// ApplicationPayload is the nested shape sent with submitLeaseApplication.
type ApplicationPayload struct {
	HouseID             string          `json:"houseId"`
	ApplicantInfo       ApplicantInfo   `json:"applicantInfo"`
	EmploymentInfo      EmploymentInfo  `json:"employmentInfo"`
	RentalHistory       RentalHistory   `json:"rentalHistory"`
	AdditionalOccupants []OccupantInput `json:"additionalOccupants"`
}

type ApplicantInfo struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	DateOfBirth    string  `json:"dateOfBirth"`
	SSN            string  `json:"ssn"`
	CurrentAddress Address `json:"currentAddress"`
}

type EmploymentInfo struct {
	Employer         string  `json:"employer"`
	Position         string  `json:"position"`
	MonthlyIncome    float64 `json:"monthlyIncome"`
	EmploymentLength int     `json:"employmentLength"`
	EmployerContact  string  `json:"employerContact"`
}

type RentalHistory struct {
	PreviousAddress Address `json:"previousAddress"`
	LandlordName    string  `json:"landlordName"`
	LandlordContact string  `json:"landlordContact"`
	MonthlyRent     float64 `json:"monthlyRent"`
	LengthOfStay    int     `json:"lengthOfStay"`
}

type OccupantInput struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Age          int    `json:"age"`
}

// SubmissionResult is the remote answer to submitLeaseApplication.
type SubmissionResult struct {
	ApplicationID  string   `json:"id"`
	Status         string   `json:"status"`
	PaymentStatus  string   `json:"paymentStatus"`
	ApplicationFee *float64 `json:"applicationFee"`
}

// Fee returns the application fee, or fallback when the service omitted it.
func (r SubmissionResult) Fee(fallback float64) float64 {
	if r.ApplicationFee == nil {
		return fallback
	}
	return *r.ApplicationFee
}
