// internal/flows/application/form-wizard/payload.go
package formwizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/models"
)

// BuildSubmissionPayload turns a draft into the nested remote shape.
// Occupants with a blank name are dropped before any number is parsed.
func BuildSubmissionPayload(draft models.ApplicationDraft) (models.ApplicationPayload, error) {
	income, err := parseDecimal(string(FieldMonthlyIncome), draft.Employment.MonthlyIncome)
	if err != nil {
		return models.ApplicationPayload{}, err
	}
	employmentLength, err := parseWhole(string(FieldEmploymentLength), draft.Employment.EmploymentLength)
	if err != nil {
		return models.ApplicationPayload{}, err
	}
	rent, err := parseDecimal(string(FieldMonthlyRent), draft.RentalHistory.MonthlyRent)
	if err != nil {
		return models.ApplicationPayload{}, err
	}
	lengthOfStay, err := parseWhole(string(FieldLengthOfStay), draft.RentalHistory.LengthOfStay)
	if err != nil {
		return models.ApplicationPayload{}, err
	}

	occupants := make([]models.OccupantInput, 0, len(draft.Occupants))
	for i, o := range draft.Occupants {
		if strings.TrimSpace(o.Name) == "" {
			continue
		}
		age, err := parseWhole(fmt.Sprintf("additionalOccupants[%d].age", i), o.Age)
		if err != nil {
			return models.ApplicationPayload{}, err
		}
		occupants = append(occupants, models.OccupantInput{
			Name:         o.Name,
			Relationship: o.Relationship,
			Age:          age,
		})
	}

	p := draft.PersonalInfo
	return models.ApplicationPayload{
		HouseID: draft.ListingID,
		ApplicantInfo: models.ApplicantInfo{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Email:          p.Email,
			Phone:          p.Phone,
			DateOfBirth:    p.DateOfBirth,
			SSN:            p.SSN,
			CurrentAddress: draft.CurrentAddress,
		},
		EmploymentInfo: models.EmploymentInfo{
			Employer:         draft.Employment.Employer,
			Position:         draft.Employment.Position,
			MonthlyIncome:    income,
			EmploymentLength: employmentLength,
			EmployerContact:  draft.Employment.EmployerContact,
		},
		RentalHistory: models.RentalHistory{
			PreviousAddress: draft.RentalHistory.PreviousAddress,
			LandlordName:    draft.RentalHistory.LandlordName,
			LandlordContact: draft.RentalHistory.LandlordContact,
			MonthlyRent:     rent,
			LengthOfStay:    lengthOfStay,
		},
		AdditionalOccupants: occupants,
	}, nil
}

func parseDecimal(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &apperrors.InvalidNumberError{Field: field, Value: raw}
	}
	return v, nil
}

func parseWhole(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &apperrors.InvalidNumberError{Field: field, Value: raw}
	}
	return v, nil
}
