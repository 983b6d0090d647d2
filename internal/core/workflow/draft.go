package workflow

import (
	"strings"

	"iledu-loan/internal/core/domain"
)

// LoanDetails is the first stage of the draft.
type LoanDetails struct {
	ApplicantFirstName string  `json:"applicantFirstName" validate:"required,max=100"`
	ApplicantLastName  string  `json:"applicantLastName" validate:"required,max=100"`
	Purpose            string  `json:"purpose" validate:"required,max=1000"`
	AmountRequested    Numeric `json:"amountRequested" validate:"required,positive_amount"`
	DOB                Date    `json:"dob" validate:"required,dob_range"`
}

func (l LoanDetails) normalized() LoanDetails {
	l.ApplicantFirstName = strings.TrimSpace(l.ApplicantFirstName)
	l.ApplicantLastName = strings.TrimSpace(l.ApplicantLastName)
	l.Purpose = strings.TrimSpace(l.Purpose)
	return l
}

// FamilyDetails is the second stage. Whether the father or the guardian
// block is mandatory is decided by familyRule, not by tags.
type FamilyDetails struct {
	FatherFirstName    string  `json:"fatherFirstName" validate:"max=100"`
	FatherLastName     string  `json:"fatherLastName" validate:"max=100"`
	FatherOccupation   string  `json:"fatherOccupation" validate:"omitempty,occupation"`
	FatherIncome       Numeric `json:"fatherIncome" validate:"omitempty,nonneg_amount"`
	MotherFirstName    string  `json:"motherFirstName" validate:"max=100"`
	MotherLastName     string  `json:"motherLastName" validate:"max=100"`
	MotherOccupation   string  `json:"motherOccupation" validate:"omitempty,occupation"`
	MotherIncome       Numeric `json:"motherIncome" validate:"omitempty,lenient_nonneg_amount"`
	GuardianFirstName  string  `json:"guardianFirstName" validate:"max=100"`
	GuardianLastName   string  `json:"guardianLastName" validate:"max=100"`
	GuardianOccupation string  `json:"guardianOccupation" validate:"omitempty,occupation"`
}

func (f FamilyDetails) normalized() FamilyDetails {
	for _, s := range []*string{
		&f.FatherFirstName, &f.FatherLastName, &f.FatherOccupation,
		&f.MotherFirstName, &f.MotherLastName, &f.MotherOccupation,
		&f.GuardianFirstName, &f.GuardianLastName, &f.GuardianOccupation,
	} {
		*s = strings.TrimSpace(*s)
	}
	return f
}

// HasGuardian reports whether any guardian field was filled in.
func (f FamilyDetails) HasGuardian() bool {
	return f.GuardianFirstName != "" || f.GuardianLastName != "" || f.GuardianOccupation != ""
}

// CompleteGuardian reports whether the guardian block can stand in for the father.
func (f FamilyDetails) CompleteGuardian() bool {
	return f.GuardianFirstName != "" && f.GuardianLastName != "" && f.GuardianOccupation != ""
}

// Record coerces the stage into the persisted family shape.
func (f FamilyDetails) Record(profileID string) domain.Family {
	f = f.normalized()
	rec := domain.Family{
		ProfileID:          profileID,
		FatherFirstName:    f.FatherFirstName,
		FatherLastName:     f.FatherLastName,
		FatherOccupation:   f.FatherOccupation,
		FatherIncome:       f.FatherIncome.Int(),
		MotherFirstName:    f.MotherFirstName,
		MotherLastName:     f.MotherLastName,
		MotherIncome:       f.MotherIncome.Int(),
		GuardianFirstName:  f.GuardianFirstName,
		GuardianLastName:   f.GuardianLastName,
		GuardianOccupation: f.GuardianOccupation,
	}
	if f.MotherOccupation != "" {
		occ := f.MotherOccupation
		rec.MotherOccupation = &occ
	}
	return rec
}

// FileRef describes a file chosen for a document slot.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// Present is true for a non-empty file.
func (f *FileRef) Present() bool {
	return f != nil && f.Size > 0
}

// Documents is the third stage: one optional file per slot.
type Documents struct {
	AadharCard    *FileRef `json:"aadharCard,omitempty"`
	Marksheet10th *FileRef `json:"marksheet10th,omitempty"`
	Marksheet12th *FileRef `json:"marksheet12th,omitempty"`
	RationCard    *FileRef `json:"rationCard,omitempty"`
	ProofOfIncome *FileRef `json:"proofOfIncome,omitempty"`
}

// Get returns the file in the named slot.
func (d Documents) Get(slot string) *FileRef {
	switch slot {
	case "aadharCard":
		return d.AadharCard
	case "marksheet10th":
		return d.Marksheet10th
	case "marksheet12th":
		return d.Marksheet12th
	case "rationCard":
		return d.RationCard
	case "proofOfIncome":
		return d.ProofOfIncome
	}
	return nil
}

// With returns a copy with the named slot replaced. Unknown slots are ignored.
func (d Documents) With(slot string, f *FileRef) Documents {
	switch slot {
	case "aadharCard":
		d.AadharCard = f
	case "marksheet10th":
		d.Marksheet10th = f
	case "marksheet12th":
		d.Marksheet12th = f
	case "rationCard":
		d.RationCard = f
	case "proofOfIncome":
		d.ProofOfIncome = f
	}
	return d
}

// Draft is the in-progress application held across the three stages.
type Draft struct {
	UserDetails   LoanDetails   `json:"userDetails"`
	FamilyDetails FamilyDetails `json:"familyDetails"`
	Documents     Documents     `json:"documents"`
}
