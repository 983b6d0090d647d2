package domain

import (
	"strings"
	"time"
)

// Role represents a caller's role in the system
type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleReviewer  Role = "REVIEWER"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// Profile is the resolved identity of the caller. UserID is the external
// identity and scopes object storage keys.
type Profile struct {
	ID        string
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	CreatedAt time.Time
}

// ApplicationStatus is the persisted lifecycle state of a loan application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a reviewer may move s to next.
// Only pending applications are decided, and only once.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return s == StatusPending && (next == StatusAccepted || next == StatusRejected)
}

// LoanApplication is created once per successful submission.
type LoanApplication struct {
	ID              string
	ProfileID       string
	AmountRequested int64
	Purpose         string
	Status          ApplicationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Family is the one-per-profile parent/guardian record.
type Family struct {
	ProfileID          string
	FatherFirstName    string
	FatherLastName     string
	FatherOccupation   string
	FatherIncome       int64
	MotherFirstName    string
	MotherLastName     string
	MotherOccupation   *string
	MotherIncome       int64
	GuardianFirstName  string
	GuardianLastName   string
	GuardianOccupation string
}

// DocumentType is the persisted kind of an uploaded document.
type DocumentType string

const (
	DocumentAadharCard    DocumentType = "AADHAR_CARD"
	DocumentMarksheet10th DocumentType = "MARKSHEET_10TH"
	DocumentMarksheet12th DocumentType = "MARKSHEET_12TH"
	DocumentRationCard    DocumentType = "RATION_CARD"
	DocumentProofOfIncome DocumentType = "PROOF_OF_INCOME"
)

// PathSegment is the lowercase form used in storage keys.
func (t DocumentType) PathSegment() string {
	return strings.ToLower(string(t))
}

// DocumentSlot ties a form slot name to its persisted document type.
type DocumentSlot struct {
	Name     string
	Type     DocumentType
	Required bool
}

// DocumentSlots lists the five slots in submission order.
var DocumentSlots = []DocumentSlot{
	{Name: "aadharCard", Type: DocumentAadharCard, Required: true},
	{Name: "marksheet10th", Type: DocumentMarksheet10th, Required: true},
	{Name: "marksheet12th", Type: DocumentMarksheet12th, Required: true},
	{Name: "rationCard", Type: DocumentRationCard},
	{Name: "proofOfIncome", Type: DocumentProofOfIncome},
}

// SlotByName finds a slot by its form name.
func SlotByName(name string) (DocumentSlot, bool) {
	for _, s := range DocumentSlots {
		if s.Name == name {
			return s, true
		}
	}
	return DocumentSlot{}, false
}

// DocumentStatusUploaded is the only status the intake flow writes.
const DocumentStatusUploaded = "uploaded"

// Document is one successfully stored file.
type Document struct {
	ID           string
	ProfileID    string
	DocumentType DocumentType
	DocumentURL  string
	StorageKey   string
	Status       string
	CreatedAt    time.Time
}

// UploadedFile is the descriptor returned to the client per stored slot.
// Key is the slot name, e.g. "aadharCard"; the storage key stays internal.
type UploadedFile struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
