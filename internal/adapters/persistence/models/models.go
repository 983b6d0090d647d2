package models

import (
	"time"

	"iledu-loan/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// Profile represents profiles table
type Profile struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"user_id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	FirstName    string         `gorm:"size:100" json:"first_name"`
	LastName     string         `gorm:"size:100" json:"last_name"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;default:'APPLICANT'" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UserID == "" {
		p.UserID = "user_" + uuid.NewString()
	}
	return nil
}

// ProfileResponse DTO
type ProfileResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Profile) ToResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}

func (p *Profile) ToDomain() *domain.Profile {
	return &domain.Profile{
		ID:        p.ID,
		UserID:    p.UserID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      domain.Role(p.Role),
		CreatedAt: p.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"type:char(36);primaryKey" json:"id"`
	ProfileID string     `gorm:"type:char(36);index;not null" json:"profile_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Profile   Profile    `gorm:"foreignKey:ProfileID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Loan intake
// ============================================================

// LoanApplication represents loan_applications table
type LoanApplication struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProfileID       string    `gorm:"type:char(36);index;not null" json:"profileId"`
	AmountRequested int64     `gorm:"not null" json:"amountRequested"`
	Purpose         string    `gorm:"type:text;not null" json:"purpose"`
	Status          string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Profile         *Profile  `gorm:"foreignKey:ProfileID" json:"-"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

func (a *LoanApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *LoanApplication) ToDomain() domain.LoanApplication {
	return domain.LoanApplication{
		ID:              a.ID,
		ProfileID:       a.ProfileID,
		AmountRequested: a.AmountRequested,
		Purpose:         a.Purpose,
		Status:          domain.ApplicationStatus(a.Status),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// Family represents families table, one row per profile
type Family struct {
	ID                 string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProfileID          string    `gorm:"type:char(36);uniqueIndex;not null" json:"profileId"`
	FatherFirstName    string    `gorm:"size:100" json:"fatherFirstName"`
	FatherLastName     string    `gorm:"size:100" json:"fatherLastName"`
	FatherOccupation   string    `gorm:"size:100" json:"fatherOccupation"`
	FatherIncome       int64     `gorm:"not null;default:0" json:"fatherIncome"`
	MotherFirstName    string    `gorm:"size:100" json:"motherFirstName"`
	MotherLastName     string    `gorm:"size:100" json:"motherLastName"`
	MotherOccupation   *string   `gorm:"size:100" json:"motherOccupation"`
	MotherIncome       int64     `gorm:"not null;default:0" json:"motherIncome"`
	GuardianFirstName  string    `gorm:"size:100" json:"guardianFirstName,omitempty"`
	GuardianLastName   string    `gorm:"size:100" json:"guardianLastName,omitempty"`
	GuardianOccupation string    `gorm:"size:100" json:"guardianOccupation,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Family) TableName() string {
	return "families"
}

func (f *Family) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FamilyFromDomain maps the coerced family record onto a row.
func FamilyFromDomain(f domain.Family) *Family {
	return &Family{
		ProfileID:          f.ProfileID,
		FatherFirstName:    f.FatherFirstName,
		FatherLastName:     f.FatherLastName,
		FatherOccupation:   f.FatherOccupation,
		FatherIncome:       f.FatherIncome,
		MotherFirstName:    f.MotherFirstName,
		MotherLastName:     f.MotherLastName,
		MotherOccupation:   f.MotherOccupation,
		MotherIncome:       f.MotherIncome,
		GuardianFirstName:  f.GuardianFirstName,
		GuardianLastName:   f.GuardianLastName,
		GuardianOccupation: f.GuardianOccupation,
	}
}

// Document represents documents table
type Document struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProfileID    string    `gorm:"type:char(36);index;not null" json:"profileId"`
	DocumentType string    `gorm:"size:30;not null;index" json:"documentType"`
	DocumentURL  string    `gorm:"size:1024;not null" json:"documentUrl"`
	StorageKey   string    `gorm:"size:1024;not null" json:"-"`
	Status       string    `gorm:"size:20;not null;default:'uploaded'" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (d *Document) ToDomain() domain.Document {
	return domain.Document{
		ID:           d.ID,
		ProfileID:    d.ProfileID,
		DocumentType: domain.DocumentType(d.DocumentType),
		DocumentURL:  d.DocumentURL,
		StorageKey:   d.StorageKey,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates every table owned by the service
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&RefreshToken{},
		&LoanApplication{},
		&Family{},
		&Document{},
	)
}
