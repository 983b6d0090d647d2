package repositories

import (
	"context"
	"time"

	"iledu-loan/internal/adapters/persistence/models"
)

// ProfileRepository defines profile repository interface
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByProfileID(ctx context.Context, profileID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ApplicationFilter narrows the reviewer listing.
type ApplicationFilter struct {
	Status string
	Query  string
}

// StatusTotal is the count and requested amount of one status.
type StatusTotal struct {
	Status string
	Count  int64
	Amount int64
}

// LoanApplicationRepository defines loan application repository interface
type LoanApplicationRepository interface {
	ListByProfileID(ctx context.Context, profileID string) ([]*models.LoanApplication, error)
	GetByID(ctx context.Context, id string) (*models.LoanApplication, error)
	List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]*models.LoanApplication, int64, error)
	// CreateWithFamily upserts the family row and inserts the application
	// in one transaction.
	CreateWithFamily(ctx context.Context, app *models.LoanApplication, family *models.Family) error
	// UpdateStatus moves an application from one status to another only if
	// it still holds from. It returns false when nothing matched.
	UpdateStatus(ctx context.Context, id, from, to string) (bool, error)
	// TotalsByStatus aggregates applications created at or after since;
	// a zero since covers everything.
	TotalsByStatus(ctx context.Context, since time.Time) ([]StatusTotal, error)
}

// FamilyRepository defines family repository interface
type FamilyRepository interface {
	Upsert(ctx context.Context, family *models.Family) error
	GetByProfileID(ctx context.Context, profileID string) (*models.Family, error)
}

// DocumentRepository defines document repository interface
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	ListByProfileID(ctx context.Context, profileID string) ([]*models.Document, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	CountByStorageKey(ctx context.Context, key string) (int64, error)
}
