package services

import (
	"context"
	"io"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/workflow"
	"iledu-loan/internal/pkg/pagination"
)

// Operation tags carried by logs and classified errors.
const (
	OpGetCanApply       = "GET_CAN_APPLY"
	OpGetApplications   = "GET_APPLICATIONS"
	OpUploadDetails     = "UPLOAD_DETAILS"
	OpUploadDocument    = "UPLOAD_DOCUMENT"
	OpUpsertFamily      = "UPSERT_FAMILY"
	OpCreateApplication = "CREATE_APPLICATION"
	OpReviewApplication = "REVIEW_APPLICATION"
	OpCronPurgeTokens   = "CRON_PURGE_TOKENS"
	OpDashboard         = "GET_DASHBOARD"
	OpUpdateProfile     = "UPDATE_PROFILE"
	OpChangePassword    = "CHANGE_PASSWORD"
	OpSetRole           = "SET_ROLE"
)

// LoanUseCase is what the applicant-facing loan handler needs.
type LoanUseCase interface {
	CanApply(ctx context.Context, userID string) (bool, error)
	ListApplications(ctx context.Context, userID string, q ListQuery) ([]ApplicationView, *pagination.Meta, error)
	ValidateStage(req StageRequest) StageResult
}

// SubmissionUseCase accepts a complete application.
type SubmissionUseCase interface {
	Submit(ctx context.Context, in SubmissionInput) (*SubmissionResult, error)
}

// ReviewUseCase is what the reviewer console needs.
type ReviewUseCase interface {
	List(ctx context.Context, filter repositories.ApplicationFilter, p *pagination.Params) ([]*models.LoanApplication, *pagination.Meta, error)
	Get(ctx context.Context, id string) (*ApplicationDetail, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.LoanApplication, error)
	Export(ctx context.Context, filter repositories.ApplicationFilter, w io.Writer) error
}

// DashboardUseCase summarizes the intake queue.
type DashboardUseCase interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

// ProfileUseCase is profile self-service plus role management.
type ProfileUseCase interface {
	UpdateProfile(ctx context.Context, profileID string, in UpdateProfileInput) (*models.ProfileResponse, error)
	ChangePassword(ctx context.Context, profileID string, in ChangePasswordInput) error
	SetRole(ctx context.Context, actorID, profileID, role string) (*models.ProfileResponse, error)
}

// StageRequest asks the stage controller to apply one action to a draft.
type StageRequest struct {
	Stage  workflow.Stage `json:"stage"`
	Action string         `json:"action"`
	Draft  workflow.Draft `json:"draft"`
}

// StageResult is the controller's answer. Errors is empty when the action
// was accepted.
type StageResult struct {
	Stage  workflow.Stage    `json:"stage"`
	Draft  workflow.Draft    `json:"draft"`
	Errors map[string]string `json:"errors"`
}
