package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/config"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/core/workflow"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/metrics"
	"iledu-loan/internal/pkg/pagination"
	"iledu-loan/internal/pkg/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

const (
	validUserDetails   = `{"applicantFirstName":"Asha","applicantLastName":"Rao","purpose":"MSc tuition","amountRequested":"150000","dob":"2001-04-12"}`
	validFamilyDetails = `{"fatherFirstName":"Ravi","fatherLastName":"Rao","fatherOccupation":"Agriculture","fatherIncome":"45000","motherFirstName":"Meena","motherIncome":"not declared"}`
)

func applicant() *models.Profile {
	return &models.Profile{ID: "p1", UserID: "user_1", Email: "asha@example.com", Role: string(domain.RoleApplicant), IsActive: true}
}

func file(name, content string) *FileUpload {
	return &FileUpload{
		Filename:    name,
		Size:        int64(len(content)),
		ContentType: "application/pdf",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func allFiles() map[string]*FileUpload {
	return map[string]*FileUpload{
		"aadharCard":    file("aadhar.pdf", "A"),
		"marksheet10th": file("tenth.pdf", "10"),
		"marksheet12th": file("twelfth.pdf", "12"),
		"rationCard":    file("ration.pdf", "R"),
		"proofOfIncome": file("income.pdf", "I"),
	}
}

type submissionFixture struct {
	svc      *SubmissionService
	profiles *fakeProfiles
	apps     *fakeApps
	docs     *fakeDocs
	store    *flakyStore
	metrics  *metrics.Metrics
}

func newSubmissionFixture(t *testing.T, policy string, failSegments ...string) *submissionFixture {
	t.Helper()
	profiles := newFakeProfiles(applicant())
	apps := newFakeApps()
	docs := newFakeDocs()
	store := newFlakyStore(failSegments...)
	m := metrics.New("test")
	log := logger.NewTestLogger(t)

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		BreakerEnabled:      false,
	}, log)

	svc := NewSubmissionService(
		NewProfileResolver(profiles, time.Second), apps, docs, store, exec,
		workflow.NewValidator(func() time.Time { return fixedNow }),
		m, log,
		SubmissionConfig{Policy: policy, Concurrency: 3, UploadTimeout: time.Second, PersistTimeout: time.Second},
	)
	return &submissionFixture{svc: svc, profiles: profiles, apps: apps, docs: docs, store: store, metrics: m}
}

func validInput() SubmissionInput {
	return SubmissionInput{
		UserID:        "user_1",
		UserDetails:   validUserDetails,
		FamilyDetails: validFamilyDetails,
		Files:         allFiles(),
	}
}

func TestSubmitStoresEverything(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)

	res, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Data and documents uploaded successfully.", res.Message)
	require.Len(t, res.Files, 5)
	assert.Equal(t, "aadharCard", res.Files[0].Key)
	assert.Equal(t, "proofOfIncome", res.Files[4].Key)
	assert.Equal(t, "memory://docs/user_1/aadhar_card/aadhar.pdf", res.Files[0].URL)
	assert.Equal(t, 5, fx.docs.count())
	_, ok := fx.store.Object("user_1/aadhar_card/aadhar.pdf")
	assert.True(t, ok)

	require.Len(t, fx.apps.apps, 1)
	app := fx.apps.apps[0]
	assert.Equal(t, res.LoanApplicationID, app.ID)
	assert.Equal(t, "pending", app.Status)
	assert.Equal(t, int64(150000), app.AmountRequested)
	assert.Equal(t, "MSc tuition", app.Purpose)

	family := fx.apps.families["p1"]
	require.NotNil(t, family)
	assert.Equal(t, int64(45000), family.FatherIncome)
	assert.Equal(t, int64(0), family.MotherIncome)
	assert.Nil(t, family.MotherOccupation)
}

func TestSubmitSkipsFailedSlot(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort, "ration_card")

	res, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, res.Files, 4)
	for _, f := range res.Files {
		assert.NotEqual(t, "rationCard", f.Key)
	}
	assert.Equal(t, 4, fx.docs.count())
	assert.Len(t, fx.apps.apps, 1)
	assert.Equal(t, 2, fx.store.attempts("user_1/ration_card/ration.pdf"))
}

func TestSubmitDocumentRecordFailureRemovesObject(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.docs.failTypes[string(domain.DocumentMarksheet10th)] = true

	res, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	assert.Len(t, res.Files, 4)
	_, ok := fx.store.Object("user_1/marksheet_10th/tenth.pdf")
	assert.False(t, ok)
}

func TestSubmitAllOrNothingCompensates(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyAllOrNothing, "marksheet_12th")

	_, err := fx.svc.Submit(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, domain.KindUpload, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrUploadIncomplete)
	assert.Contains(t, err.Error(), "marksheet12th")

	assert.Empty(t, fx.store.Keys())
	assert.Zero(t, fx.docs.count())
	assert.Empty(t, fx.apps.apps)
}

func TestSubmitPersistenceFailureCompensates(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.apps.createErr = errors.New("connection reset")

	_, err := fx.svc.Submit(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, domain.KindPersistence, domain.KindOf(err))
	assert.Equal(t, OpCreateApplication, domain.OpOf(err))

	assert.Empty(t, fx.store.Keys())
	assert.Zero(t, fx.docs.count())
}

func TestSubmitUnknownProfileWritesNothing(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	in := validInput()
	in.UserID = "user_unknown"

	_, err := fx.svc.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
	assert.Empty(t, fx.store.Keys())
	assert.Empty(t, fx.apps.apps)
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	in := validInput()
	in.UserDetails = `{"applicantFirstName":"Asha","applicantLastName":"Rao","purpose":"x","amountRequested":"-5","dob":"2001-04-12"}`
	delete(in.Files, "aadharCard")
	delete(in.Files, "proofOfIncome")

	_, err := fx.svc.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	var fields domain.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "Amount requested must be at least 1", fields.Get("userDetails.amountRequested"))
	assert.True(t, fields.Has("documents.aadharCard"))
	assert.Equal(t, "Proof of income is required if ration card is provided", fields.Get("documents.proofOfIncome"))
	assert.Empty(t, fx.store.Keys())
}

func TestSubmitReportsMalformedJSONOnce(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	in := validInput()
	in.FamilyDetails = `{"fatherFirstName": 12`

	_, err := fx.svc.Submit(context.Background(), in)
	var fields domain.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "familyDetails must be valid JSON", fields.Get("familyDetails"))
	assert.False(t, fields.Has("familyDetails.fatherFirstName"))
}

func TestSubmitRejectsOversizedFile(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.svc.cfg.MaxFileSize = 1
	in := validInput()

	_, err := fx.svc.Submit(context.Background(), in)
	var fields domain.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "File must be 1 B or smaller", fields.Get("documents.marksheet10th"))
	assert.False(t, fields.Has("documents.aadharCard"))
}

func TestSubmitBlockedByActiveApplication(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.apps.apps = append(fx.apps.apps, &models.LoanApplication{ID: "a0", ProfileID: "p1", Status: "pending"})

	_, err := fx.svc.Submit(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Empty(t, fx.store.Keys())
}

func TestSubmitAllowedAfterRejection(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.apps.apps = append(fx.apps.apps, &models.LoanApplication{ID: "a0", ProfileID: "p1", Status: "rejected"})

	_, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, fx.apps.apps, 2)
}

func TestResubmissionFailureKeepsEarlierDocuments(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	require.Len(t, fx.apps.apps, 1)
	fx.apps.apps[0].Status = "rejected"
	fx.apps.createErr = errors.New("connection reset")

	_, err = fx.svc.Submit(ctx, validInput())
	require.Error(t, err)
	assert.Equal(t, domain.KindPersistence, domain.KindOf(err))

	assert.Equal(t, 5, fx.docs.count())
	for _, key := range []string{
		"user_1/aadhar_card/aadhar.pdf",
		"user_1/marksheet_10th/tenth.pdf",
		"user_1/marksheet_12th/twelfth.pdf",
		"user_1/ration_card/ration.pdf",
		"user_1/proof_of_income/income.pdf",
	} {
		_, ok := fx.store.Object(key)
		assert.True(t, ok, key)
	}
}

func TestResubmissionRecordFailureKeepsEarlierObject(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	fx.apps.apps[0].Status = "rejected"
	fx.docs.failTypes[string(domain.DocumentAadharCard)] = true

	res, err := fx.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Len(t, res.Files, 4)

	_, ok := fx.store.Object("user_1/aadhar_card/aadhar.pdf")
	assert.True(t, ok)
}

func TestSubmitIdentityLookupTimesOut(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.profiles.hang = true
	fx.svc.resolver.timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := fx.svc.Submit(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, fx.store.Keys())
}

func TestSubmitEligibilityReadTimesOut(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.apps.hang = true
	fx.svc.cfg.PersistTimeout = 50 * time.Millisecond

	_, err := fx.svc.Submit(context.Background(), validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, fx.store.Keys())
}

func TestSubmitDocumentRecordTimesOut(t *testing.T) {
	fx := newSubmissionFixture(t, PolicyBestEffort)
	fx.docs.hang = true
	fx.svc.cfg.PersistTimeout = 50 * time.Millisecond

	start := time.Now()
	res, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Empty(t, fx.store.Keys())
	assert.Less(t, time.Since(start), time.Second)
}

func TestCanApplyListingTimesOut(t *testing.T) {
	apps := newFakeApps()
	apps.hang = true
	svc := newLoanService(t, apps)

	_, err := svc.CanApply(context.Background(), "user_1")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func newLoanService(t *testing.T, apps *fakeApps) *LoanService {
	svc := NewLoanService(
		NewProfileResolver(newFakeProfiles(applicant()), time.Second),
		apps,
		workflow.NewValidator(func() time.Time { return fixedNow }),
		metrics.New("test"),
		logger.NewTestLogger(t),
		50*time.Millisecond,
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCanApply(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     bool
	}{
		{"no applications", nil, true},
		{"only rejected", []string{"rejected", "rejected"}, true},
		{"pending", []string{"rejected", "pending"}, false},
		{"accepted", []string{"accepted"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := newFakeApps()
			for i, s := range tt.statuses {
				apps.apps = append(apps.apps, &models.LoanApplication{ID: string(rune('a' + i)), ProfileID: "p1", Status: s})
			}
			ok, err := newLoanService(t, apps).CanApply(context.Background(), "user_1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCanApplyErrors(t *testing.T) {
	svc := newLoanService(t, newFakeApps())
	_, err := svc.CanApply(context.Background(), "nobody")
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
	assert.Equal(t, "[GET_CAN_APPLY] authorization: User profile not found: user profile not found", err.Error())

	apps := newFakeApps()
	apps.listErr = errors.New("db down")
	_, err = newLoanService(t, apps).CanApply(context.Background(), "user_1")
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestListApplications(t *testing.T) {
	apps := newFakeApps(
		&models.LoanApplication{ID: "a1", ProfileID: "p1", Purpose: "Diploma", AmountRequested: 20000, Status: "rejected", CreatedAt: fixedNow.Add(-72 * time.Hour)},
		&models.LoanApplication{ID: "a2", ProfileID: "p1", Purpose: "MBA fees", AmountRequested: 90000, Status: "pending", CreatedAt: fixedNow.Add(-48 * time.Hour)},
		&models.LoanApplication{ID: "x", ProfileID: "p2", Status: "pending", CreatedAt: fixedNow},
	)
	svc := newLoanService(t, apps)

	views, meta, err := svc.ListApplications(context.Background(), "user_1", ListQuery{})
	require.NoError(t, err)
	assert.Nil(t, meta)
	require.Len(t, views, 2)
	assert.Equal(t, "a2", views[0].ID)
	assert.Equal(t, domain.ToneNeutral, views[0].DisplayStatus.Tone)
	assert.Equal(t, "2 days ago", views[0].AppliedAgo)
	assert.Equal(t, domain.ToneDanger, views[1].DisplayStatus.Tone)

	views, _, err = svc.ListApplications(context.Background(), "user_1", ListQuery{Sort: "amountRequested", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "a1", views[0].ID)

	views, _, err = svc.ListApplications(context.Background(), "user_1", ListQuery{Query: "mba"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "a2", views[0].ID)

	views, meta, err = svc.ListApplications(context.Background(), "user_1", ListQuery{Status: "rejected", Page: pagination.New(1, 1)})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), meta.Total)
	assert.False(t, meta.HasNext)
}

func TestValidateStage(t *testing.T) {
	svc := newLoanService(t, newFakeApps())

	res := svc.ValidateStage(StageRequest{Stage: workflow.StageLoanDetails, Action: "next"})
	assert.Equal(t, workflow.StageLoanDetails, res.Stage)
	assert.Contains(t, res.Errors, "userDetails.applicantFirstName")

	res = svc.ValidateStage(StageRequest{Stage: workflow.StageDocuments, Action: "back"})
	assert.Equal(t, workflow.StageFamilyDetails, res.Stage)
	assert.Empty(t, res.Errors)

	res = svc.ValidateStage(StageRequest{Stage: workflow.StageLoanDetails, Action: "jump"})
	assert.Contains(t, res.Errors, "action")

	res = svc.ValidateStage(StageRequest{Stage: workflow.Stage(7), Action: "next"})
	assert.Contains(t, res.Errors, "stage")
}

func newReviewFixture(t *testing.T) (*ReviewService, *fakeApps) {
	apps := newFakeApps(
		&models.LoanApplication{ID: "a1", ProfileID: "p1", Purpose: "MSc", AmountRequested: 1000, Status: "pending", CreatedAt: fixedNow},
		&models.LoanApplication{ID: "a2", ProfileID: "p2", Purpose: "BSc", AmountRequested: 2000, Status: "accepted", CreatedAt: fixedNow},
	)
	families := &fakeFamilies{rows: map[string]*models.Family{"p1": {ProfileID: "p1", FatherFirstName: "Ravi"}}}
	docs := newFakeDocs()
	_ = docs.Create(context.Background(), &models.Document{ProfileID: "p1", DocumentType: "AADHAR_CARD"})

	return NewReviewService(apps, families, docs, metrics.New("test"), logger.NewTestLogger(t)), apps
}

func TestReviewGet(t *testing.T) {
	svc, _ := newReviewFixture(t)

	detail, err := svc.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", detail.Family.FatherFirstName)
	assert.Len(t, detail.Documents, 1)

	detail, err = svc.Get(context.Background(), "a2")
	require.NoError(t, err)
	assert.Nil(t, detail.Family)

	_, err = svc.Get(context.Background(), "missing")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestReviewUpdateStatus(t *testing.T) {
	svc, apps := newReviewFixture(t)

	app, err := svc.UpdateStatus(context.Background(), "a1", "accepted")
	require.NoError(t, err)
	assert.Equal(t, "accepted", app.Status)

	_, err = svc.UpdateStatus(context.Background(), "a2", "rejected")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = svc.UpdateStatus(context.Background(), "a1", "approved")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	apps.apps = append(apps.apps, &models.LoanApplication{ID: "a3", ProfileID: "p3", Status: "pending"})
	apps.casLost = true
	_, err = svc.UpdateStatus(context.Background(), "a3", "rejected")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestReviewListAndExport(t *testing.T) {
	svc, _ := newReviewFixture(t)

	apps, meta, err := svc.List(context.Background(), repositories.ApplicationFilter{Status: "pending"}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, int64(1), meta.Total)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), repositories.ApplicationFilter{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Applications")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestCronPurgeExpiredTokens(t *testing.T) {
	tokens := newFakeTokens()
	_ = tokens.Create(context.Background(), &models.RefreshToken{ProfileID: "p1", ExpiresAt: time.Now().Add(-time.Hour)})
	_ = tokens.Create(context.Background(), &models.RefreshToken{ProfileID: "p1", ExpiresAt: time.Now().Add(time.Hour)})

	svc := NewCronService(tokens, logger.NewTestLogger(t), "")
	svc.PurgeExpiredTokens(context.Background())

	assert.Equal(t, int64(1), tokens.purged)
	assert.Len(t, tokens.rows, 1)

	require.NoError(t, svc.Start())
	svc.Stop()
}

func TestCronRejectsBadSchedule(t *testing.T) {
	svc := NewCronService(newFakeTokens(), logger.NewNoOpLogger(), "not a schedule")
	assert.Error(t, svc.Start())
}

func newAuthService(t *testing.T) (*AuthService, *fakeTokens) {
	tokens := newFakeTokens()
	cfg := &config.Config{JWT: config.JWTConfig{
		Secret:           "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessTokenMins:  15,
		RefreshTokenDays: 7,
	}}
	return NewAuthService(newFakeProfiles(), tokens, cfg, logger.NewTestLogger(t)), tokens
}

func TestAuthRegisterLoginRefresh(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: " Asha@Example.com ", Password: "password123", FirstName: "Asha", LastName: "Rao"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", reg.Profile.Email)
	assert.Equal(t, "APPLICANT", reg.Profile.Role)
	assert.True(t, strings.HasPrefix(reg.Profile.UserID, "user_"))

	claims, err := svc.ValidateAccessToken(reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.Profile.UserID, claims.UserID)
	assert.Equal(t, reg.Profile.ID, claims.ProfileID)

	_, err = svc.Register(ctx, &RegisterInput{Email: "asha@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)

	_, err = svc.Login(ctx, &LoginInput{Email: "asha@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	login, err := svc.Login(ctx, &LoginInput{Email: "ASHA@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, refreshed.RefreshToken))
	_, err = svc.RefreshToken(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Len(t, tokens.rows, 3)
}

func TestAuthRejectsWeakPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Register(context.Background(), &RegisterInput{Email: "a@b.co", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestDashboardSummary(t *testing.T) {
	apps := newFakeApps(
		&models.LoanApplication{ID: "a1", Status: "rejected", AmountRequested: 20000, CreatedAt: fixedNow.AddDate(0, -2, 0)},
		&models.LoanApplication{ID: "a2", Status: "accepted", AmountRequested: 1250000, CreatedAt: fixedNow.AddDate(0, -1, 0)},
		&models.LoanApplication{ID: "a3", Status: "pending", AmountRequested: 50000, CreatedAt: fixedNow.AddDate(0, 0, -3)},
	)
	svc := NewDashboardService(apps, logger.NewTestLogger(t))
	svc.now = func() time.Time { return fixedNow }

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.TotalApplications)
	assert.Equal(t, int64(1320000), sum.TotalAmount)
	assert.Equal(t, "1,250,000", sum.ByStatus["accepted"].AmountDisplay)
	assert.Equal(t, int64(1), sum.ByStatus["pending"].Count)
	assert.Equal(t, int64(1), sum.ApplicationsThisMonth)
	assert.Equal(t, int64(50000), sum.AmountThisMonth)
	assert.Len(t, sum.RecentApplications, 3)
}

func TestDashboardSummaryEmpty(t *testing.T) {
	svc := NewDashboardService(newFakeApps(), logger.NewTestLogger(t))

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Len(t, sum.ByStatus, 3)
	assert.Equal(t, "0", sum.ByStatus["pending"].AmountDisplay)
}

func TestDashboardSummaryStoreFailure(t *testing.T) {
	apps := newFakeApps()
	apps.listErr = errors.New("db down")
	svc := NewDashboardService(apps, logger.NewTestLogger(t))

	_, err := svc.Summary(context.Background())
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, OpDashboard, domain.OpOf(err))
}

func TestProfileUpdateAndChangePassword(t *testing.T) {
	ctx := context.Background()
	auth, tokens := newAuthService(t)
	reg, err := auth.Register(ctx, &RegisterInput{Email: "asha@example.com", Password: "password123", FirstName: "Asha", LastName: "Rao"})
	require.NoError(t, err)

	profiles := auth.profileRepo
	svc := NewProfileService(profiles, tokens, logger.NewTestLogger(t))

	name := "  Asha K "
	updated, err := svc.UpdateProfile(ctx, reg.Profile.ID, UpdateProfileInput{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.FirstName)
	assert.Equal(t, "Rao", updated.LastName)

	blank := "   "
	_, err = svc.UpdateProfile(ctx, reg.Profile.ID, UpdateProfileInput{LastName: &blank})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	err = svc.ChangePassword(ctx, reg.Profile.ID, ChangePasswordInput{OldPassword: "nope", NewPassword: "newpassword1"})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	err = svc.ChangePassword(ctx, reg.Profile.ID, ChangePasswordInput{OldPassword: "password123", NewPassword: "short"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, reg.Profile.ID, ChangePasswordInput{OldPassword: "password123", NewPassword: "newpassword1"}))

	_, err = auth.RefreshToken(ctx, reg.RefreshToken)
	assert.Error(t, err)

	_, err = auth.Login(ctx, &LoginInput{Email: "asha@example.com", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestProfileSetRole(t *testing.T) {
	ctx := context.Background()
	admin := &models.Profile{ID: "admin", UserID: "user_admin", Role: string(domain.RoleAdmin)}
	profiles := newFakeProfiles(applicant(), admin)
	svc := NewProfileService(profiles, newFakeTokens(), logger.NewTestLogger(t))

	res, err := svc.SetRole(ctx, "admin", "p1", "reviewer")
	require.NoError(t, err)
	assert.Equal(t, "REVIEWER", res.Role)

	_, err = svc.SetRole(ctx, "admin", "p1", "SUPERUSER")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.SetRole(ctx, "admin", "admin", "APPLICANT")
	assert.ErrorIs(t, err, ErrCannotChangeOwnRole)

	_, err = svc.SetRole(ctx, "admin", "missing", "REVIEWER")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
