package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/adapters/storage"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/core/workflow"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/metrics"
	"iledu-loan/internal/pkg/resilience"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// SubmissionMessage is returned on every successful submission.
const SubmissionMessage = "Data and documents uploaded successfully."

// Upload policies
const (
	PolicyBestEffort   = "best_effort"
	PolicyAllOrNothing = "all_or_nothing"
)

const compensateTimeout = 15 * time.Second

var errOpenUpload = errors.New("cannot open uploaded file")

// FileUpload is one file taken from the request. Open may be called more
// than once when an upload is retried.
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// SubmissionInput carries the raw parts of an uploadDetails request.
type SubmissionInput struct {
	UserID        string
	UserDetails   string
	FamilyDetails string
	// Files is keyed by slot name, e.g. "aadharCard".
	Files map[string]*FileUpload
}

// SubmissionResult is the success payload.
type SubmissionResult struct {
	Message           string                `json:"message"`
	Files             []domain.UploadedFile `json:"files"`
	LoanApplicationID string                `json:"loanApplicationId"`
}

// SubmissionConfig tunes the pipeline.
type SubmissionConfig struct {
	Policy         string
	Concurrency    int
	UploadTimeout  time.Duration
	// PersistTimeout bounds each database call of a submission.
	PersistTimeout time.Duration
	// MaxFileSize bounds each document in bytes; zero means no limit.
	MaxFileSize int64
}

// SubmissionService turns a complete draft into stored documents, a family
// record and one pending application.
type SubmissionService struct {
	resolver  *ProfileResolver
	apps      repositories.LoanApplicationRepository
	docs      repositories.DocumentRepository
	store     storage.ObjectStore
	executor  *resilience.Executor
	validator *workflow.Validator
	metrics   *metrics.Metrics
	log       logger.Logger
	cfg       SubmissionConfig
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	resolver *ProfileResolver,
	apps repositories.LoanApplicationRepository,
	docs repositories.DocumentRepository,
	store storage.ObjectStore,
	executor *resilience.Executor,
	validator *workflow.Validator,
	m *metrics.Metrics,
	log logger.Logger,
	cfg SubmissionConfig,
) *SubmissionService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyBestEffort
	}
	return &SubmissionService{
		resolver:  resolver,
		apps:      apps,
		docs:      docs,
		store:     store,
		executor:  executor,
		validator: validator,
		metrics:   m,
		log:       log,
		cfg:       cfg,
	}
}

// slotOutcome is what happened to one document slot.
type slotOutcome struct {
	slot  domain.DocumentSlot
	key   string
	url   string
	docID string
	err   error
}

func (o slotOutcome) stored() bool {
	return o.err == nil && o.key != ""
}

// Submit runs the whole intake. Document failures are skipped under the
// best effort policy; the family upsert and application insert commit
// together or not at all.
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput) (*SubmissionResult, error) {
	profile, err := s.resolver.Resolve(ctx, OpUploadDetails, in.UserID)
	if err != nil {
		s.recordOutcome("unauthorized")
		return nil, err
	}

	draft, err := s.decode(in)
	if err != nil {
		s.recordOutcome("invalid")
		return nil, err
	}

	if err := s.checkEligible(ctx, profile.ID); err != nil {
		s.recordOutcome("conflict")
		return nil, err
	}

	outcomes := s.uploadAll(ctx, profile, in.Files)

	var failed []string
	for _, o := range outcomes {
		if o.err != nil {
			failed = append(failed, o.slot.Name)
		}
	}
	if len(failed) > 0 && s.cfg.Policy == PolicyAllOrNothing {
		s.compensate(ctx, outcomes)
		s.recordOutcome("upload_failed")
		return nil, domain.UploadError(OpUploadDetails, strings.Join(failed, ", "), domain.ErrUploadIncomplete)
	}

	app, err := s.persist(ctx, profile, draft)
	if err != nil {
		s.compensate(ctx, outcomes)
		s.recordOutcome("persist_failed")
		return nil, err
	}

	files := make([]domain.UploadedFile, 0, len(outcomes))
	for _, o := range outcomes {
		if o.stored() {
			files = append(files, domain.UploadedFile{Key: o.slot.Name, URL: o.url})
		}
	}

	outcome := "success"
	if len(failed) > 0 {
		outcome = "partial"
	}
	s.recordOutcome(outcome)

	s.log.Info("application submitted", map[string]interface{}{
		"op":             OpUploadDetails,
		"profile_id":     profile.ID,
		"application_id": app.ID,
		"stored":         len(files),
		"failed_slots":   failed,
	})

	return &SubmissionResult{
		Message:           SubmissionMessage,
		Files:             files,
		LoanApplicationID: app.ID,
	}, nil
}

// decode shape-checks both JSON parts and validates the assembled draft.
func (s *SubmissionService) decode(in SubmissionInput) (workflow.Draft, error) {
	var errs domain.FieldErrors

	loan, lerrs := workflow.DecodeLoanDetails(in.UserDetails)
	family, ferrs := workflow.DecodeFamilyDetails(in.FamilyDetails)
	errs = append(errs, lerrs...)
	errs = append(errs, ferrs...)

	var docs workflow.Documents
	for _, slot := range domain.DocumentSlots {
		f, ok := in.Files[slot.Name]
		if !ok || f == nil {
			continue
		}
		docs = docs.With(slot.Name, &workflow.FileRef{Name: f.Filename, Size: f.Size, ContentType: f.ContentType})
		if s.cfg.MaxFileSize > 0 && f.Size > s.cfg.MaxFileSize {
			errs = errs.Add("documents."+slot.Name, "File must be "+humanize.IBytes(uint64(s.cfg.MaxFileSize))+" or smaller")
		}
	}

	draft := workflow.Draft{UserDetails: loan, FamilyDetails: family, Documents: docs}

	// A section that failed to decode is reported once, not field by field.
	if len(lerrs) == 0 {
		errs = append(errs, s.validator.ValidateLoanDetails(loan)...)
	}
	if len(ferrs) == 0 {
		errs = append(errs, s.validator.ValidateFamilyDetails(family)...)
	}
	errs = append(errs, s.validator.ValidateDocuments(docs)...)

	if len(errs) > 0 {
		return draft, domain.ValidationError(OpUploadDetails, errs)
	}
	return draft, nil
}

func (s *SubmissionService) checkEligible(ctx context.Context, profileID string) error {
	ctx, cancel := withTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()

	rows, err := s.apps.ListByProfileID(ctx, profileID)
	if err != nil {
		s.log.Error("failed to load applications", map[string]interface{}{
			"op":         OpUploadDetails,
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return domain.InternalError(OpUploadDetails, err)
	}

	apps := make([]domain.LoanApplication, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, r.ToDomain())
	}
	if !domain.CanApply(apps) {
		return domain.ConflictError(OpUploadDetails, domain.ErrActiveApplicationExists)
	}
	return nil
}

// uploadAll stores every present slot concurrently. Outcomes come back in
// slot order; a failing slot never affects another.
func (s *SubmissionService) uploadAll(ctx context.Context, profile *domain.Profile, files map[string]*FileUpload) []slotOutcome {
	outcomes := make([]slotOutcome, len(domain.DocumentSlots))
	present := make([]bool, len(domain.DocumentSlots))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	for i, slot := range domain.DocumentSlots {
		f, ok := files[slot.Name]
		if !ok || f == nil || f.Size <= 0 {
			continue
		}
		present[i] = true

		g.Go(func() error {
			outcomes[i] = s.uploadOne(ctx, profile, slot, f)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]slotOutcome, 0, len(outcomes))
	for i, o := range outcomes {
		if present[i] {
			out = append(out, o)
		}
	}
	return out
}

func (s *SubmissionService) uploadOne(ctx context.Context, profile *domain.Profile, slot domain.DocumentSlot, f *FileUpload) slotOutcome {
	start := time.Now()
	key := storage.ObjectKey(profile.UserID, slot.Type.PathSegment(), f.Filename)
	o := slotOutcome{slot: slot}

	var location string
	err := s.executor.Execute(ctx, "storage.put", s.cfg.UploadTimeout, func(ctx context.Context) error {
		body, err := f.Open()
		if err != nil {
			return fmt.Errorf("%w: %v", errOpenUpload, err)
		}
		defer body.Close()

		location, err = s.store.Put(ctx, key, body, f.Size, f.ContentType)
		return err
	}, uploadClassifier)
	if err != nil {
		o.err = domain.UploadError(OpUploadDocument, slot.Name, err)
		s.slotFailed(o, start)
		return o
	}

	doc := &models.Document{
		ProfileID:    profile.ID,
		DocumentType: string(slot.Type),
		DocumentURL:  location,
		StorageKey:   key,
		Status:       domain.DocumentStatusUploaded,
	}
	if err := s.createDocument(ctx, doc); err != nil {
		s.releaseObject(ctx, key)
		o.err = domain.PersistenceError(OpUploadDocument, fmt.Errorf("document record for %s: %w", slot.Name, err))
		s.slotFailed(o, start)
		return o
	}

	o.key = key
	o.url = location
	o.docID = doc.ID
	if s.metrics != nil {
		s.metrics.RecordDocumentUpload(string(slot.Type), "uploaded", time.Since(start))
	}
	return o
}

func (s *SubmissionService) createDocument(ctx context.Context, doc *models.Document) error {
	ctx, cancel := withTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()
	return s.docs.Create(ctx, doc)
}

func (s *SubmissionService) slotFailed(o slotOutcome, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordDocumentUpload(string(o.slot.Type), "failed", time.Since(start))
	}
	fields := map[string]interface{}{
		"op":            OpUploadDocument,
		"slot":          o.slot.Name,
		"document_type": string(o.slot.Type),
		"error":         o.err.Error(),
	}
	var de *domain.Error
	if errors.As(o.err, &de) && de.Timeout() {
		fields["timeout"] = true
	}
	s.log.Warn("document skipped", fields)
}

// persist writes the family record and the pending application in one
// transaction, bounded by the persist timeout.
func (s *SubmissionService) persist(ctx context.Context, profile *domain.Profile, draft workflow.Draft) (*models.LoanApplication, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()

	family := models.FamilyFromDomain(draft.FamilyDetails.Record(profile.ID))
	app := &models.LoanApplication{
		ProfileID:       profile.ID,
		AmountRequested: draft.UserDetails.AmountRequested.Int(),
		Purpose:         strings.TrimSpace(draft.UserDetails.Purpose),
		Status:          string(domain.StatusPending),
	}

	if err := s.apps.CreateWithFamily(ctx, app, family); err != nil {
		s.log.Error("failed to persist application", map[string]interface{}{
			"op":         OpCreateApplication,
			"profile_id": profile.ID,
			"error":      err.Error(),
		})
		return nil, domain.PersistenceError(OpCreateApplication, err)
	}
	return app, nil
}

// compensate removes what this submission stored. It runs detached from the
// request so a cancelled client does not leave orphans behind. Records go
// first so that objects still referenced by an earlier application survive.
func (s *SubmissionService) compensate(ctx context.Context, outcomes []slotOutcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	var ids []string
	for _, o := range outcomes {
		if o.stored() {
			ids = append(ids, o.docID)
		}
	}
	if err := s.docs.DeleteByIDs(ctx, ids); err != nil {
		s.log.Error("failed to remove document records", map[string]interface{}{
			"op":    OpUploadDetails,
			"ids":   ids,
			"error": err.Error(),
		})
	}

	for _, o := range outcomes {
		if o.stored() {
			s.releaseObject(ctx, o.key)
		}
	}
}

// releaseObject deletes key unless a Document Record still points at it.
// When the reference check fails the object is kept.
func (s *SubmissionService) releaseObject(ctx context.Context, key string) {
	n, err := s.docs.CountByStorageKey(ctx, key)
	if err != nil {
		s.log.Error("failed to check object references", map[string]interface{}{
			"op":    OpUploadDocument,
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	if n > 0 {
		s.log.Info("stored object kept, still referenced", map[string]interface{}{
			"op":         OpUploadDocument,
			"key":        key,
			"references": n,
		})
		return
	}
	s.deleteObject(ctx, key)
}

func (s *SubmissionService) deleteObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Error("failed to delete stored object", map[string]interface{}{
			"op":    OpUploadDocument,
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *SubmissionService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordSubmission(outcome)
	}
}

// uploadClassifier retries storage failures. A request file that cannot be
// opened is the caller's problem and does not count against the breaker.
func uploadClassifier(err error) resilience.ErrorClassification {
	if errors.Is(err, errOpenUpload) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.TransientClassifier(err)
}
