package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/adapters/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeProfiles struct {
	mu   sync.Mutex
	byID map[string]*models.Profile
	err  error
	// hang makes lookups wait for the caller's deadline.
	hang bool
}

func newFakeProfiles(profiles ...*models.Profile) *fakeProfiles {
	f := &fakeProfiles{byID: make(map[string]*models.Profile)}
	for _, p := range profiles {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) Create(ctx context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UserID == "" {
		p.UserID = "user_" + uuid.NewString()
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfiles) find(match func(*models.Profile) bool) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.byID {
		if match(p) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return f.find(func(p *models.Profile) bool { return p.ID == id })
}

func (f *fakeProfiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.find(func(p *models.Profile) bool { return p.UserID == userID })
}

func (f *fakeProfiles) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return f.find(func(p *models.Profile) bool { return p.Email == email })
}

func (f *fakeProfiles) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeProfiles) CountByRole(ctx context.Context, role string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.byID {
		if p.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeProfiles) Update(ctx context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byID[p.ID] = p
	return nil
}

type fakeApps struct {
	mu        sync.Mutex
	apps      []*models.LoanApplication
	families  map[string]*models.Family
	listErr   error
	createErr error
	hang      bool
	// casLost makes UpdateStatus report that another reviewer won.
	casLost bool
}

func newFakeApps(apps ...*models.LoanApplication) *fakeApps {
	return &fakeApps{apps: apps, families: make(map[string]*models.Family)}
}

func (f *fakeApps) ListByProfileID(ctx context.Context, profileID string) ([]*models.LoanApplication, error) {
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.LoanApplication
	for _, a := range f.apps {
		if a.ProfileID == profileID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeApps) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApps) List(ctx context.Context, filter repositories.ApplicationFilter, offset, limit int) ([]*models.LoanApplication, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var matched []*models.LoanApplication
	for _, a := range f.apps {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Query != "" && !strings.Contains(a.Purpose, filter.Query) {
			continue
		}
		matched = append(matched, a)
	}
	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeApps) CreateWithFamily(ctx context.Context, app *models.LoanApplication, family *models.Family) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	app.CreatedAt = time.Now()
	f.apps = append(f.apps, app)
	f.families[family.ProfileID] = family
	return nil
}

func (f *fakeApps) UpdateStatus(ctx context.Context, id, from, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.casLost {
		return false, nil
	}
	for _, a := range f.apps {
		if a.ID == id && a.Status == from {
			a.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApps) TotalsByStatus(ctx context.Context, since time.Time) ([]repositories.StatusTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	byStatus := map[string]*repositories.StatusTotal{}
	var order []string
	for _, a := range f.apps {
		if a.CreatedAt.Before(since) {
			continue
		}
		t, ok := byStatus[a.Status]
		if !ok {
			t = &repositories.StatusTotal{Status: a.Status}
			byStatus[a.Status] = t
			order = append(order, a.Status)
		}
		t.Count++
		t.Amount += a.AmountRequested
	}
	out := make([]repositories.StatusTotal, 0, len(order))
	for _, s := range order {
		out = append(out, *byStatus[s])
	}
	return out, nil
}

type fakeFamilies struct {
	rows map[string]*models.Family
}

func (f *fakeFamilies) Upsert(ctx context.Context, family *models.Family) error {
	f.rows[family.ProfileID] = family
	return nil
}

func (f *fakeFamilies) GetByProfileID(ctx context.Context, profileID string) (*models.Family, error) {
	if row, ok := f.rows[profileID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeDocs struct {
	mu   sync.Mutex
	rows map[string]*models.Document
	// failTypes makes Create fail for these document types.
	failTypes map[string]bool
	hang      bool
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{rows: make(map[string]*models.Document), failTypes: make(map[string]bool)}
}

func (f *fakeDocs) Create(ctx context.Context, doc *models.Document) error {
	if f.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTypes[doc.DocumentType] {
		return errors.New("insert failed")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	f.rows[doc.ID] = doc
	return nil
}

func (f *fakeDocs) ListByProfileID(ctx context.Context, profileID string) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Document
	for _, d := range f.rows {
		if d.ProfileID == profileID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocs) DeleteByIDs(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeDocs) CountByStorageKey(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, d := range f.rows {
		if d.StorageKey == key {
			n++
		}
	}
	return n, nil
}

func (f *fakeDocs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// flakyStore fails every Put whose key contains one of the given segments.
type flakyStore struct {
	*storage.MemoryStore
	mu   sync.Mutex
	fail map[string]bool
	puts map[string]int
}

func newFlakyStore(failSegments ...string) *flakyStore {
	s := &flakyStore{
		MemoryStore: storage.NewMemoryStore("docs"),
		fail:        make(map[string]bool),
		puts:        make(map[string]int),
	}
	for _, seg := range failSegments {
		s.fail[seg] = true
	}
	return s
}

func (s *flakyStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	s.puts[key]++
	failing := false
	for seg := range s.fail {
		if strings.Contains(key, "/"+seg+"/") {
			failing = true
		}
	}
	s.mu.Unlock()

	if failing {
		return "", errors.New("storage unavailable")
	}
	return s.MemoryStore.Put(ctx, key, body, size, contentType)
}

func (s *flakyStore) attempts(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[key]
}

type fakeTokens struct {
	mu     sync.Mutex
	rows   map[string]*models.RefreshToken
	purged int64
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{rows: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokens) Create(ctx context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	f.rows[t.ID] = t
	return nil
}

func (f *fakeTokens) GetByTokenHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.TokenHash == hash && t.RevokedAt == nil {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokens) revoke(match func(*models.RefreshToken) bool) {
	now := time.Now()
	for _, t := range f.rows {
		if match(t) {
			t.RevokedAt = &now
		}
	}
}

func (f *fakeTokens) Revoke(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoke(func(t *models.RefreshToken) bool { return t.ID == id })
	return nil
}

func (f *fakeTokens) RevokeByTokenHash(ctx context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoke(func(t *models.RefreshToken) bool { return t.TokenHash == hash })
	return nil
}

func (f *fakeTokens) RevokeAllByProfileID(ctx context.Context, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoke(func(t *models.RefreshToken) bool { return t.ProfileID == profileID })
	return nil
}

func (f *fakeTokens) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.rows {
		if t.IsExpired() {
			delete(f.rows, id)
			n++
		}
	}
	f.purged += n
	return n, nil
}
