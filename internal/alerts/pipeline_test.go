package alerts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/signals"
)

type fakeUserRepo struct {
	users    []*types.User
	gotLimit int
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) FindWithWatchlist(ctx context.Context, tx *gorm.DB, limit int) ([]*types.User, error) {
	f.gotLimit = limit
	if limit > 0 && len(f.users) > limit {
		return f.users[:limit], nil
	}
	return f.users, nil
}

type fakeWatchlistRepo struct {
	mu       sync.Mutex
	byUser   map[uuid.UUID][]types.WatchedEntity
	failFor  map[uuid.UUID]error
}

func newFakeWatchlistRepo() *fakeWatchlistRepo {
	return &fakeWatchlistRepo{
		byUser:  make(map[uuid.UUID][]types.WatchedEntity),
		failFor: make(map[uuid.UUID]error),
	}
}

func (f *fakeWatchlistRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.WatchlistItem, error) {
	return nil, nil
}

func (f *fakeWatchlistRepo) ListEntitiesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.WatchedEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[userID]; err != nil {
		return nil, err
	}
	return f.byUser[userID], nil
}

func (f *fakeWatchlistRepo) EnsureEntity(ctx context.Context, tx *gorm.DB, entity *types.WatchedEntity) (*types.WatchedEntity, error) {
	return entity, nil
}

func (f *fakeWatchlistRepo) Add(ctx context.Context, tx *gorm.DB, userID, entityID uuid.UUID) (*types.WatchlistItem, error) {
	return nil, nil
}

func (f *fakeWatchlistRepo) Remove(ctx context.Context, tx *gorm.DB, userID, entityID uuid.UUID) error {
	return nil
}

type fakePrefRepo struct {
	byUser map[uuid.UUID]*types.AlertPreference
}

func (f *fakePrefRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AlertPreference, error) {
	return f.byUser[userID], nil
}

func (f *fakePrefRepo) Upsert(ctx context.Context, tx *gorm.DB, pref *types.AlertPreference) (*types.AlertPreference, error) {
	f.byUser[pref.UserID] = pref
	return pref, nil
}

type fakeHistoryRepo struct {
	byUser map[uuid.UUID][]types.ReadHistoryEntry
}

func (f *fakeHistoryRepo) Record(ctx context.Context, tx *gorm.DB, entries []*types.ReadHistoryEntry) error {
	return nil
}

func (f *fakeHistoryRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.ReadHistoryEntry, error) {
	return f.byUser[userID], nil
}

type pipelineHarness struct {
	users   *fakeUserRepo
	watches *fakeWatchlistRepo
	prefs   *fakePrefRepo
	history *fakeHistoryRepo
	ledger  *fakeLedger
	inApp   *fakeInAppRepo
	mail    *fakeMailer
	svc     PipelineService
}

func newPipelineHarness(t *testing.T, sigs []signals.Signal) *pipelineHarness {
	t.Helper()
	h := &pipelineHarness{
		users:   &fakeUserRepo{},
		watches: newFakeWatchlistRepo(),
		prefs:   &fakePrefRepo{byUser: make(map[uuid.UUID]*types.AlertPreference)},
		history: &fakeHistoryRepo{byUser: make(map[uuid.UUID][]types.ReadHistoryEntry)},
		ledger:  newFakeLedger(),
		inApp:   newFakeInAppRepo(),
		mail:    &fakeMailer{},
	}
	d := NewDispatcher(testLogger(t), h.ledger, h.inApp, h.mail)
	d.retryStep = time.Millisecond
	h.svc = NewPipelineService(
		nil, testLogger(t),
		h.users, h.watches, h.prefs, h.history,
		signals.NewStaticSource(sigs), d,
		2, time.Hour,
	)
	return h
}

func (h *pipelineHarness) addUser(email string, entities ...types.WatchedEntity) *types.User {
	u := &types.User{ID: uuid.New(), Email: email, FirstName: "Test"}
	h.users.users = append(h.users.users, u)
	h.watches.byUser[u.ID] = entities
	return u
}

func companyWatch(name, slug string) types.WatchedEntity {
	return types.WatchedEntity{
		ID:         uuid.New(),
		EntityType: types.EntityTypeCompany,
		Name:       name,
		Slug:       slug,
	}
}

func modelWatch(name, slug string) types.WatchedEntity {
	return types.WatchedEntity{
		ID:         uuid.New(),
		EntityType: types.EntityTypeModel,
		Name:       name,
		Slug:       slug,
	}
}

func freshSignals() []signals.Signal {
	now := time.Now()
	return []signals.Signal{
		{
			ID:          "s1",
			Title:       "Nvidia raises infrastructure round",
			URL:         "https://example.com/s1",
			EventType:   signals.EventTypeFunding,
			EntityName:  "Nvidia",
			PublishedAt: now.Add(-1 * time.Hour),
		},
		{
			ID:          "s2",
			Title:       "Frontier model weights published",
			URL:         "https://example.com/s2",
			EventType:   signals.EventTypeModelRelease,
			EntityName:  "Frontier 1",
			PublishedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:          "s3",
			Title:       "Some unrelated launch",
			URL:         "https://example.com/s3",
			EventType:   signals.EventTypeNews,
			EntityName:  "Acme",
			PublishedAt: now.Add(-3 * time.Hour),
		},
	}
}

func TestPipelineRun_CategoryPreferencesSelectChannelsPerSignal(t *testing.T) {
	h := newPipelineHarness(t, freshSignals())
	u := h.addUser("ada@example.com", companyWatch("Nvidia", "nvidia"), modelWatch("Frontier 1", "frontier-1"))
	h.prefs.byUser[u.ID] = &types.AlertPreference{
		UserID:             u.ID,
		EmailDailyBrief:    true,
		EmailInstantAlerts: true,
		InAppAlerts:        true,
		FundingAlerts:      true,
		ModelReleaseAlerts: false,
		CompanyNewsAlerts:  true,
	}

	report, err := h.svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.ProcessedUsers != 1 || report.FailedUsers != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	// Only the funding signal survives: the model release matches the
	// watchlist but its category is off, the unrelated launch never matches.
	if report.InAppAlertsCreated != 1 {
		t.Fatalf("expected 1 in-app alert, got %+v", report)
	}
	if len(h.inApp.alerts) != 1 {
		t.Fatalf("expected 1 stored in-app alert, got %d", len(h.inApp.alerts))
	}
	for _, a := range h.inApp.alerts {
		if a.SignalID != "s1" {
			t.Fatalf("expected the funding signal, got %s", a.SignalID)
		}
	}
	if report.EmailInstantSent != 1 || report.EmailDailySent != 1 {
		t.Fatalf("expected instant and daily emails: %+v", report)
	}
}

func TestPipelineRun_SecondRunDeliversNothingNew(t *testing.T) {
	h := newPipelineHarness(t, freshSignals())
	h.addUser("ada@example.com", companyWatch("Nvidia", "nvidia"))

	first, err := h.svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.InAppAlertsCreated == 0 {
		t.Fatalf("expected deliveries on the first run: %+v", first)
	}

	second, err := h.svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.ProcessedUsers != 1 {
		t.Fatalf("user is still processed on the second run: %+v", second)
	}
	if second.InAppAlertsCreated != 0 || second.EmailInstantSent != 0 || second.EmailDailySent != 0 {
		t.Fatalf("second run must deliver nothing new: %+v", second)
	}
}

func TestPipelineRun_UserFailureDoesNotAbortBatch(t *testing.T) {
	h := newPipelineHarness(t, freshSignals())
	broken := h.addUser("broken@example.com", companyWatch("Nvidia", "nvidia"))
	h.addUser("ok@example.com", companyWatch("Nvidia", "nvidia"))
	h.watches.failFor[broken.ID] = errors.New("connection reset")

	report, err := h.svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run must not fail on a per-user error: %v", err)
	}
	if report.FailedUsers != 1 {
		t.Fatalf("expected 1 failed user, got %+v", report)
	}
	if report.ProcessedUsers != 1 || report.InAppAlertsCreated == 0 {
		t.Fatalf("healthy user must still be delivered: %+v", report)
	}
}

func TestPipelineRun_ClampsUserBatch(t *testing.T) {
	h := newPipelineHarness(t, freshSignals())

	if _, err := h.svc.Run(context.Background(), RunOptions{MaxUsers: 5000}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.users.gotLimit != MaxUsersPerRun {
		t.Fatalf("expected batch clamp to %d, got %d", MaxUsersPerRun, h.users.gotLimit)
	}

	if _, err := h.svc.Run(context.Background(), RunOptions{MaxUsers: 7}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.users.gotLimit != 7 {
		t.Fatalf("expected explicit batch size to pass through, got %d", h.users.gotLimit)
	}
}

func TestPipelineRun_NoUsersIsANoop(t *testing.T) {
	h := newPipelineHarness(t, freshSignals())
	report, err := h.svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report != (RunReport{}) {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestPipelineRun_NoWatchlistMatchesMeansNoAlerts(t *testing.T) {
	h := newPipelineHarness(t, freshSignals())
	h.addUser("ada@example.com", companyWatch("Tiny Startup", "tiny-startup"))

	report, err := h.svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.ProcessedUsers != 1 {
		t.Fatalf("user should be processed: %+v", report)
	}
	if report.InAppAlertsCreated != 0 || h.mail.sentCount() != 0 {
		t.Fatalf("nothing should be delivered without a watchlist match: %+v", report)
	}
}
