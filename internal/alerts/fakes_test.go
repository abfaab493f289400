package alerts

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	repoalerts "github.com/kitefall/pulse-backend/internal/data/repos/alerts"
	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

func testLogger(t interface {
	Helper()
	Fatalf(format string, args ...any)
}) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// fakeLedger is an in-memory DeliveryLogRepo with the same skip-duplicate
// semantics as the postgres implementation.
type fakeLedger struct {
	mu   sync.Mutex
	rows map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]bool)}
}

func ledgerID(userID uuid.UUID, signalID, channel string) string {
	return userID.String() + "|" + signalID + "|" + channel
}

func (f *fakeLedger) ExistingKeys(ctx context.Context, tx *gorm.DB, userID uuid.UUID, signalIDs []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool)
	for _, sid := range signalIDs {
		for _, ch := range []string{types.ChannelInApp, types.ChannelEmailInstant, types.ChannelEmailDaily} {
			if f.rows[ledgerID(userID, sid, ch)] {
				out[repoalerts.LedgerKey{SignalID: sid, Channel: ch}.String()] = true
			}
		}
	}
	return out, nil
}

func (f *fakeLedger) RecordAll(ctx context.Context, tx *gorm.DB, rows []*types.AlertDeliveryLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		f.rows[ledgerID(r.UserID, r.SignalID, r.Channel)] = true
	}
	return nil
}

func (f *fakeLedger) count(userID uuid.UUID, channel string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.rows {
		u, _, c := splitLedgerID(k)
		if u == userID.String() && c == channel {
			n++
		}
	}
	return n
}

func splitLedgerID(k string) (user, signal, channel string) {
	first := -1
	last := -1
	for i := 0; i < len(k); i++ {
		if k[i] == '|' {
			if first == -1 {
				first = i
			} else {
				last = i
			}
		}
	}
	return k[:first], k[first+1 : last], k[last+1:]
}

// fakeInAppRepo is an in-memory InAppAlertRepo with (user, signal) dedup.
type fakeInAppRepo struct {
	mu     sync.Mutex
	alerts map[string]*types.InAppAlert
}

func newFakeInAppRepo() *fakeInAppRepo {
	return &fakeInAppRepo{alerts: make(map[string]*types.InAppAlert)}
}

func (f *fakeInAppRepo) CreateBatch(ctx context.Context, tx *gorm.DB, alerts []*types.InAppAlert) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var created int64
	for _, a := range alerts {
		key := a.UserID.String() + "|" + a.SignalID
		if _, ok := f.alerts[key]; ok {
			continue
		}
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		f.alerts[key] = a
		created++
	}
	return created, nil
}

func (f *fakeInAppRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int, unreadOnly bool) ([]*types.InAppAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.InAppAlert
	for _, a := range f.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeInAppRepo) MarkRead(ctx context.Context, tx *gorm.DB, userID, alertID uuid.UUID) error {
	return nil
}

func (f *fakeInAppRepo) CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	list, _ := f.ListByUser(ctx, tx, userID, 0, true)
	return int64(len(list)), nil
}

// fakeMailer scripts send outcomes: failUntil failures before the first
// success, or permanent failure when alwaysFail is set.
type fakeMailer struct {
	mu         sync.Mutex
	calls      int
	failUntil  int
	alwaysFail bool
	sent       []sentMail
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

var errMailDown = errors.New("smtp unreachable")

func (f *fakeMailer) Send(ctx context.Context, to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.alwaysFail || f.calls <= f.failUntil {
		return errMailDown
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMailer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
