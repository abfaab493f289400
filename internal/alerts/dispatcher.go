package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	repoalerts "github.com/kitefall/pulse-backend/internal/data/repos/alerts"
	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/observability"
	"github.com/kitefall/pulse-backend/internal/pkg/retry"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
	"github.com/kitefall/pulse-backend/internal/platform/mailer"
	"github.com/kitefall/pulse-backend/internal/signals"
)

const (
	emailMaxAttempts = 3
	emailRetryStep   = 400 * time.Millisecond
)

// DispatchResult is one user's delivery outcome.
type DispatchResult struct {
	InAppCreated     int
	EmailInstantSent int
	EmailDailySent   int
}

// Dispatcher fans eligible candidates out to the enabled channels. For every
// channel the order is fixed: ledger read happens before the send, the send
// happens before the ledger write. A crash between send and write yields a
// duplicate on the next run, never a lost alert.
type Dispatcher struct {
	log    *logger.Logger
	ledger repoalerts.DeliveryLogRepo
	inApp  repoalerts.InAppAlertRepo
	mail   mailer.Mailer

	retryStep time.Duration
	now       func() time.Time
}

func NewDispatcher(
	baseLog *logger.Logger,
	ledger repoalerts.DeliveryLogRepo,
	inApp repoalerts.InAppAlertRepo,
	mail mailer.Mailer,
) *Dispatcher {
	return &Dispatcher{
		log:       baseLog.With("service", "AlertDispatcher"),
		ledger:    ledger,
		inApp:     inApp,
		mail:      mail,
		retryStep: emailRetryStep,
		now:       time.Now,
	}
}

// DispatchForUser delivers the candidate list over every channel the resolved
// preferences enable. Email transport failures are absorbed (logged and
// counted, candidates left unledgered for the next run); repository failures
// are returned so the orchestrator can record the user as failed.
func (d *Dispatcher) DispatchForUser(
	ctx context.Context,
	user *types.User,
	prefs types.AlertPreference,
	candidates []signals.RankedSignal,
) (DispatchResult, error) {
	var res DispatchResult
	if len(candidates) == 0 {
		return res, nil
	}

	dailyKey := DailyKey(d.now())

	signalIDs := make([]string, 0, len(candidates)+1)
	for _, c := range candidates {
		signalIDs = append(signalIDs, c.ID)
	}
	signalIDs = append(signalIDs, dailyKey)

	sent, err := d.ledger.ExistingKeys(ctx, nil, user.ID, signalIDs)
	if err != nil {
		return res, fmt.Errorf("ledger existence check: %w", err)
	}

	if prefs.InAppAlerts {
		created, err := d.dispatchInApp(ctx, user, candidates, sent)
		if err != nil {
			return res, err
		}
		res.InAppCreated = created
	}

	if prefs.EmailInstantAlerts && user.Email != "" {
		sentOne, err := d.dispatchInstantEmail(ctx, user, candidates, sent)
		if err != nil {
			return res, err
		}
		if sentOne {
			res.EmailInstantSent = 1
		}
	}

	if prefs.EmailDailyBrief && user.Email != "" {
		sentOne, err := d.dispatchDailyEmail(ctx, user, candidates, sent, dailyKey)
		if err != nil {
			return res, err
		}
		if sentOne {
			res.EmailDailySent = 1
		}
	}

	return res, nil
}

func (d *Dispatcher) dispatchInApp(
	ctx context.Context,
	user *types.User,
	candidates []signals.RankedSignal,
	sent map[string]bool,
) (int, error) {
	fresh := unsent(candidates, sent, types.ChannelInApp)
	if len(fresh) == 0 {
		return 0, nil
	}

	rows := make([]*types.InAppAlert, 0, len(fresh))
	ledgerRows := make([]*types.AlertDeliveryLog, 0, len(fresh))
	for _, c := range fresh {
		rows = append(rows, &types.InAppAlert{
			UserID:    user.ID,
			SignalID:  c.ID,
			Title:     c.Title,
			Message:   c.PersonalizationScore.TopReason(),
			URL:       c.URL,
			EventType: c.EventType,
			Metadata:  scoreMetadata(c),
		})
		ledgerRows = append(ledgerRows, &types.AlertDeliveryLog{
			UserID:   user.ID,
			SignalID: c.ID,
			Channel:  types.ChannelInApp,
			Metadata: scoreMetadata(c),
		})
	}

	created, err := d.inApp.CreateBatch(ctx, nil, rows)
	if err != nil {
		return 0, fmt.Errorf("create in-app alerts: %w", err)
	}
	if err := d.ledger.RecordAll(ctx, nil, ledgerRows); err != nil {
		return 0, fmt.Errorf("record in-app ledger: %w", err)
	}

	observability.AlertsDelivered.WithLabelValues(types.ChannelInApp).Add(float64(created))
	return int(created), nil
}

func (d *Dispatcher) dispatchInstantEmail(
	ctx context.Context,
	user *types.User,
	candidates []signals.RankedSignal,
	sent map[string]bool,
) (bool, error) {
	fresh := unsent(candidates, sent, types.ChannelEmailInstant)
	if len(fresh) == 0 {
		return false, nil
	}

	subject := instantSubject(fresh)
	body := instantEmailHTML(user.FirstName, fresh)

	if err := d.sendWithRetry(ctx, user.Email, subject, body); err != nil {
		// Not delivered, nothing ledgered: the next run retries the batch.
		observability.EmailSendFailures.Inc()
		d.log.Warn("Instant email failed after retries",
			"user_id", user.ID.String(),
			"candidates", len(fresh),
			"error", err,
		)
		return false, nil
	}

	// One email covers the whole un-sent batch, including candidates beyond
	// the ones shown in the body.
	ledgerRows := make([]*types.AlertDeliveryLog, 0, len(fresh))
	for _, c := range fresh {
		ledgerRows = append(ledgerRows, &types.AlertDeliveryLog{
			UserID:   user.ID,
			SignalID: c.ID,
			Channel:  types.ChannelEmailInstant,
			Metadata: scoreMetadata(c),
		})
	}
	if err := d.ledger.RecordAll(ctx, nil, ledgerRows); err != nil {
		return false, fmt.Errorf("record instant email ledger: %w", err)
	}

	observability.AlertsDelivered.WithLabelValues(types.ChannelEmailInstant).Inc()
	return true, nil
}

func (d *Dispatcher) dispatchDailyEmail(
	ctx context.Context,
	user *types.User,
	candidates []signals.RankedSignal,
	sent map[string]bool,
	dailyKey string,
) (bool, error) {
	if sent[repoalerts.LedgerKey{SignalID: dailyKey, Channel: types.ChannelEmailDaily}.String()] {
		return false, nil
	}

	day := d.now()
	subject := dailySubject(day)
	body := dailyEmailHTML(user.FirstName, candidates, day)

	if err := d.sendWithRetry(ctx, user.Email, subject, body); err != nil {
		observability.EmailSendFailures.Inc()
		d.log.Warn("Daily digest failed after retries",
			"user_id", user.ID.String(),
			"error", err,
		)
		return false, nil
	}

	// One synthetic row per day regardless of how many signals were bundled.
	if err := d.ledger.RecordAll(ctx, nil, []*types.AlertDeliveryLog{{
		UserID:   user.ID,
		SignalID: dailyKey,
		Channel:  types.ChannelEmailDaily,
		Metadata: datatypes.JSON(fmt.Appendf(nil, `{"bundled":%d}`, len(candidates))),
	}}); err != nil {
		return false, fmt.Errorf("record daily ledger: %w", err)
	}

	observability.AlertsDelivered.WithLabelValues(types.ChannelEmailDaily).Inc()
	return true, nil
}

func (d *Dispatcher) sendWithRetry(ctx context.Context, to, subject, html string) error {
	return retry.Do(ctx, emailMaxAttempts, retry.Linear(d.retryStep), func(ctx context.Context) error {
		return d.mail.Send(ctx, to, subject, html)
	})
}

func unsent(candidates []signals.RankedSignal, sent map[string]bool, channel string) []signals.RankedSignal {
	out := make([]signals.RankedSignal, 0, len(candidates))
	for _, c := range candidates {
		if sent[repoalerts.LedgerKey{SignalID: c.ID, Channel: channel}.String()] {
			continue
		}
		out = append(out, c)
	}
	return out
}

func scoreMetadata(c signals.RankedSignal) datatypes.JSON {
	payload, err := json.Marshal(map[string]any{
		"score":   c.PersonalizationScore.Total,
		"reasons": c.PersonalizationScore.Reasons,
		"source":  c.Source,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(payload)
}
