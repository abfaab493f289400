package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/kitefall/pulse-backend/internal/data/repos/prefs"
	"github.com/kitefall/pulse-backend/internal/data/repos/readhistory"
	"github.com/kitefall/pulse-backend/internal/data/repos/user"
	"github.com/kitefall/pulse-backend/internal/data/repos/watchlist"
	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/observability"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
	"github.com/kitefall/pulse-backend/internal/ranking"
	"github.com/kitefall/pulse-backend/internal/signals"
)

const (
	// MaxUsersPerRun is the hard batch cap; it doubles as the run's overall
	// size bound.
	MaxUsersPerRun = 2000

	// SignalFetchLimit bounds the shared snapshot every user ranks against.
	SignalFetchLimit = 80

	// ReadHistoryLookback bounds the behavior window fed to the engine.
	ReadHistoryLookback = 250

	defaultWorkers  = 4
	defaultInterval = time.Hour
)

// RunOptions tune a single pipeline run.
type RunOptions struct {
	MaxUsers  int
	Threshold float64
}

// RunReport aggregates one run's counters.
type RunReport struct {
	ProcessedUsers            int `json:"processed_users"`
	ConsideredUsers           int `json:"considered_users"`
	InAppAlertsCreated        int `json:"in_app_alerts_created"`
	EmailInstantSent          int `json:"email_instant_sent"`
	EmailDailySent            int `json:"email_daily_sent"`
	CandidateSignalsEvaluated int `json:"candidate_signals_evaluated"`
	FailedUsers               int `json:"failed_users"`
}

type PipelineService interface {
	Run(ctx context.Context, opts RunOptions) (RunReport, error)
	StartWorker(ctx context.Context)
}

type pipelineService struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo      user.UserRepo
	watchlistRepo watchlist.WatchlistRepo
	prefRepo      prefs.PreferenceRepo
	historyRepo   readhistory.ReadHistoryRepo

	source     signals.Source
	dispatcher *Dispatcher

	workers  int
	interval time.Duration
	now      func() time.Time
}

func NewPipelineService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo user.UserRepo,
	watchlistRepo watchlist.WatchlistRepo,
	prefRepo prefs.PreferenceRepo,
	historyRepo readhistory.ReadHistoryRepo,
	source signals.Source,
	dispatcher *Dispatcher,
	workers int,
	interval time.Duration,
) PipelineService {
	if workers < 1 {
		workers = defaultWorkers
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &pipelineService{
		db:            db,
		log:           baseLog.With("service", "AlertPipelineService"),
		userRepo:      userRepo,
		watchlistRepo: watchlistRepo,
		prefRepo:      prefRepo,
		historyRepo:   historyRepo,
		source:        source,
		dispatcher:    dispatcher,
		workers:       workers,
		interval:      interval,
		now:           time.Now,
	}
}

// Run executes one pipeline pass: one shared signal snapshot, then every
// eligible user ranked, filtered and dispatched independently over a bounded
// worker pool. A failing user is logged and counted, never fatal to the run.
func (ps *pipelineService) Run(ctx context.Context, opts RunOptions) (RunReport, error) {
	started := ps.now()
	var report RunReport

	maxUsers := opts.MaxUsers
	if maxUsers <= 0 || maxUsers > MaxUsersPerRun {
		maxUsers = MaxUsersPerRun
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	users, err := ps.userRepo.FindWithWatchlist(ctx, nil, maxUsers)
	if err != nil {
		observability.PipelineRuns.WithLabelValues("error").Inc()
		return report, fmt.Errorf("load users: %w", err)
	}
	report.ConsideredUsers = len(users)
	if len(users) == 0 {
		observability.PipelineRuns.WithLabelValues("ok").Inc()
		return report, nil
	}

	sigs, err := ps.source.LiveSignals(ctx, SignalFetchLimit)
	if err != nil {
		observability.PipelineRuns.WithLabelValues("error").Inc()
		return report, fmt.Errorf("load signals: %w", err)
	}
	if len(sigs) == 0 {
		ps.log.Info("No live signals, nothing to deliver")
		observability.PipelineRuns.WithLabelValues("ok").Inc()
		return report, nil
	}

	now := ps.now()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ps.workers)

	for _, u := range users {
		u := u
		g.Go(func() error {
			res, candidates, err := ps.processUser(gctx, u, sigs, now, threshold)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.FailedUsers++
				observability.UserProcessingFailures.Inc()
				ps.log.Warn("User processing failed, continuing batch",
					"user_id", u.ID.String(),
					"error", err,
				)
				return nil
			}
			report.ProcessedUsers++
			report.CandidateSignalsEvaluated += candidates
			report.InAppAlertsCreated += res.InAppCreated
			report.EmailInstantSent += res.EmailInstantSent
			report.EmailDailySent += res.EmailDailySent
			return nil
		})
	}
	_ = g.Wait()

	observability.PipelineRuns.WithLabelValues("ok").Inc()
	observability.UsersProcessed.Add(float64(report.ProcessedUsers))
	observability.PipelineDuration.Observe(time.Since(started).Seconds())

	ps.log.Info("Pipeline run finished",
		"considered_users", report.ConsideredUsers,
		"processed_users", report.ProcessedUsers,
		"failed_users", report.FailedUsers,
		"in_app_created", report.InAppAlertsCreated,
		"email_instant_sent", report.EmailInstantSent,
		"email_daily_sent", report.EmailDailySent,
		"duration", time.Since(started).String(),
	)
	return report, nil
}

// processUser is the per-user unit of work. The recover boundary keeps a
// panicking user from tearing down the whole batch.
func (ps *pipelineService) processUser(
	ctx context.Context,
	u *types.User,
	sigs []signals.Signal,
	now time.Time,
	threshold float64,
) (res DispatchResult, candidates int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing user: %v", r)
		}
	}()

	entities, err := ps.watchlistRepo.ListEntitiesByUser(ctx, nil, u.ID)
	if err != nil {
		return res, 0, fmt.Errorf("load watchlist: %w", err)
	}
	prefRecord, err := ps.prefRepo.Get(ctx, nil, u.ID)
	if err != nil {
		return res, 0, fmt.Errorf("load preferences: %w", err)
	}
	history, err := ps.historyRepo.ListRecent(ctx, nil, u.ID, ReadHistoryLookback)
	if err != nil {
		return res, 0, fmt.Errorf("load read history: %w", err)
	}

	ranked := ranking.Rank(now, sigs, entities, prefRecord, history, 0, true)
	candidates = len(ranked)

	resolved := ranking.ResolvePreferences(prefRecord)
	eligible := Eligible(ranked, resolved, threshold, MaxCandidatesPerUser)
	if len(eligible) == 0 {
		return res, candidates, nil
	}

	res, err = ps.dispatcher.DispatchForUser(ctx, u, resolved, eligible)
	if err != nil {
		return res, candidates, err
	}
	return res, candidates, nil
}

// StartWorker runs the pipeline on a fixed cadence until ctx is canceled.
func (ps *pipelineService) StartWorker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(ps.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				ps.log.Info("Pipeline worker stopping")
				return
			case <-ticker.C:
				if _, err := ps.Run(ctx, RunOptions{}); err != nil {
					ps.log.Error("Scheduled pipeline run failed", "error", err)
				}
			}
		}
	}()
}
