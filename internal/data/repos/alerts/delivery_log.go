package alerts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

// LedgerKey identifies one delivery in the idempotency ledger.
type LedgerKey struct {
	SignalID string
	Channel  string
}

func (k LedgerKey) String() string { return k.SignalID + "|" + k.Channel }

type DeliveryLogRepo interface {
	// ExistingKeys returns, in a single query, every (signalID, channel)
	// pair already logged for the user among the given signal IDs.
	ExistingKeys(ctx context.Context, tx *gorm.DB, userID uuid.UUID, signalIDs []string) (map[string]bool, error)
	// RecordAll appends ledger rows, silently skipping duplicates so
	// concurrent or retried runs never error.
	RecordAll(ctx context.Context, tx *gorm.DB, rows []*types.AlertDeliveryLog) error
}

type deliveryLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeliveryLogRepo(db *gorm.DB, baseLog *logger.Logger) DeliveryLogRepo {
	return &deliveryLogRepo{db: db, log: baseLog.With("repo", "DeliveryLogRepo")}
}

func (dr *deliveryLogRepo) ExistingKeys(ctx context.Context, tx *gorm.DB, userID uuid.UUID, signalIDs []string) (map[string]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	out := make(map[string]bool)
	if len(signalIDs) == 0 {
		return out, nil
	}

	var rows []types.AlertDeliveryLog
	if err := transaction.WithContext(ctx).
		Select("signal_id", "channel").
		Where("user_id = ? AND signal_id IN ?", userID, signalIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[LedgerKey{SignalID: r.SignalID, Channel: r.Channel}.String()] = true
	}
	return out, nil
}

func (dr *deliveryLogRepo) RecordAll(ctx context.Context, tx *gorm.DB, rows []*types.AlertDeliveryLog) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "signal_id"}, {Name: "channel"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
