package prefs

import (
	"context"
	"testing"

	"github.com/kitefall/pulse-backend/internal/data/repos/testutil"
	types "github.com/kitefall/pulse-backend/internal/domain"
)

func TestPreferenceRepo_GetMissingReturnsNil(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPreferenceRepo(db, testutil.Logger(t))
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, tx, "noprefs@example.com")

	got, err := repo.Get(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing record, got %+v", got)
	}
}

func TestPreferenceRepo_UpsertThenGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPreferenceRepo(db, testutil.Logger(t))
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, tx, "prefs@example.com")

	_, err := repo.Upsert(ctx, tx, &types.AlertPreference{
		UserID:             u.ID,
		EmailDailyBrief:    true,
		EmailInstantAlerts: false,
		InAppAlerts:        true,
		FundingAlerts:      true,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.Get(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.EmailInstantAlerts {
		t.Fatalf("expected stored false flag, got %+v", got)
	}

	// Second upsert updates in place, no duplicate row.
	got.EmailInstantAlerts = true
	if _, err := repo.Upsert(ctx, tx, got); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	var count int64
	if err := tx.Model(&types.AlertPreference{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single preference row, got %d", count)
	}
}
