package user

import (
	"context"
	"testing"

	"github.com/kitefall/pulse-backend/internal/data/repos/testutil"
	types "github.com/kitefall/pulse-backend/internal/domain"
)

func TestUserRepo_FindWithWatchlist(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	watcher := testutil.SeedUser(t, ctx, tx, "watcher@example.com")
	testutil.SeedUser(t, ctx, tx, "idle@example.com")
	entity := testutil.SeedEntity(t, ctx, tx, types.EntityTypeCompany, "nvidia")
	testutil.SeedWatchlistItem(t, ctx, tx, watcher.ID, entity.ID)

	got, err := repo.FindWithWatchlist(ctx, tx, 10)
	if err != nil {
		t.Fatalf("FindWithWatchlist: %v", err)
	}
	if len(got) != 1 || got[0].ID != watcher.ID {
		t.Fatalf("expected only the watching user, got %+v", got)
	}
}

func TestUserRepo_FindWithWatchlistHonorsLimit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	entity := testutil.SeedEntity(t, ctx, tx, types.EntityTypeCompany, "mistral-ai")
	u1 := testutil.SeedUser(t, ctx, tx, "one@example.com")
	u2 := testutil.SeedUser(t, ctx, tx, "two@example.com")
	testutil.SeedWatchlistItem(t, ctx, tx, u1.ID, entity.ID)
	testutil.SeedWatchlistItem(t, ctx, tx, u2.ID, entity.ID)

	got, err := repo.FindWithWatchlist(ctx, tx, 1)
	if err != nil {
		t.Fatalf("FindWithWatchlist: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected limit 1, got %d", len(got))
	}
}
