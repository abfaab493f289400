package watchlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kitefall/pulse-backend/internal/data/repos/testutil"
	types "github.com/kitefall/pulse-backend/internal/domain"
)

func TestWatchlistRepo_EnsureEntityIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewWatchlistRepo(db, testutil.Logger(t))
	ctx := context.Background()

	first, err := repo.EnsureEntity(ctx, tx, &types.WatchedEntity{
		ID: uuid.New(), EntityType: types.EntityTypeCompany, Slug: "nvidia", Name: "Nvidia",
	})
	if err != nil {
		t.Fatalf("EnsureEntity: %v", err)
	}
	second, err := repo.EnsureEntity(ctx, tx, &types.WatchedEntity{
		ID: uuid.New(), EntityType: types.EntityTypeCompany, Slug: "nvidia", Name: "Nvidia Corp",
	})
	if err != nil {
		t.Fatalf("EnsureEntity (again): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same stored entity, got %s vs %s", first.ID, second.ID)
	}
}

func TestWatchlistRepo_AddListRemove(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewWatchlistRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "wl@example.com")
	e := testutil.SeedEntity(t, ctx, tx, types.EntityTypeModel, "frontier-1")

	if _, err := repo.Add(ctx, tx, u.ID, e.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Duplicate add is a no-op, not an error.
	if _, err := repo.Add(ctx, tx, u.ID, e.ID); err != nil {
		t.Fatalf("Add (duplicate): %v", err)
	}

	entities, err := repo.ListEntitiesByUser(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("ListEntitiesByUser: %v", err)
	}
	if len(entities) != 1 || entities[0].Slug != "frontier-1" {
		t.Fatalf("unexpected entities: %+v", entities)
	}

	items, err := repo.ListByUser(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 1 || items[0].Entity == nil || items[0].Entity.Slug != "frontier-1" {
		t.Fatalf("expected preloaded entity, got %+v", items)
	}

	if err := repo.Remove(ctx, tx, u.ID, e.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	entities, err = repo.ListEntitiesByUser(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("ListEntitiesByUser after remove: %v", err)
	}
	if len(entities) != 0 {
		t.Fatalf("expected empty watchlist, got %+v", entities)
	}
}
