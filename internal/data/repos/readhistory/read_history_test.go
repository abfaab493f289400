package readhistory

import (
	"context"
	"testing"
	"time"

	"github.com/kitefall/pulse-backend/internal/data/repos/testutil"
)

func TestReadHistoryRepo_ListRecentOrderAndLimit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewReadHistoryRepo(db, testutil.Logger(t))
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, tx, "reader@example.com")

	base := time.Now().UTC().Add(-time.Hour)
	testutil.SeedReadHistory(t, ctx, tx, u.ID, "news", base)
	testutil.SeedReadHistory(t, ctx, tx, u.ID, "funding", base.Add(10*time.Minute))
	testutil.SeedReadHistory(t, ctx, tx, u.ID, "glossary", base.Add(20*time.Minute))

	got, err := repo.ListRecent(ctx, tx, u.ID, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ArticleType != "glossary" || got[1].ArticleType != "funding" {
		t.Fatalf("expected newest first, got %q then %q", got[0].ArticleType, got[1].ArticleType)
	}
}
