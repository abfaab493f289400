package alerts

import (
	"context"
	"testing"

	"github.com/kitefall/pulse-backend/internal/data/repos/testutil"
	types "github.com/kitefall/pulse-backend/internal/domain"
)

func TestInAppAlertRepo_CreateBatchDeduplicates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewInAppAlertRepo(db, testutil.Logger(t))
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, tx, "inapp@example.com")

	first := []*types.InAppAlert{
		{UserID: u.ID, SignalID: "s1", Title: "t1", EventType: "news"},
		{UserID: u.ID, SignalID: "s2", Title: "t2", EventType: "funding"},
	}
	n, err := repo.CreateBatch(ctx, tx, first)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserts, got %d", n)
	}

	second := []*types.InAppAlert{
		{UserID: u.ID, SignalID: "s1", Title: "t1-again", EventType: "news"},
		{UserID: u.ID, SignalID: "s3", Title: "t3", EventType: "news"},
	}
	n, err = repo.CreateBatch(ctx, tx, second)
	if err != nil {
		t.Fatalf("CreateBatch (overlap): %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 new insert, got %d", n)
	}

	list, err := repo.ListByUser(ctx, tx, u.ID, 0, false)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(list))
	}
}

func TestInAppAlertRepo_MarkReadAndCountUnread(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewInAppAlertRepo(db, testutil.Logger(t))
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, tx, "unread@example.com")

	batch := []*types.InAppAlert{
		{UserID: u.ID, SignalID: "s1", Title: "t1", EventType: "news"},
		{UserID: u.ID, SignalID: "s2", Title: "t2", EventType: "news"},
	}
	if _, err := repo.CreateBatch(ctx, tx, batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	count, err := repo.CountUnread(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	if err := repo.MarkRead(ctx, tx, u.ID, batch[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	count, err = repo.CountUnread(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread after MarkRead, got %d", count)
	}

	unread, err := repo.ListByUser(ctx, tx, u.ID, 0, true)
	if err != nil {
		t.Fatalf("ListByUser unread: %v", err)
	}
	if len(unread) != 1 || unread[0].SignalID != "s2" {
		t.Fatalf("expected only s2 unread, got %+v", unread)
	}
}
