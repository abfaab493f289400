package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string       { return "status error" }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestDo_SucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, Linear(time.Millisecond), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("still down")
	err := Do(context.Background(), 3, Linear(time.Millisecond), func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_StopsOnNonRetryableStatus(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, Linear(time.Millisecond), func(ctx context.Context) error {
		calls++
		return statusErr(400)
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call for a 400, got %d", calls)
	}
}

func TestDo_RetriesServerStatus(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 2, Linear(time.Millisecond), func(ctx context.Context) error {
		calls++
		return statusErr(503)
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls for a 503, got %d", calls)
	}
}

func TestDo_RespectsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, 3, Linear(time.Millisecond), func(ctx context.Context) error {
		t.Fatalf("fn should not run after cancel")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLinearBackoff(t *testing.T) {
	b := Linear(400 * time.Millisecond)
	if b(1) != 400*time.Millisecond || b(2) != 800*time.Millisecond {
		t.Fatalf("unexpected backoff: %v / %v", b(1), b(2))
	}
}
