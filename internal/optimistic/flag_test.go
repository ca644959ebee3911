package optimistic

import (
	"context"
	"errors"
	"testing"
)

func TestToggleCommit(t *testing.T) {
	flag := NewFlag(true)

	value, err := flag.Toggle(context.Background(), func(ctx context.Context, next bool) error {
		if next {
			t.Fatal("expected commit with flipped value false")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value || flag.Value() {
		t.Fatal("expected flag to be false after committed toggle")
	}
	if flag.State() != StateConfirmed {
		t.Fatal("expected confirmed state")
	}
}

func TestToggleRollbackOnCommitFailure(t *testing.T) {
	flag := NewFlag(true)
	commitErr := errors.New("write failed")

	value, err := flag.Toggle(context.Background(), func(ctx context.Context, next bool) error {
		// The optimistic value must be visible while the commit is in flight.
		if flag.Value() != false {
			t.Fatal("expected optimistic value during commit")
		}
		return commitErr
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if value != true || flag.Value() != true {
		t.Fatal("expected flag restored to pre-toggle value after failure")
	}
	if flag.State() != StateConfirmed {
		t.Fatal("flag must not stay pending after a reported failure")
	}
}

func TestToggleWhilePending(t *testing.T) {
	flag := NewFlag(false)

	_, err := flag.Toggle(context.Background(), func(ctx context.Context, next bool) error {
		_, nested := flag.Toggle(ctx, func(context.Context, bool) error { return nil })
		if !errors.Is(nested, ErrTogglePending) {
			t.Fatalf("expected ErrTogglePending, got %v", nested)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !flag.Value() {
		t.Fatal("expected committed toggle to land")
	}
}

func TestSetHydratesConfirmedValue(t *testing.T) {
	flag := NewFlag(false)
	flag.Set(true)
	if !flag.Value() || flag.State() != StateConfirmed {
		t.Fatal("expected hydrated confirmed value")
	}
}
