package designer

import (
	"testing"
	"time"

	"dukanBack/internal/models"
)

func balanceWith(remaining int) models.TokenBalance {
	return models.TokenBalance{StoreID: 1, Remaining: remaining}
}

func sampleDesign(primary string) models.DesignResult {
	return models.DesignResult{
		Summary: "warmer palette",
		CSSVars: map[string]string{"--color-primary": primary},
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StateIdle, StateDrafting) {
		t.Fatal("expected idle -> drafting to be allowed")
	}
	if CanTransition(StateIdle, StatePreviewing) {
		t.Fatal("unexpected transition allowed")
	}
	if !CanTransition(StateAwaiting, StateDrafting) {
		t.Fatal("expected awaiting -> drafting (failure path) to be allowed")
	}
	if !CanTransition(StatePreviewing, StateIdle) {
		t.Fatal("expected previewing -> idle (reset) to be allowed")
	}
	if !CanTransition(StatePublished, StateIdle) {
		t.Fatal("expected published -> idle (reset) to be allowed")
	}
}

func TestSubmitGuards(t *testing.T) {
	now := time.Now()

	t.Run("empty prompt rejected", func(t *testing.T) {
		s, _ := NewSession(1).Compose("   ")
		s2, err := s.Submit(balanceWith(3), now)
		if err != ErrEmptyPrompt {
			t.Fatalf("expected ErrEmptyPrompt, got %v", err)
		}
		if s2.State != StateDrafting {
			t.Fatalf("session must stay drafting, got %s", s2.State)
		}
	})

	t.Run("no tokens rejected", func(t *testing.T) {
		s, _ := NewSession(1).Compose("make it blue")
		_, err := s.Submit(balanceWith(0), now)
		if err != ErrNoTokens {
			t.Fatalf("expected ErrNoTokens, got %v", err)
		}
	})

	t.Run("expired tokens rejected", func(t *testing.T) {
		past := now.Add(-time.Hour)
		balance := models.TokenBalance{StoreID: 1, Remaining: 5, ExpiresAt: &past}
		s, _ := NewSession(1).Compose("make it blue")
		if _, err := s.Submit(balance, now); err != ErrNoTokens {
			t.Fatalf("expected ErrNoTokens, got %v", err)
		}
	})

	t.Run("valid submit moves to awaiting", func(t *testing.T) {
		s, _ := NewSession(1).Compose("make it blue")
		s2, err := s.Submit(balanceWith(3), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s2.State != StateAwaiting {
			t.Fatalf("expected awaiting, got %s", s2.State)
		}
	})
}

func TestGenerationLifecycle(t *testing.T) {
	now := time.Now()
	s, _ := NewSession(1).Compose("make it blue")
	s, _ = s.Submit(balanceWith(3), now)

	t.Run("failure returns to drafting without staging", func(t *testing.T) {
		failed, err := s.Fail()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if failed.State != StateDrafting || failed.Pending != nil {
			t.Fatalf("expected clean drafting state, got %+v", failed)
		}
	})

	t.Run("success stages pending design", func(t *testing.T) {
		ok, err := s.Succeed(sampleDesign("#0000ff"), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok.State != StatePreviewing || ok.Pending == nil {
			t.Fatalf("expected previewing with pending design, got %+v", ok)
		}
	})
}

func TestPublishAndReset(t *testing.T) {
	now := time.Now()
	s, _ := NewSession(1).Compose("make it blue")
	s, _ = s.Submit(balanceWith(3), now)
	s, _ = s.Succeed(sampleDesign("#0000ff"), "")

	s, err := s.Publish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State != StatePublished || s.Current == nil || s.Pending != nil {
		t.Fatalf("expected published with cleared pending, got %+v", s)
	}

	if _, err := s.Publish(); err != ErrNothingToPublish {
		t.Fatalf("expected ErrNothingToPublish on double publish, got %v", err)
	}

	s, err = s.Reset()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State != StateIdle || s.Current != nil || s.Pending != nil {
		t.Fatalf("expected cleared idle session, got %+v", s)
	}

	if _, err := s.Reset(); err != ErrInvalidTransition {
		t.Fatalf("reset from idle must be rejected, got %v", err)
	}
}

func TestRestorePrecedence(t *testing.T) {
	published := sampleDesign("#111111")
	history := sampleDesign("#222222")

	t.Run("published wins over everything", func(t *testing.T) {
		s := Restore(1, &published, true, &history)
		if s.State != StatePublished || s.Current == nil || s.Current.CSSVars["--color-primary"] != "#111111" {
			t.Fatalf("expected published session, got %+v", s)
		}
	})

	t.Run("reset sentinel beats history", func(t *testing.T) {
		s := Restore(1, nil, true, &history)
		if s.State != StateIdle || s.Pending != nil {
			t.Fatalf("expected idle session despite history, got %+v", s)
		}
	})

	t.Run("unpublished history is re-staged", func(t *testing.T) {
		s := Restore(1, nil, false, &history)
		if s.State != StatePreviewing || s.Pending == nil || s.Pending.CSSVars["--color-primary"] != "#222222" {
			t.Fatalf("expected previewing session, got %+v", s)
		}
	})

	t.Run("nothing persisted starts idle", func(t *testing.T) {
		s := Restore(1, nil, false, nil)
		if s.State != StateIdle {
			t.Fatalf("expected idle, got %s", s.State)
		}
	})
}
