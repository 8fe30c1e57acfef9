package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errDown = errors.New("down")

func fail() error { return errDown }
func ok() error   { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		if err := cb.Execute(fail); !errors.Is(err, errDown) {
			t.Fatalf("attempt %d: expected errDown, got %v", i, err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) || called {
		t.Fatalf("open breaker should reject without calling, err=%v called=%v", err, called)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := New(Config{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	_ = cb.Execute(fail)
	_ = cb.Execute(ok)
	_ = cb.Execute(fail)
	if cb.State() != StateClosed {
		t.Fatalf("non-consecutive failures must not trip, got %s", cb.State())
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Second})
	cb.now = func() time.Time { return now }

	var transitions []string
	cb.SetStateChangeCallback(func(from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	_ = cb.Execute(fail)
	now = now.Add(11 * time.Second)

	if err := cb.Execute(ok); err != nil {
		t.Fatalf("probe should run: %v", err)
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("one success should leave it half-open, got %s", cb.State())
	}
	_ = cb.Execute(ok)
	if cb.State() != StateClosed {
		t.Fatalf("expected closed, got %s", cb.State())
	}

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Second})
	cb.now = func() time.Time { return now }

	_ = cb.Execute(fail)
	now = now.Add(2 * time.Second)
	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Fatalf("expected open after failed probe, got %s", cb.State())
	}
}

func TestBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	errMiss := errors.New("miss")
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Minute})
	err := cb.Execute(func() error { return errMiss }, func(err error) bool { return errors.Is(err, errMiss) })
	if !errors.Is(err, errMiss) {
		t.Fatalf("expected errMiss passed through, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Fatalf("ignored error tripped the breaker")
	}
}
