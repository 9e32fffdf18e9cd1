package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBusy = errors.New("database is locked")

func isBusy(err error) bool { return errors.Is(err, errBusy) }

// instantAfter fires immediately and records requested delays.
func instantAfter(delays *[]time.Duration) func(time.Duration) <-chan time.Time {
	return func(d time.Duration) <-chan time.Time {
		*delays = append(*delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 10*time.Millisecond {
		t.Errorf("expected InitialDelay=10ms, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 500*time.Millisecond {
		t.Errorf("expected MaxDelay=500ms, got %v", cfg.MaxDelay)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("expected Multiplier=2.0, got %f", cfg.Multiplier)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Second}, false},
		{"zero attempts", Config{MaxAttempts: 0, InitialDelay: time.Millisecond}, true},
		{"zero delay", Config{MaxAttempts: 1}, true},
		{"initial above max", Config{MaxAttempts: 1, InitialDelay: time.Second, MaxDelay: time.Millisecond}, true},
		{"shrinking multiplier", Config{MaxAttempts: 1, InitialDelay: time.Millisecond, Multiplier: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Normalize()
			if (err != nil) != tt.wantErr {
				t.Errorf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDelay(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2.0}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{10, time.Second},
	}

	for _, tt := range tests {
		if got := cfg.delay(tt.attempt); got != tt.expected {
			t.Errorf("delay(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func(ctx context.Context) error {
		calls++
		return nil
	}, isBusy)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	var delays []time.Duration
	cfg := DefaultConfig()
	cfg.After = instantAfter(&delays)

	calls := 0
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errBusy
		}
		return nil
	}, isBusy)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	if len(delays) != len(want) || delays[0] != want[0] || delays[1] != want[1] {
		t.Errorf("delays = %v, want %v", delays, want)
	}
}

func TestDo_NonRetryableReturnedUnchanged(t *testing.T) {
	permanent := errors.New("UNIQUE constraint failed")
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func(ctx context.Context) error {
		calls++
		return permanent
	}, isBusy)

	if err != permanent {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	var retried []int
	cfg := DefaultConfig()
	cfg.After = instantAfter(&delays)
	cfg.OnRetry = func(attempt int, err error, d time.Duration) { retried = append(retried, attempt) }

	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		return errBusy
	}, isBusy)

	var exceeded *RetriesExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected RetriesExceededError, got %T: %v", err, err)
	}
	if exceeded.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", exceeded.Attempts)
	}
	if !errors.Is(err, errBusy) {
		t.Error("expected error to unwrap to the last error")
	}
	if len(retried) != 2 {
		t.Errorf("expected OnRetry twice, got %v", retried)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, DefaultConfig(), func(ctx context.Context) error {
		calls++
		return nil
	}, isBusy)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
}

func TestDo_InvalidConfig(t *testing.T) {
	err := Do(context.Background(), Config{}, func(ctx context.Context) error { return nil }, isBusy)
	if err == nil {
		t.Fatal("expected config validation error")
	}
}
