package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
	}

	attempts := 0
	err := Do(ctx, cfg, func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_SuccessOnRetry(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		Multiplier:   1.5,
	}

	attempts := 0
	err := Do(ctx, cfg, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_MaxAttemptsExceeded(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
	}

	attempts := 0
	expectedErr := errors.New("persistent error")
	err := Do(ctx, cfg, func(ctx context.Context) error {
		attempts++
		return expectedErr
	})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_NonRetryableError(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		MaxAttempts:   5,
		InitialDelay:  10 * time.Millisecond,
		RetryableFunc: func(err error) bool { return false },
	}

	attempts := 0
	err := Do(ctx, cfg, func(ctx context.Context) error {
		attempts++
		return errors.New("fatal error")
	})

	if err == nil {
		t.Error("expected an error")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for a non-retryable error, got %d", attempts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
	}

	attempts := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, cfg, func(ctx context.Context) error {
		attempts++
		return errors.New("failing")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts > 2 {
		t.Errorf("expected few attempts before cancellation, got %d", attempts)
	}
}

func TestDoWithValue(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
	}

	attempts := 0
	result, err := DoWithValue(ctx, cfg, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("not yet")
		}
		return "value", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "value" {
		t.Errorf("expected \"value\", got %q", result)
	}
}

func TestIsTimeout(t *testing.T) {
	timeoutErr := &net.DNSError{IsTimeout: true}
	if !IsTimeout(timeoutErr) {
		t.Error("expected DNS timeout to report as timeout")
	}
	if IsTimeout(errors.New("plain error")) {
		t.Error("plain errors are not timeouts")
	}
}

func TestIsTemporary(t *testing.T) {
	if !IsTemporary(errors.New("unknown error")) {
		t.Error("unknown errors default to retryable")
	}
}
