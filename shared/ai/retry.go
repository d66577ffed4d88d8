package ai

import (
	"context"
	"errors"
	"time"

	"creator-stack/shared/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// resilientCompleter retries transient failures with exponential backoff,
// bounds every attempt with a timeout and stops calling a provider that keeps
// failing at the transport level.
type resilientCompleter struct {
	next           Completer
	maxAttempts    int
	timeout        time.Duration
	initialBackoff time.Duration
	breaker        *gobreaker.CircuitBreaker
	log            *zap.Logger
}

// WithRetry wraps next with the retry, timeout and circuit breaker policy from cfg.
func WithRetry(next Completer, cfg *config.AIConfig, logger *zap.Logger) Completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	failureLimit := uint32(cfg.BreakerFailureLimit)
	if failureLimit == 0 {
		failureLimit = 5
	}

	log := logger.With(zap.String("provider", next.Name()))
	return &resilientCompleter{
		next:           next,
		maxAttempts:    attempts,
		timeout:        cfg.Timeout(),
		initialBackoff: cfg.InitialBackoff(),
		log:            log,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        next.Name(),
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failureLimit
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !IsTransportError(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("Circuit breaker state change",
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

func (r *resilientCompleter) Name() string { return r.next.Name() }

func (r *resilientCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	bo := backoff.NewExponentialBackOff()
	if r.initialBackoff > 0 {
		bo.InitialInterval = r.initialBackoff
	}
	bo.MaxElapsedTime = 0
	bo.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(r.maxAttempts-1)), ctx)

	attempt := 0
	operation := func() (string, error) {
		attempt++
		text, err := r.attempt(ctx, req)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", backoff.Permanent(err)
		}
		var transport *TransportError
		if !errors.As(err, &transport) || !transport.Retryable() {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	notify := func(err error, wait time.Duration) {
		r.log.Warn("Completion attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.maxAttempts),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	return backoff.RetryNotifyWithData(operation, policy, notify)
}

func (r *resilientCompleter) attempt(ctx context.Context, req CompletionRequest) (string, error) {
	attemptCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		text, err := r.next.Complete(attemptCtx, req)
		if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			var transport *TransportError
			if errors.As(err, &transport) && transport.Timeout {
				return nil, err
			}
			return nil, &TransportError{Timeout: true, Err: err}
		}
		return text, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &TransportError{Err: err}
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
