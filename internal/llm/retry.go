package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient failures with capped exponential
// backoff. Schema mismatches get a single extra attempt.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger
}

// WithRetry wraps p with retries. logger may be nil. p is always called at
// least once, whatever cfg.MaxAttempts says.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err      error
		resp     *Response
		mismatch int
	)
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !Transient(err) {
			return nil, err
		}
		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			if mismatch++; mismatch > 1 {
				return nil, err
			}
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		wait := r.wait(attempt, err)
		r.logger.Debug("retrying content request",
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// wait is the pause after the given 1-based attempt. A rate limit's
// RetryAfter wins over the backoff curve.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	d = min(d, float64(r.config.MaxWait))
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
