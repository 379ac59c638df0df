package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"apisagro-backend/internal/common"
)

const DefaultMaxAttempts = 3

// ErrUpstreamUnavailable matches every error returned once the retries are
// exhausted.
var ErrUpstreamUnavailable = errors.New("text generation service unavailable")

var errEmptyResponse = errors.New("empty response text")

var (
	generationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apisagro_generation_attempts_total",
		Help: "Text generation attempts by outcome.",
	}, []string{"outcome"})
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "apisagro_generation_duration_seconds",
		Help:    "Wall time of Generate including retries.",
		Buckets: prometheus.DefBuckets,
	})
)

// UpstreamError carries the last provider error after the final attempt.
type UpstreamError struct {
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamUnavailable }

// linearBackOff waits unit, 2*unit, 3*unit... between attempts.
type linearBackOff struct {
	unit  time.Duration
	retry int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.retry++
	return time.Duration(b.retry) * b.unit
}

func (b *linearBackOff) Reset() { b.retry = 0 }

// ReplyClient wraps a TextModel with a bounded retry loop. It holds no
// per-request state and is safe for concurrent use.
type ReplyClient struct {
	model       TextModel
	maxAttempts int
	unit        time.Duration
}

func NewReplyClient(model TextModel, maxAttempts int, unit time.Duration) *ReplyClient {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &ReplyClient{model: model, maxAttempts: maxAttempts, unit: unit}
}

// Generate returns the trimmed model text for prompt. A failed attempt
// (error or blank text) is retried after (1+attemptIndex) units, up to
// maxAttempts attempts in total.
func (c *ReplyClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() { generationDuration.Observe(time.Since(start).Seconds()) }()

	log := common.LoggerFromContext(ctx)
	var (
		text    string
		attempt int
		lastErr error
	)
	op := func() error {
		attempt++
		out, err := c.model.GenerateText(ctx, prompt)
		if err == nil {
			out = strings.TrimSpace(out)
			if out == "" {
				err = errEmptyResponse
			}
		}
		if err != nil {
			generationAttempts.WithLabelValues("failure").Inc()
			log.WithError(err).WithField("attempt", attempt).Warn("text generation attempt failed")
			lastErr = err
			return err
		}
		generationAttempts.WithLabelValues("success").Inc()
		text = out
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{unit: c.unit}, uint64(c.maxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		// Retry reports ctx.Err() once the context is done; keep the provider error.
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.WithError(ctxErr).WithField("attempts", attempt).Warn("text generation cancelled")
		}
		if lastErr == nil {
			lastErr = err
		}
		log.WithError(lastErr).WithField("attempts", attempt).Error("text generation exhausted retries")
		return "", &UpstreamError{Attempts: attempt, Err: lastErr}
	}
	return text, nil
}
