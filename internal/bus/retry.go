package bus

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// WithRetry wraps a Handler with bounded exponential backoff: one
// initial attempt plus up to maxRetries retries, sleeping 2^attempt
// seconds before retry number attempt (2s, 4s, 8s, ...). The
// attempt counter resets once maxRetries is exhausted rather than
// carrying over to the next event — at-least-once redelivery means a
// later attempt starts the count fresh (§4.6, grounded on the original
// indexer's retry_count/max_retries discipline).
func WithRetry(maxRetries int, h Handler) Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		var lastErr error
		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				backoff := time.Duration(1<<uint(attempt)) * time.Second
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(backoff):
				}
			}

			lastErr = h(ctx, evt)
			if lastErr == nil {
				return nil
			}
			log.Warn().Err(lastErr).Int("attempt", attempt+1).Int("max_retries", maxRetries).
				Msg("bus: handler failed, retrying")
		}
		return lastErr
	}
}
