package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultRetryBackoff = 2 * time.Second

// connect is swapped in tests.
var connect = Connect

// ConnectWithRetry calls Connect up to attempts times, waiting backoff
// between failures and doubling it each time. It returns the last error once
// attempts are exhausted or ctx is cancelled.
func ConnectWithRetry(ctx context.Context, cfg Config, attempts int, backoff time.Duration, log zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	if attempts < 1 {
		attempts = 1
	}
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, db, err := connect(ctx, cfg)
		if err == nil {
			log.Info().Int("attempt", attempt).Str("database", cfg.Database).Msg("connected to mongo")
			return client, db, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", attempts).Msg("mongo connection failed")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, nil, fmt.Errorf("mongo: giving up after %d attempts: %w", attempts, lastErr)
}
