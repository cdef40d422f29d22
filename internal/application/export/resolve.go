package export

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
)

// ResolveConfig bounds the polling loop that waits for newly created users
// to become visible in the organization's user search.
type ResolveConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// DefaultResolveConfig mirrors the observed settle window of the identity
// service.
func DefaultResolveConfig() ResolveConfig {
	return ResolveConfig{
		InitialInterval: time.Second,
		MaxInterval:     5 * time.Second,
		MaxElapsed:      30 * time.Second,
	}
}

// resolvePersonIDs backfills the durable identifier of every created user by
// polling the org-wide search until all are visible or the budget runs out.
// The search is eventually consistent with respect to the creations made
// moments earlier, so not finding a user yet is retryable; a failing search
// call is not.
//
// Return values: nil error with possibly-unresolved entries means the budget
// ran out (callers skip licensing per user); a non-nil error means the
// search itself failed and licensing must not be attempted at all.
func resolvePersonIDs(ctx context.Context, dir ports.UserDirectory, creds ports.Credentials, created []*domain.UserMetadata, cfg ResolveConfig) error {
	pending := make(map[string]*domain.UserMetadata, len(created))
	for _, meta := range created {
		pending[meta.Email()] = meta
	}

	poll := func() (struct{}, error) {
		page, err := dir.SearchUsers(ctx, creds)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		for _, u := range page.Resources {
			if meta, ok := pending[u.UserName]; ok {
				meta.PersonID = u.ID
				delete(pending, u.UserName)
			}
		}
		if len(pending) > 0 {
			return struct{}{}, errUnresolved
		}
		return struct{}{}, nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.InitialInterval
	eb.MaxInterval = cfg.MaxInterval

	_, err := backoff.Retry(ctx, poll,
		backoff.WithBackOff(eb),
		backoff.WithMaxElapsedTime(cfg.MaxElapsed),
	)
	if err == nil || errors.Is(err, errUnresolved) {
		// Either everyone resolved, or the budget ran out with users still
		// pending. Creation already succeeded for them; the licensing stage
		// records the skip per license.
		return nil
	}
	return err
}

var errUnresolved = errors.New("created users not yet visible in search")
