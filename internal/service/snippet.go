// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, issues identifiers, orchestrates
//	Repository (Data layer)  → reads/writes the store
//
// SnippetService takes a repository.SnippetRepository (interface), not a
// concrete store, so tests inject an in-memory mock and main.go picks SQLite
// or Redis without this package knowing.
//
// The service holds no mutable state between requests. Any number of
// instances can run side by side against the same store.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"github.com/sakif/notecode/internal/apperror"
	"github.com/sakif/notecode/internal/idgen"
	"github.com/sakif/notecode/internal/metrics"
	"github.com/sakif/notecode/internal/model"
	"github.com/sakif/notecode/internal/repository"
)

// DefaultMaxAttempts bounds how many identifiers Create tries before giving up.
const DefaultMaxAttempts = 5

// SnippetService handles business logic for code snippets.
type SnippetService struct {
	repo        repository.SnippetRepository
	logger      zerolog.Logger
	newID       idgen.Generator
	maxAttempts int
	now         func() time.Time
}

// Option customises a SnippetService.
type Option func(*SnippetService)

// WithIDGenerator replaces the default 8-character UUID-hex generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *SnippetService) { s.newID = gen }
}

// WithMaxAttempts sets the collision retry bound. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *SnippetService) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *SnippetService) { s.now = now }
}

// NewSnippetService creates a new SnippetService.
//
// The caller decides WHICH repository implementation to use (SQLite, Redis,
// mock for tests); this is where dependency injection happens.
func NewSnippetService(repo repository.SnippetRepository, logger zerolog.Logger, opts ...Option) *SnippetService {
	s := &SnippetService{
		repo:        repo,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		// DefaultLength is always in range, so the error can't happen.
		s.newID, _ = idgen.UUIDHex(idgen.DefaultLength)
	}
	return s
}

// Default returns the sample the editor shows before anything is shared.
// It never touches the store and always returns the same value.
func (s *SnippetService) Default() model.Default {
	return model.DefaultSnippet()
}

// Create issues an identifier and persists a new snippet.
//
// Language and theme are accepted verbatim, and code may be empty: the
// service treats display metadata as opaque and trusts the client.
//
// COLLISION POLICY:
// Eight hex characters is a small enough space that two ids can collide.
// The store's key constraint rejects the second writer with
// apperror.ErrDuplicateKey; that and only that triggers a fresh id and
// another write, up to maxAttempts times. If every attempt collides the
// call fails with apperror.ErrIDSpaceExhausted. Any other store failure is
// returned at once as apperror.ErrStoreUnavailable.
func (s *SnippetService) Create(ctx context.Context, code, language, theme string) (*model.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.StoreUnavailable("put", err)
	}

	var created *model.Snippet
	err := retry.Do(
		func() error {
			id, err := s.newID()
			if err != nil {
				return apperror.StoreUnavailable("generating id", err)
			}
			candidate := &model.Snippet{
				ID:        id,
				Code:      code,
				Language:  language,
				Theme:     theme,
				CreatedAt: s.now().UTC(),
			}
			if err := s.repo.Put(ctx, candidate); err != nil {
				return err
			}
			created = candidate
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.maxAttempts)),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, apperror.ErrDuplicateKey)
		}),
		// retry-go calls OnRetry after the last failed attempt as well. Only
		// count a collision as a regeneration when another attempt follows.
		retry.OnRetry(func(n uint, err error) {
			if n+1 >= uint(s.maxAttempts) {
				return
			}
			metrics.IDCollisions.Inc()
			s.logger.Warn().
				Uint("attempt", n+1).
				Err(err).
				Msg("snippet id collision, regenerating")
		}),
	)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrDuplicateKey):
			err = apperror.IDSpaceExhausted(s.maxAttempts)
		case errors.Is(err, apperror.ErrStoreUnavailable):
			// already classified by the store
		default:
			// context cancellation or deadline from retry.Context
			err = apperror.StoreUnavailable("put", err)
		}
		s.logger.Error().Err(err).Msg("failed to create snippet")
		return nil, err
	}

	metrics.SnippetsCreated.Inc()
	s.logger.Info().
		Str("id", created.ID).
		Str("language", created.Language).
		Int("code_bytes", len(created.Code)).
		Msg("snippet created")

	return created, nil
}

// Get retrieves a snippet by exact identifier.
//
// There is no access control: knowing the id is the permission. NotFound is
// an ordinary outcome, so it is counted but not logged as an error.
func (s *SnippetService) Get(ctx context.Context, id string) (*model.Snippet, error) {
	// Blank ids are rejected; anything else is looked up byte for byte.
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			metrics.SnippetLookups.WithLabelValues(metrics.LookupNotFound).Inc()
			return nil, err
		}
		metrics.SnippetLookups.WithLabelValues(metrics.LookupError).Inc()
		s.logger.Error().Str("id", id).Err(err).Msg("failed to get snippet")
		if !errors.Is(err, apperror.ErrStoreUnavailable) {
			err = apperror.StoreUnavailable("get", err)
		}
		return nil, err
	}

	metrics.SnippetLookups.WithLabelValues(metrics.LookupFound).Inc()
	return snippet, nil
}
