package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/media"
)

// ErrNothingToRemove indicates an unlike/undislike targeted an id that was
// not stored. Callers treat it as a no-op outcome, not a failure.
var ErrNothingToRemove = errors.New("preference not present")

// Service stores per-user like/dislike records. Records are persisted as
// one JSON document per user with whole-record replace semantics; every
// mutation is a single read-modify-write transaction.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a preference service backed by the given database.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "preferences").Logger(),
	}
}

// Get returns the user's record, upgrading any legacy stored shape.
// A user with no stored record gets an empty one.
func (s *Service) Get(ctx context.Context, userID string) (*Record, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM preferences WHERE user_id = ?`, userID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return NewRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return decodeRecord(data)
}

// AddLike records a liked id. Liking an already-liked id is a no-op.
func (s *Service) AddLike(ctx context.Context, userID string, t media.Type, id string) error {
	return s.mutate(ctx, userID, func(r *Record) error {
		r.Liked[t] = appendIfNew(r.Liked[t], id)
		return nil
	})
}

// RemoveLike removes a liked id. Returns ErrNothingToRemove if absent.
func (s *Service) RemoveLike(ctx context.Context, userID string, t media.Type, id string) error {
	return s.mutate(ctx, userID, func(r *Record) error {
		ids, removed := removeID(r.Liked[t], id)
		if !removed {
			return ErrNothingToRemove
		}
		r.Liked[t] = ids
		return nil
	})
}

// AddDislike records a disliked id. Idempotent like AddLike.
func (s *Service) AddDislike(ctx context.Context, userID string, t media.Type, id string) error {
	return s.mutate(ctx, userID, func(r *Record) error {
		r.Disliked[t] = appendIfNew(r.Disliked[t], id)
		return nil
	})
}

// RemoveDislike removes a disliked id. Returns ErrNothingToRemove if absent.
func (s *Service) RemoveDislike(ctx context.Context, userID string, t media.Type, id string) error {
	return s.mutate(ctx, userID, func(r *Record) error {
		ids, removed := removeID(r.Disliked[t], id)
		if !removed {
			return ErrNothingToRemove
		}
		r.Disliked[t] = ids
		return nil
	})
}

// mutate runs one read-modify-write cycle inside a transaction. The record
// is re-read under the transaction, upgraded from any legacy shape, mutated,
// and written back whole.
func (s *Service) mutate(ctx context.Context, userID string, fn func(*Record) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	record := NewRecord()
	var data []byte
	err = tx.QueryRowContext(ctx,
		`SELECT record FROM preferences WHERE user_id = ?`, userID,
	).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// First signal for this user; start from an empty record.
	case err != nil:
		return fmt.Errorf("failed to load preferences: %w", err)
	default:
		record, err = decodeRecord(data)
		if err != nil {
			return err
		}
	}

	if err := fn(record); err != nil {
		return err
	}

	encoded, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("failed to encode preference record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO preferences (user_id, record) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP`,
		userID, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	return tx.Commit()
}
