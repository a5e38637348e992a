package journal

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store failure kinds. Callers never surface these to the user directly:
// a failed fetch renders as an empty result set.
var (
	ErrStoreAccessDenied = errors.New("journal store: access denied")
	ErrStoreUnavailable  = errors.New("journal store: unavailable")
	ErrStoreUnknown      = errors.New("journal store: unknown error")
)

// Store is the query façade over a per-user entry collection addressed by
// (userID, date). All operations are user-scoped.
type Store interface {
	// Create upserts an entry by its date key and returns the key used.
	// A second create at the same date overwrites the first.
	Create(ctx context.Context, userID int64, e *Entry) (string, error)
	// Delete removes the entry whose date derives from the given timestamp.
	// Deleting a non-existent key is not an error; the derived key is
	// returned either way for confirmation messaging.
	Delete(ctx context.Context, userID int64, timestamp int64) (string, error)

	FetchAll(ctx context.Context, userID int64) ([]Entry, error)
	FetchExact(ctx context.Context, userID int64, date string) ([]Entry, error)
	FetchByDay(ctx context.Context, userID int64, dayStart string) ([]Entry, error)
	FetchByTopic(ctx context.Context, userID int64, topic string) ([]Entry, error)
	FetchLastN(ctx context.Context, userID int64, n int) ([]Entry, error)
	FetchBetween(ctx context.Context, userID int64, date1, date2 string) ([]Entry, error)
	FetchAfter(ctx context.Context, userID int64, date string) ([]Entry, error)
}

// classifyStoreErr maps driver errors onto the store failure taxonomy.
// A not-found result is not a failure at this layer.
func classifyStoreErr(err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStoreUnavailable
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "access denied"):
		return ErrStoreAccessDenied
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "connection reset"), strings.Contains(msg, "timeout"):
		return ErrStoreUnavailable
	default:
		return ErrStoreUnknown
	}
}
