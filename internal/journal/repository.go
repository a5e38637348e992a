package journal

import (
	"context"

	"github.com/pitabwire/frame/datastore/pool"
	"github.com/pitabwire/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements Store on top of the frame datastore pool.
type Repository struct {
	pool pool.Pool
}

var _ Store = (*Repository)(nil)

// NewRepository creates an entry repository backed by the given pool.
func NewRepository(pool pool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) db(ctx context.Context, readOnly bool) *gorm.DB {
	return r.pool.DB(ctx, readOnly)
}

func (r *Repository) fail(ctx context.Context, op string, err error) error {
	kind := classifyStoreErr(err)
	if kind == nil {
		return nil
	}
	util.Log(ctx).WithError(err).Error("journal store: " + op)
	return kind
}

// Create upserts an entry by (user, date). The timestamp is re-derived from
// the date key so the two can never drift apart.
func (r *Repository) Create(ctx context.Context, userID int64, e *Entry) (string, error) {
	ts, err := ParseDate(e.EntryDate)
	if err != nil {
		return "", err
	}
	e.UserID = userID
	e.Timestamp = ts
	if e.Topic == "" {
		e.Topic = DefaultTopic
	}

	err = r.db(ctx, false).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"timestamp", "topic", "text", "language"}),
		}).
		Create(e).Error
	if err != nil {
		return "", r.fail(ctx, "create", err)
	}
	return e.EntryDate, nil
}

// Delete removes the entry addressed by the timestamp-derived date key.
func (r *Repository) Delete(ctx context.Context, userID int64, timestamp int64) (string, error) {
	date := FormatTimestamp(timestamp)
	err := r.db(ctx, false).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Delete(&Entry{}).Error
	if err != nil {
		return "", r.fail(ctx, "delete", err)
	}
	return date, nil
}

// FetchAll returns the user's full entry set, unordered.
func (r *Repository) FetchAll(ctx context.Context, userID int64) ([]Entry, error) {
	var entries []Entry
	err := r.db(ctx, true).
		Where("user_id = ?", userID).
		Find(&entries).Error
	return entries, r.fail(ctx, "fetch all", err)
}

// FetchExact looks up the single entry stored under the exact date key.
func (r *Repository) FetchExact(ctx context.Context, userID int64, date string) ([]Entry, error) {
	var entries []Entry
	err := r.db(ctx, true).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Limit(1).
		Find(&entries).Error
	return entries, r.fail(ctx, "fetch exact", err)
}

// FetchByDay returns the entries of one calendar day, timestamp ascending.
func (r *Repository) FetchByDay(ctx context.Context, userID int64, dayStart string) ([]Entry, error) {
	start, end, err := DayBounds(dayStart)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	err = r.db(ctx, true).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, start, end).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, r.fail(ctx, "fetch by day", err)
}

// FetchByTopic returns the entries filed under the given topic.
func (r *Repository) FetchByTopic(ctx context.Context, userID int64, topic string) ([]Entry, error) {
	var entries []Entry
	err := r.db(ctx, true).
		Where("user_id = ? AND topic = ?", userID, topic).
		Find(&entries).Error
	return entries, r.fail(ctx, "fetch by topic", err)
}

// FetchLastN returns the n most recent entries, newest first.
func (r *Repository) FetchLastN(ctx context.Context, userID int64, n int) ([]Entry, error) {
	var entries []Entry
	err := r.db(ctx, true).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(n).
		Find(&entries).Error
	return entries, r.fail(ctx, "fetch last n", err)
}

// FetchBetween returns entries in the inclusive range spanned by the two
// dates. Reversed bounds are tolerated; equal dates degenerate to an exact
// key lookup.
func (r *Repository) FetchBetween(ctx context.Context, userID int64, date1, date2 string) ([]Entry, error) {
	minTS, maxTS, err := RangeBounds(date1, date2)
	if err != nil {
		return nil, err
	}
	if minTS == maxTS {
		return r.FetchExact(ctx, userID, FormatTimestamp(minTS))
	}
	var entries []Entry
	err = r.db(ctx, true).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, minTS, maxTS).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, r.fail(ctx, "fetch between", err)
}

// FetchAfter returns entries strictly after the given date, ascending.
func (r *Repository) FetchAfter(ctx context.Context, userID int64, date string) ([]Entry, error) {
	ts, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	err = r.db(ctx, true).
		Where("user_id = ? AND timestamp > ?", userID, ts).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, r.fail(ctx, "fetch after", err)
}
