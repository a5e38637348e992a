package journal

import (
	"github.com/pitabwire/frame/data"
)

// DefaultTopic is the sentinel topic assigned to entries before the user
// names one.
const DefaultTopic = "None"

// Entry is one persisted voice-transcript record. EntryDate is the natural
// key within a user's collection: a second entry created at the same exact
// second overwrites the first. Timestamp always equals epoch(EntryDate) and
// drives ordering and range queries.
type Entry struct {
	data.BaseModel

	UserID    int64  `gorm:"not null;index:idx_entries_user;uniqueIndex:idx_entries_user_date,priority:1" json:"user_id"`
	EntryDate string `gorm:"type:varchar(19);not null;uniqueIndex:idx_entries_user_date,priority:2"        json:"date"`
	Timestamp int64  `gorm:"not null;index:idx_entries_ts"                                                 json:"timestamp"`
	Topic     string `gorm:"type:varchar(255);not null;default:'None'"                                     json:"topic"`
	Text      string `gorm:"type:text"                                                                     json:"text"`
	Language  string `gorm:"type:varchar(10)"                                                              json:"language"`
}

func (Entry) TableName() string { return "journal_entries" }
