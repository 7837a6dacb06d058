package journal

import (
	"time"

	"ddn-storage/core/storage"
)

// Record is one journaled client operation.
type Record struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Op         string    `gorm:"size:32;not null;index" json:"op"`
	Endpoint   string    `gorm:"size:255;not null" json:"endpoint"`
	Bytes      int       `json:"bytes"`
	Attempt    int       `json:"attempt"`
	Error      string    `gorm:"size:1024" json:"error,omitempty"`
	DurationMS int64     `gorm:"column:duration_ms;not null" json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the GORM table name.
func (Record) TableName() string {
	return "transfer_journal"
}

// FromEvent converts a client event into a record.
func FromEvent(e storage.Event) Record {
	r := Record{
		Op:         e.Op,
		Endpoint:   e.Endpoint,
		Bytes:      e.Bytes,
		Attempt:    e.Attempt,
		DurationMS: e.Duration.Milliseconds(),
	}
	if e.Err != nil {
		r.Error = truncate(e.Err.Error(), 1024)
	}
	return r
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
