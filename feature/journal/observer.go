package journal

import (
	"context"

	"ddn-storage/core/storage"

	"go.uber.org/zap"
)

// Observer writes client events to the journal.
type Observer struct {
	repo   *Repository
	logger *zap.Logger
}

// NewObserver creates a journal observer.
func NewObserver(repo *Repository, logger *zap.Logger) *Observer {
	return &Observer{repo: repo, logger: logger}
}

// Observe stores e. The record is written even when ctx was cancelled, since
// cancelled operations are the ones worth keeping.
func (o *Observer) Observe(ctx context.Context, e storage.Event) {
	rec := FromEvent(e)
	if err := o.repo.Insert(context.WithoutCancel(ctx), &rec); err != nil {
		o.logger.Warn("Failed to journal storage operation",
			zap.String("op", e.Op),
			zap.Error(err))
	}
}
