package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	id      int
	storage *storage.Storage
	queue   chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(id int, s *storage.Storage, queue chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		id:      id,
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// The caller gave up while the item was queued.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	start := time.Now()
	err := o.perform(item)
	if err != nil {
		o.logger.WithFields(logrus.Fields{
			"operator": o.id,
			"action":   actionName(item.action),
			"duration": time.Since(start).String(),
		}).WithError(err).Debug("Operator.Action.Failed")
	}
	item.response <- ActionItemResponse{err: err}
}

func (o *Operator) perform(item ActionItem) error {
	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return fmt.Errorf("storage.Write: %w", err)
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		_ = writer.Rollback()
		return err
	}

	if err = writer.Commit(); err != nil {
		return fmt.Errorf("writer.Commit: %w", err)
	}
	return nil
}

func actionName(action actions.IAction) string {
	return fmt.Sprintf("%T", action)
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
