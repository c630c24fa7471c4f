package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// MaxCatchUp caps how many occurrences one sweep generates for a single
// anchor. Anchors further behind continue on the next sweep.
const MaxCatchUp = 366

// Processor runs an action in its own storage transaction.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// SweepReport summarizes one sweep.
type SweepReport struct {
	StartedAt  time.Time
	Duration   time.Duration
	Due        int
	Generated  int
	Terminated int
	Failed     int
}

// Scheduler advances open-ended series. Sweeps never overlap.
type Scheduler struct {
	storage   *storage.Storage
	processor Processor
	logger    *logrus.Logger
	interval  time.Duration
	now       func() time.Time
	notifyCh  chan struct{}

	sweepMu sync.Mutex

	lastMu sync.RWMutex
	last   *SweepReport
}

func New(store *storage.Storage, processor Processor, logger *logrus.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		storage:   store,
		processor: processor,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
		notifyCh:  make(chan struct{}, 1),
	}
}

// WithClock replaces the wall clock used by Start.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Notify triggers an immediate sweep. Non-blocking if a sweep is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start sweeps once, then on every tick and notification until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.WithField("interval", s.interval.String()).Info("Scheduler.Start")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx, s.now())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler.Stop")
			return
		case <-ticker.C:
			s.Sweep(ctx, s.now())
		case <-s.notifyCh:
			s.logger.Debug("Scheduler.Notify")
			s.Sweep(ctx, s.now())
		}
	}
}

// LastSweep returns the report of the most recent sweep.
func (s *Scheduler) LastSweep() (SweepReport, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return SweepReport{}, false
	}
	return *s.last, true
}

// Sweep materializes every occurrence due on or before the calendar day of
// now and returns how many were generated. Failures are logged per anchor.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) int {
	return s.Run(ctx, now).Generated
}

// Run is Sweep returning the full report.
func (s *Scheduler) Run(ctx context.Context, now time.Time) SweepReport {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	today := recurrence.Day(now)
	report := SweepReport{StartedAt: time.Now()}

	logData := logging.NewLogData(s.logger)
	logData.AddData("today", today.Format(time.DateOnly))
	ctx = logging.WithLogData(ctx, logData)
	endTimer := logData.AddTiming("duration")

	defer func() {
		endTimer()
		report.Duration = time.Since(report.StartedAt)
		logData.AddData("due", report.Due)
		logData.AddData("generated", report.Generated)
		logData.AddData("terminated", report.Terminated)
		logData.AddData("failed", report.Failed)
		logData.Log().Info("Scheduler.Sweep.Complete")

		s.lastMu.Lock()
		s.last = &report
		s.lastMu.Unlock()
	}()

	recurring := true
	endList := logData.AddTiming("listDuration")
	due, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		IsRecurring:   &recurring,
		DueOnOrBefore: &today,
		Order:         sqlconfig.OrderByNextOccurrence,
	})
	endList()
	if err != nil {
		logData.Log().WithError(err).Error("Scheduler.Sweep.ListDue")
		report.Failed++
		return report
	}
	report.Due = len(due)

	for _, anchor := range due {
		if ctx.Err() != nil {
			logData.AddData("interrupted", true)
			break
		}
		s.advance(ctx, anchor, today, &report)
	}

	return report
}

// advance moves one anchor forward until its pointer passes today, the
// series ends, or MaxCatchUp occurrences have been generated.
func (s *Scheduler) advance(ctx context.Context, anchor *sqlconfig.Transaction, today time.Time, report *SweepReport) {
	logData := logging.GetLogData(ctx)
	defer logData.AddToExistingTiming("advanceDuration")()

	for step := 0; step < MaxCatchUp; step++ {
		if ctx.Err() != nil {
			return
		}

		action := &actions.AdvanceSeries{AnchorID: anchor.ID, Today: today}
		if err := s.processor.Process(ctx, action); err != nil {
			report.Failed++
			s.logger.WithError(err).WithFields(logrus.Fields{
				"anchorID": anchor.ID.String(),
				"today":    today.Format(time.DateOnly),
			}).Warn("Scheduler.Sweep.AnchorFailed")
			return
		}

		switch action.Transition.Action {
		case recurrence.ActionGenerate:
			report.Generated++
			if action.Transition.NextOccurrence.After(today) {
				return
			}
		case recurrence.ActionTerminate, recurrence.ActionDeactivate:
			report.Terminated++
			s.logger.WithFields(logrus.Fields{
				"anchorID": anchor.ID.String(),
				"action":   action.Transition.Action.String(),
			}).Info("Scheduler.Sweep.SeriesEnded")
			return
		default:
			return
		}
	}

	s.logger.WithField("anchorID", anchor.ID.String()).Warn("Scheduler.Sweep.CatchUpLimit")
}
