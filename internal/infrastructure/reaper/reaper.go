package reaper

import (
	"context"
	"sync"
	"time"

	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
)

const DefaultInterval = 5 * time.Minute

// Sweeper is the part of the chat service the reaper drives.
type Sweeper interface {
	Sweep(ctx context.Context) chat.SweepReport
}

// Recorder observes finished sweeps. Metrics implement it.
type Recorder interface {
	ObserveSweep(report chat.SweepReport)
}

// Reaper runs a maintenance sweep over every room on a fixed interval.
type Reaper struct {
	sweeper  Sweeper
	recorder Recorder
	logger   logging.Logger
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

func New(sweeper Sweeper, recorder Recorder, logger logging.Logger, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Reaper{
		sweeper:  sweeper,
		recorder: recorder,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (j *Reaper) Start(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info(logging.Reaper, logging.Startup, "reaper started", map[logging.ExtraKey]any{
		logging.Duration: j.interval.String(),
	})

	for {
		select {
		case <-ticker.C:
			j.RunOnce(ctx)
		case <-j.stopChan:
			j.logger.Info(logging.Reaper, logging.Shutdown, "reaper stopped", nil)
			return nil
		case <-ctx.Done():
			j.logger.Info(logging.Reaper, logging.Shutdown, "reaper context cancelled", nil)
			return nil
		}
	}
}

func (j *Reaper) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
	})
}

// RunOnce performs a single sweep.
func (j *Reaper) RunOnce(ctx context.Context) chat.SweepReport {
	start := time.Now()
	report := j.sweeper.Sweep(ctx)

	if j.recorder != nil {
		j.recorder.ObserveSweep(report)
	}

	j.logger.Debug(logging.Reaper, logging.Prune, "sweep completed", map[logging.ExtraKey]any{
		logging.Count:    report.Rooms,
		logging.Duration: time.Since(start).String(),
		"Reaped":         report.Reaped,
		"Events":         report.Events,
	})
	return report
}
