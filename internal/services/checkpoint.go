package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Mirrorer re-saves every persisted slot; implemented by the planner store.
type Mirrorer interface {
	MirrorAll()
}

// CheckpointConfig controls how frequently the full state is re-mirrored.
type CheckpointConfig struct {
	Interval time.Duration
}

// Checkpoint periodically rewrites all slots from the in-memory state. It is
// a best-effort refresh of the local mirror, carrying the same
// fire-and-forget semantics as the per-mutation saves.
type Checkpoint struct {
	state  Mirrorer
	logger *zap.Logger
	cron   *cron.Cron
	cfg    CheckpointConfig
}

func NewCheckpoint(state Mirrorer, logger *zap.Logger, cfg CheckpointConfig) *Checkpoint {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cp := &Checkpoint{
		state:  state,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = cp.cron.AddFunc(schedule, cp.run)

	return cp
}

// Start launches the cron scheduler.
func (cp *Checkpoint) Start() {
	if cp == nil || cp.cron == nil {
		return
	}
	cp.cron.Start()
	cp.logger.Info("checkpoint service started", zap.Duration("interval", cp.cfg.Interval))
}

// Stop gracefully stops the scheduler, waiting for a running checkpoint.
func (cp *Checkpoint) Stop(ctx context.Context) {
	if cp == nil || cp.cron == nil {
		return
	}
	stopCtx := cp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	cp.logger.Info("checkpoint service stopped")
}

func (cp *Checkpoint) run() {
	if cp.state == nil {
		return
	}
	cp.state.MirrorAll()
	cp.logger.Debug("state checkpoint written")
}
