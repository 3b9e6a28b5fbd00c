package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// FlowJob advances young orders through CONFIRMED, PREPARING and
// READY_FOR_PICKUP on a fixed interval.
type FlowJob struct {
	handler  commands.RunFlowSweepCommandHandler
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewFlowJob(handler commands.RunFlowSweepCommandHandler, interval time.Duration, logger *slog.Logger) *FlowJob {
	return &FlowJob{
		handler:  handler,
		interval: interval,
		cron:     cron.New(),
		logger:   logger.With("component", "flow_job"),
	}
}

// Start schedules the job.
func (j *FlowJob) Start() error {
	if j.interval <= 0 {
		return ErrIntervalIsInvalid
	}

	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		_ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Flow job started", "interval", j.interval.String())
	return nil
}

// Run executes one unforced sweep. A tick that overlaps a running sweep is
// skipped.
func (j *FlowJob) Run(ctx context.Context) error {
	_, err := j.handler.Handle(ctx, commands.NewRunFlowSweepCommand(false))
	if errors.Is(err, commands.ErrFlowSweepAlreadyRunning) {
		return nil
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Flow job failed", "error", err)
	}
	return err
}

// Stop waits for a running sweep to finish.
func (j *FlowJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Flow job stopped")
}
