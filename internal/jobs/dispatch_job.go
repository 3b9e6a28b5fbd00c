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

// ErrIntervalIsInvalid is returned by Start for a non-positive interval.
var ErrIntervalIsInvalid = errors.New("job interval must be positive")

// DispatchJob runs the redispatch sweep and a batch dispatch on a fixed
// interval.
type DispatchJob struct {
	handler  commands.RunBatchDispatchCommandHandler
	interval time.Duration
	limit    int
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDispatchJob creates a job that dispatches at most limit orders per cycle.
func NewDispatchJob(
	handler commands.RunBatchDispatchCommandHandler,
	interval time.Duration,
	limit int,
	logger *slog.Logger,
) *DispatchJob {
	return &DispatchJob{
		handler:  handler,
		interval: interval,
		limit:    limit,
		cron:     cron.New(),
		logger:   logger.With("component", "dispatch_job"),
	}
}

// Start schedules the job.
func (j *DispatchJob) Start() error {
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
	j.logger.InfoContext(context.Background(), "Dispatch job started", "interval", j.interval.String(), "batch_limit", j.limit)
	return nil
}

// Run executes one dispatch cycle. An overlapping cycle is not an error.
func (j *DispatchJob) Run(ctx context.Context) error {
	result, err := j.handler.Handle(ctx, commands.NewRunBatchDispatchCommand(j.limit))
	if errors.Is(err, commands.ErrDispatchAlreadyRunning) {
		return nil
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch job failed", "error", err)
		return err
	}

	if len(result.Assigned) > 0 || len(result.Redispatched) > 0 {
		j.logger.InfoContext(ctx, "Dispatch cycle finished",
			"processed", result.Processed,
			"assigned", len(result.Assigned),
			"failed", len(result.Failed),
			"redispatched", len(result.Redispatched),
		)
	}
	return nil
}

// Stop waits for a running cycle to finish.
func (j *DispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}
