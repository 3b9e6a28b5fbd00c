package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// Schedule holds the job intervals.
type Schedule struct {
	DispatchInterval time.Duration
	BatchLimit       int
	FlowInterval     time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob *DispatchJob
	flowJob     *FlowJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	batchHandler commands.RunBatchDispatchCommandHandler,
	flowHandler commands.RunFlowSweepCommandHandler,
	schedule Schedule,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob: NewDispatchJob(batchHandler, schedule.DispatchInterval, schedule.BatchLimit, logger),
		flowJob:     NewFlowJob(flowHandler, schedule.FlowInterval, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}

	if err := jm.flowJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.dispatchJob.Stop()
		return fmt.Errorf("failed to start flow job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.flowJob.Stop()
	jm.dispatchJob.Stop()
}
