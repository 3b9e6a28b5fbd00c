// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to drive the periodic sweeps of the order lifecycle.
//
// # Available Jobs
//
// 1. DispatchJob - Releases stalled assignments, then assigns riders to the
// highest-scoring READY_FOR_PICKUP orders (RunBatchDispatchCommand)
// 2. FlowJob - Moves young orders one step along the kitchen pipeline
// (RunFlowSweepCommand)
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(batchHandler, flowHandler, jobs.Schedule{
//		DispatchInterval: 30 * time.Second,
//		BatchLimit:       5,
//		FlowInterval:     20 * time.Second,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use "@every <interval>" specs. Intervals shorter than a second
// are rounded up to one second by the cron scheduler. Run executes one cycle
// synchronously, which is what the HTTP trigger endpoints and tests use.
//
// # Error Handling
//
// - A tick that overlaps a running cycle is skipped silently
// - Per-order failures are logged by the sweeps themselves
// - Failed job starts will stop any already running jobs
package jobs
