// Package jobs provides scheduled background tasks for the order engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the request path cannot afford to do inline.
//
// # Available Jobs
//
// 1. RouteRecalculationJob - Runs every thirty seconds to recompute routes
// for orders whose geometry was invalidated by a pushed change.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(recalculateRoutesHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The recalculation sweep skips orders whose routing call fails and retries
// them on the next tick, so transient backend outages only delay freshness.
// Failed job starts report the error to the caller.
package jobs
