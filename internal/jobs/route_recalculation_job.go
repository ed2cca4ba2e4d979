package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RouteRecalculationJob periodically sweeps orders whose route is flagged
// stale and recomputes their geometry against the routing backend.
type RouteRecalculationJob struct {
	handler commands.RecalculateRoutesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRouteRecalculationJob creates a new job for refreshing stale routes.
// Uses RecalculateRoutesCommandHandler to process one sweep per tick.
func NewRouteRecalculationJob(handler commands.RecalculateRoutesCommandHandler, logger *slog.Logger) *RouteRecalculationJob {
	return &RouteRecalculationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "route_recalculation_job"),
	}
}

// Start begins the route recalculation job to run every thirty seconds.
// Pushes mark routes stale far less often than drivers poll them, so a
// thirty second sweep keeps geometry fresh without hammering the backend.
func (j *RouteRecalculationJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewRecalculateRoutesCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Route recalculation command construction failed", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Route recalculation sweep failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Route recalculation job started (running every thirty seconds)")
	return nil
}

// Stop stops the route recalculation job.
func (j *RouteRecalculationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Route recalculation job stopped")
}
