package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	appServices "github.com/yigit/elearning/internal/app/services"
)

// clusterJobTimeout bounds one scheduled recompute
const clusterJobTimeout = 5 * time.Minute

// StartClusterSchedule runs the recommendation recompute on a cron spec.
// An empty spec disables the schedule and returns a nil cron.
func StartClusterSchedule(spec string, updater appServices.ClusterUpdater, lgr zerolog.Logger) (*cron.Cron, error) {
	if spec == "" {
		lgr.Info().Msg("Cluster schedule disabled")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), clusterJobTimeout)
		defer cancel()

		start := time.Now()
		if err := updater.UpdateClusters(ctx); err != nil {
			lgr.Error().Err(err).Msg("Scheduled cluster update failed")
			return
		}
		lgr.Info().Dur("took", time.Since(start)).Msg("Scheduled cluster update finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cluster schedule %q: %w", spec, err)
	}

	c.Start()
	lgr.Info().Str("schedule", spec).Msg("Cluster schedule started")
	return c, nil
}
