package reconcile

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Schedule registers a locked, non-repairing reconcile run on spec and starts the cron.
// An empty spec disables scheduling and returns nil.
func Schedule(spec string, svc *Service) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := svc.RunLocked(ctx, false); err != nil {
			log.Error().Err(err).Msg("scheduled reconcile failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("schedule", spec).Msg("reconcile scheduled")
	return c, nil
}
