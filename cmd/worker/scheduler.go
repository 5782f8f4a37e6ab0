package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared/tasks"
	"library-backend/pkg/container"
)

type asynqScheduler struct {
	*asynq.Scheduler
}

// setupScheduler registers the recurring jobs. The overdue scan runs every
// morning at 08:00.
func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		&asynq.SchedulerOpts{},
	)

	entryID, err := scheduler.Register("0 8 * * *", asynq.NewTask(tasks.TypeOverdueScan, nil))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register overdue scan")
	}
	log.Info().Str("entry_id", entryID).Msg("overdue scan scheduled")

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatal().Err(err).Msg("scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("stopping scheduler")
	s.Scheduler.Shutdown()
}
