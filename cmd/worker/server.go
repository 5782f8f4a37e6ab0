package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared/tasks"
	"library-backend/pkg/container"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(c *container.Container) *asynqServer {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOverdueScan, c.OverdueJob.HandleOverdueScan)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"default": 10,
				"low":     5,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("worker failed")
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	log.Info().Msg("stopping worker")
	s.Server.Shutdown()
}
