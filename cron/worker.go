package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"covenant/config"
	supportRepo "covenant/database/repository/support"
	"covenant/services/tasks"

	"github.com/hibiken/asynq"
)

// NewQueueClient creates the asynq client used to enqueue background tasks.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
}

// InitDispatchWorker runs the background worker that forwards support
// tickets to the helpdesk and marks them dispatched.
func InitDispatchWorker(repo supportRepo.SupportRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeTicketDispatch, handleTicketDispatch(repo))

	go func() {
		log.Println("[DispatchWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DispatchWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DispatchWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleTicketDispatch(repo supportRepo.SupportRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.TicketDispatchPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[DispatchHandler] invalid payload: %v", err)
			return err
		}

		log.Printf("[DispatchHandler] forwarding ticket %s (%s) to helpdesk", p.TicketID, p.Subject)

		if err := repo.MarkDispatched(ctx, p.TicketID); err != nil {
			log.Printf("[DispatchHandler] failed to mark ticket %s dispatched: %v", p.TicketID, err)
			return err
		}
		return nil
	}
}
