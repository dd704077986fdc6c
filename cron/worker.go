package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"bookastay/config"
	reservationRepo "bookastay/database/repository/reservation"
	"bookastay/models"
	"bookastay/services/identity"
	"bookastay/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitBookingWorker runs the async worker in background. It drains the
// post-confirmation outbox: receipt emails and identity verification kickoff.
func InitBookingWorker(repo reservationRepo.ReservationRepository, notifSvc notification.NotificationService, identitySvc identity.IdentityService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOutboxDB,
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
	mux.HandleFunc(models.TaskBookingNotify, handleNotifyTask(repo, notifSvc))
	mux.HandleFunc(models.TaskBookingVerify, handleVerifyTask(identitySvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[BookingWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[BookingWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[BookingWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleNotifyTask(repo reservationRepo.ReservationRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifyHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		res, err := repo.GetByID(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if res == nil {
			// Deleted between enqueue and execution; nothing to send.
			log.Printf("[NotifyHandler] ⚠️ Booking %s no longer exists, dropping task", p.BookingID)
			return nil
		}

		if err := notifSvc.SendBookingConfirmation(ctx, res); err != nil {
			log.Printf("[NotifyHandler] ❌ Failed to send booking emails for %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}

func handleVerifyTask(identitySvc identity.IdentityService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[VerifyHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		if err := identitySvc.InitiateForBooking(ctx, p.BookingID); err != nil {
			log.Printf("[VerifyHandler] ❌ Failed to initiate verification for %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOutboxDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[BookingWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
