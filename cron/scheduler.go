package cron

import (
	"context"
	"log"
	"time"

	"bookastay/services/sync"

	"github.com/robfig/cron/v3"
)

// InitCalendarScheduler starts the periodic calendar reconciliation: feed
// sync every ten minutes and a daily purge of elapsed synced stays. The
// returned cron can be Stop()ed on shutdown.
func InitCalendarScheduler(reconciler *sync.Reconciler) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := reconciler.Run(ctx); err != nil {
			log.Printf("[CalendarScheduler] ❌ Sync run failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("[CalendarScheduler] Failed to schedule sync job: %v", err)
	}

	if _, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := reconciler.CleanupPast(ctx); err != nil {
			log.Printf("[CalendarScheduler] ❌ Cleanup failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("[CalendarScheduler] Failed to schedule cleanup job: %v", err)
	}

	c.Start()
	log.Println("[CalendarScheduler] 🚀 Calendar sync scheduled")
	return c
}
