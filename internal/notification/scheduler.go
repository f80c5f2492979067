package notification

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"
)

// NotificationScheduler periodically runs the global batch in-process. The
// batch is idempotent, so this can coexist with an external cron hitting the
// trigger endpoint and with client-side self-checks.
type NotificationScheduler struct {
	service *NotificationService
}

func NewNotificationScheduler(service *NotificationService) *NotificationScheduler {
	return &NotificationScheduler{service: service}
}

// StartScheduler starts the background goroutine when CRON_INTERVAL_MIN is
// set; without it the external trigger endpoint is the only schedule.
func (s *NotificationScheduler) StartScheduler(lc fx.Lifecycle) {
	raw := os.Getenv("CRON_INTERVAL_MIN")
	if raw == "" {
		log.Println("CRON_INTERVAL_MIN not set, in-process scheduler disabled")
		return
	}
	interval, err := strconv.Atoi(raw)
	if err != nil || interval <= 0 {
		log.Fatalf("Invalid CRON_INTERVAL_MIN: %q", raw)
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	done := make(chan bool)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Printf("Starting notification scheduler (checking every %d minute(s))...", interval)
			go func() {
				schedulerCtx := context.Background()
				for {
					select {
					case <-ticker.C:
						batch, err := s.service.ProcessAll(schedulerCtx)
						if err != nil {
							log.Println("Notification batch failed:", err)
							continue
						}
						log.Printf("Notification batch processed %d users", batch.Processed)
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping notification scheduler...")
			ticker.Stop()
			done <- true
			return nil
		},
	})
}
