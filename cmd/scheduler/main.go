package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/paydesk/payroll-engine/internal/config"
	"github.com/paydesk/payroll-engine/internal/repository"
	"github.com/paydesk/payroll-engine/internal/service"
	"github.com/paydesk/payroll-engine/pkg/rabbitmq"
	"github.com/paydesk/payroll-engine/pkg/utils"
)

func main() {
	log.Println("Starting payroll scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var publisher rabbitmq.Publisher = rabbitmq.NoopPublisher{}
	if cfg.AMQP.URL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.AMQP.URL)
		if err != nil {
			log.Printf("RabbitMQ unavailable, reminders will be skipped: %v", err)
		} else {
			publisher = producer
			defer producer.Close()
		}
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	scheduleService := service.NewScheduleService(scheduleRepo, nil, service.SystemClock())

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily sweep over overdue active schedules. Reporting only: schedules are
	// never auto-advanced or mutated here, recurrence is a manual re-creation.
	_, err = c.AddFunc(cfg.Scheduler.OverdueSweepSpec, func() {
		sweepOverdueSchedules(scheduleService, publisher)
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue sweep: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func sweepOverdueSchedules(schedules *service.ScheduleService, publisher rabbitmq.Publisher) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	overdue, err := schedules.ListOverdue(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Overdue sweep failed: %v", err)
		return
	}

	log.Printf("Overdue sweep found %d schedule(s)", len(overdue))

	for _, schedule := range overdue {
		event := rabbitmq.PaymentReminderEvent{
			ScheduleID:      schedule.ID,
			EmployerID:      schedule.EmployerID,
			WorkerID:        schedule.WorkerID,
			Amount:          schedule.Amount,
			NextPaymentDate: schedule.NextPaymentDate,
		}
		if err := publisher.Publish(ctx, rabbitmq.RoutingKeyPaymentReminder, event); err != nil {
			log.Printf("Reminder publish failed for schedule %s: %v", schedule.ID, err)
			continue
		}
		log.Printf("Reminder published for schedule %s (due %s)", schedule.ID, utils.FormatDate(schedule.NextPaymentDate))
	}
}
