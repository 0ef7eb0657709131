package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-calendar/internal/bot"
	"todo-calendar/internal/config"
	"todo-calendar/internal/repository"
	"todo-calendar/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	services := bot.Services{
		Users:      userRepo,
		Tasks:      service.NewTaskService(taskRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Reminders:  service.NewReminderService(taskRepo),
		Addresses:  service.NewAddressService(cfg.ViaCEPURL, client),
		Holidays:   service.NewHolidayService(cfg.BrasilAPIURL, client),
	}

	telegramBot, err := bot.New(cfg.TelegramToken, services, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	report := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("report: %v", err)
		}
	}

	scheduler := service.NewSchedulerService(cfg.Location)
	switch {
	case cfg.ReportTime != "":
		id, err := scheduler.ScheduleDaily(cfg.ReportTime, report)
		if err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("[info] daily report at %s, next run %s", cfg.ReportTime, scheduler.Next(id).Format(time.RFC3339))
	case cfg.ReportInterval > 0:
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, report); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Println("Todo calendar bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
