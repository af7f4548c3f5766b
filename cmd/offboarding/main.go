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

	"offboarding-dashboard/internal/bot"
	"offboarding-dashboard/internal/config"
	"offboarding-dashboard/internal/dashboard"
	router "offboarding-dashboard/internal/http"
	"offboarding-dashboard/internal/http/handlers"
	"offboarding-dashboard/internal/notify"
	"offboarding-dashboard/internal/repository"
	"offboarding-dashboard/internal/service"
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

	taskRepo := repository.NewTaskRepository(db)
	taskSvc := service.NewTaskService(taskRepo)
	reminderSvc := service.NewReminderService(taskRepo, service.LogSink{Logger: log.Default()}, cfg.NotificationTTL)

	var notices notify.Fanout

	var server *http.Server
	if cfg.HTTPAddr != "" {
		banner := notify.NewBanner()
		notices = append(notices, banner)
		session := dashboard.NewSession(taskSvc, reminderSvc, dashboard.WithBanner(banner))
		server = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router.New(handlers.New(session), log.Default()),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	var telegramBot *bot.Bot
	if cfg.TelegramToken != "" {
		telegramBot, err = bot.New(cfg.TelegramToken, taskSvc, reminderSvc)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		notices = append(notices, telegramBot.Notice())
	}

	scheduler := service.NewReminderScheduler(time.Local, func(ctx context.Context) error {
		_, err := reminderSvc.SendReminders(ctx, notices)
		return err
	})
	if cfg.ReminderInterval > 0 {
		if _, err := scheduler.Every(cfg.ReminderInterval); err != nil {
			log.Fatalf("schedule reminders: %v", err)
		}
	}
	if cfg.ReminderTime != "" {
		if _, err := scheduler.DailyAt(cfg.ReminderTime); err != nil {
			log.Fatalf("schedule daily reminders: %v", err)
		}
	}
	if scheduler.Jobs() > 0 {
		scheduler.Start()
		defer scheduler.Stop()
	}

	errCh := make(chan error, 2)
	if server != nil {
		go func() {
			log.Printf("[info] http listening on %s", cfg.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}
	if telegramBot != nil {
		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}

	log.Println("Offboarding dashboard started.")
	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Printf("stopped with error: %v", err)
		stop()
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}
	log.Println("Shutdown complete.")
}
