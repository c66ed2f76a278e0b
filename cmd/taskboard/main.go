package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "taskboard: ", log.LstdFlags)

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

	taskRepo := repository.NewTaskRepository(db, logger)
	activity := service.NewActivityLogger(cfg.ActivityLog, logger)
	flashes := service.NewFlashStore(cfg.FlashTTL)

	taskSvc := service.NewTaskService(taskRepo, activity, logger)
	querySvc := service.NewQueryService(taskRepo)

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, flashes.Sweep); err != nil {
		log.Fatalf("schedule flash sweep: %v", err)
	}
	if cfg.DailySummaryAt != "" {
		if _, err := scheduler.ScheduleDaily(cfg.DailySummaryAt, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			stats, err := querySvc.Statistics(jobCtx)
			if err != nil {
				logger.Printf("daily summary: %v", err)
				return
			}
			activity.Record("SUMMARY", fmt.Sprintf(
				"total=%d completed=%d pending=%d overdue=%d due_today=%d completion=%.1f%%",
				stats.Total, stats.Completed, stats.Pending, stats.Overdue,
				stats.DueToday, stats.CompletionPercentage),
				service.Origin{IP: "scheduler", UserAgent: "scheduler"})
		}); err != nil {
			log.Fatalf("schedule daily summary: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: web.NewServer(web.Options{
			Tasks:   taskSvc,
			Queries: querySvc,
			Flashes: flashes,
			Logger:  logger,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Taskboard listening on %s.", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
