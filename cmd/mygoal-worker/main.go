package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"mygoal/internal/cli"
	"mygoal/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting mygoal-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	ledger := services.NewLedgerService(repo, amqpClient)
	processor := services.NewMonthlyCostProcessor(repo, ledger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up on start so a worker restarted mid-month still books the
	// current month, then follow the schedule.
	runOnce(ctx, logger, processor)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.MonthlyCostSchedule, func() {
		runOnce(context.Background(), logger, processor)
	}); err != nil {
		logger.Error("Failed to schedule monthly cost run", "error", err, "schedule", cfg.MonthlyCostSchedule)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Monthly cost schedule active", "schedule", cfg.MonthlyCostSchedule)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("Timed out waiting for running jobs")
	}
	logger.Info("Worker stopped gracefully")
}

func runOnce(ctx context.Context, logger *slog.Logger, processor *services.MonthlyCostProcessor) {
	booked, err := processor.ProcessMonthlyCost(ctx, time.Now())
	if err != nil {
		logger.Error("Monthly cost processing failed", "error", err)
		return
	}
	if booked {
		logger.Info("Monthly cost booked for current month")
	}
}
