package main

import (
	"context"
	"errors"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)
	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "Worker cannot start", errors.New("AMQP_URL is required"), log.ErrorTypeConfiguration)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	store := cli.OpenStore(ctx, cfg, logger)
	defer store.Close()

	exporterCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid exporter configuration", err, log.ErrorTypeConfiguration)
	}
	exporter, err := backend.NewExporter(ctx, exporterCfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize exporter", err, log.ErrorTypeConfiguration)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err, log.ErrorTypeNetwork)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(store, exporter, logger)

	// catch up on anything missed while the worker was down
	if err := syncWorker.FullSync(ctx); err != nil {
		logger.Error("Startup sync failed", log.FieldError, err.Error(), log.FieldOperation, log.OpSync)
	}

	scheduler, err := syncWorker.Scheduler(ctx, cfg.SyncSchedule)
	if err != nil {
		cli.Fatal(logger, "Invalid sync schedule", err, log.ErrorTypeConfiguration)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	logger.Info("Consuming resource events", "queue", cfg.AMQPQueue, "schedule", cfg.SyncSchedule)
	if err := client.Run(ctx, syncWorker.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		return
	}
	logger.Info("Worker shutdown complete")
}
