package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	store := cli.OpenStore(ctx, cfg, logger)
	defer store.Close()

	opts := services.Options{Logger: logger}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// the worker's scheduled sync repairs anything missed while publishing is off
			logger.Warn("AMQP unavailable, event publishing disabled",
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeNetwork)
		} else {
			defer client.Close()
			opts.Publisher = client
			logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange)
		}
	}

	settings := services.NewSettingsService(store, cfg.SettingsCacheTTL, opts)
	svc := apphttp.Services{
		Accounts:     services.NewAccountService(store, opts),
		Categories:   services.NewCategoryService(store, opts),
		Transactions: services.NewTransactionService(store, opts),
		Users:        services.NewUserService(store, cfg.BcryptCost, opts),
		Settings:     settings,
	}

	caches := cache.NewManager(logger)
	caches.Register(settings.Cache())
	caches.Start(time.Minute)
	defer caches.Stop()

	srv := apphttp.NewServer(cfg, svc, store, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			"database", store.Dialect().String(),
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error())
		return
	}
	logger.Info("Server stopped gracefully")
}
