// Package worker keeps the transactions spreadsheet in step with the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/sheets"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// TransactionSource reads projected transactions. *storage.Store satisfies it.
type TransactionSource interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (core.Transaction, error)
}

// SyncWorker applies resource events to the exporter as they arrive and
// rewrites the whole sheet on a schedule to repair anything missed.
type SyncWorker struct {
	source   TransactionSource
	exporter sheets.Exporter
	logger   *log.Logger

	// serializes exporter writes between the consumer and the scheduler
	mu sync.Mutex
}

func NewSyncWorker(source TransactionSource, exporter sheets.Exporter, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SyncWorker{
		source:   source,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent is an amqp.Handler. Renaming or deleting an account or
// category changes many rows, so those events trigger a full sync.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *amqp.Event) error {
	switch ev.Resource {
	case amqp.ResourceTransaction:
		return w.syncTransaction(ctx, ev)
	case amqp.ResourceAccount, amqp.ResourceCategory:
		if ev.Action == amqp.ActionCreated {
			return nil
		}
		return w.FullSync(ctx)
	default:
		return nil
	}
}

func (w *SyncWorker) syncTransaction(ctx context.Context, ev *amqp.Event) error {
	id, err := uuid.Parse(ev.ID)
	if err != nil {
		w.logger.WarnContext(ctx, "Ignoring event with invalid id", log.FieldResourceID, ev.ID)
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if ev.Action == amqp.ActionDeleted {
		return w.remove(ctx, id)
	}

	t, err := w.source.GetTransaction(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// deleted after the event was published
		return w.remove(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	if err := w.exporter.Upsert(ctx, sheets.RowFromTransaction(t)); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	w.logger.InfoContext(ctx, "Transaction exported",
		log.FieldResourceID, ev.ID,
		log.FieldAction, ev.Action)
	return nil
}

func (w *SyncWorker) remove(ctx context.Context, id uuid.UUID) error {
	if err := w.exporter.Remove(ctx, id.String()); err != nil {
		return fmt.Errorf("remove exported transaction: %w", err)
	}
	w.logger.InfoContext(ctx, "Transaction removed from sheet", log.FieldResourceID, id.String())
	return nil
}

// FullSync rewrites the sheet from every live transaction.
func (w *SyncWorker) FullSync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	txs, err := w.source.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	rows := make([]sheets.Row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, sheets.RowFromTransaction(t))
	}
	if err := w.exporter.ReplaceAll(ctx, rows); err != nil {
		return fmt.Errorf("replace sheet: %w", err)
	}

	w.logger.InfoContext(ctx, "Full sync completed",
		"rows", len(rows),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Scheduler returns a stopped cron that runs FullSync on schedule. Overlapping
// runs are skipped.
func (w *SyncWorker) Scheduler(ctx context.Context, schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		if err := w.FullSync(ctx); err != nil {
			w.logger.ErrorContext(ctx, "Scheduled full sync failed",
				log.FieldOperation, log.OpSync,
				log.FieldError, err.Error())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parse sync schedule %q: %w", schedule, err)
	}
	return c, nil
}
