// Package backend picks the spreadsheet exporter the worker writes to.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/sheets/memory"
)

type Type string

const (
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	return t == SheetsBackend || t == MemoryBackend
}

type Config struct {
	Type   Type
	Sheets gsheet.Config
}

// FromAppConfig selects Google Sheets when a spreadsheet and credentials
// are configured and the in-memory exporter otherwise.
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	if !cfg.SheetsEnabled() {
		return Config{Type: MemoryBackend}, nil
	}
	return Config{
		Type: SheetsBackend,
		Sheets: gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		},
	}, nil
}

func NewExporter(ctx context.Context, cfg Config, logger *log.Logger) (sheets.Exporter, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentSheets)

	switch cfg.Type {
	case SheetsBackend:
		client, err := gsheet.New(ctx, cfg.Sheets)
		if err != nil {
			return nil, fmt.Errorf("create sheets exporter: %w", err)
		}
		logger.InfoContext(ctx, "Google Sheets exporter ready",
			"spreadsheet_id", cfg.Sheets.SpreadsheetID,
			"backend", cfg.Type.String())
		return client, nil
	case MemoryBackend:
		logger.WarnContext(ctx, "Google Sheets not configured, exporting to memory",
			"backend", cfg.Type.String())
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("invalid exporter backend: %q", cfg.Type)
	}
}
