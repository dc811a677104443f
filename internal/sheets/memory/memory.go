// Package memory is an in-process sheets.Exporter for tests and for
// running the worker without Google credentials.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/sheets"
)

type Exporter struct {
	mu   sync.Mutex
	rows []sheets.Row
}

var _ sheets.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Upsert(_ context.Context, row sheets.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(row.ID); i >= 0 {
		e.rows[i] = row
		return nil
	}
	e.rows = append(e.rows, row)
	return nil
}

func (e *Exporter) Remove(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(id); i >= 0 {
		e.rows = append(e.rows[:i], e.rows[i+1:]...)
	}
	return nil
}

func (e *Exporter) ReplaceAll(_ context.Context, rows []sheets.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append([]sheets.Row(nil), rows...)
	return nil
}

// Rows returns a copy of the current sheet contents.
func (e *Exporter) Rows() []sheets.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sheets.Row(nil), e.rows...)
}

func (e *Exporter) indexOf(id string) int {
	for i, r := range e.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
