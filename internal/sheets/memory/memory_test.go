package memory

import (
	"context"
	"testing"

	"fintrack/internal/sheets"
)

func TestExporter_UpsertRemove(t *testing.T) {
	ctx := context.Background()
	e := New()

	_ = e.Upsert(ctx, sheets.Row{ID: "a", Amount: "-1.00"})
	_ = e.Upsert(ctx, sheets.Row{ID: "b", Amount: "2.00"})
	_ = e.Upsert(ctx, sheets.Row{ID: "a", Amount: "-3.00"})

	rows := e.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "a" || rows[0].Amount != "-3.00" {
		t.Errorf("upsert should replace in place, got %+v", rows[0])
	}

	if err := e.Remove(ctx, "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := e.Remove(ctx, "missing"); err != nil {
		t.Fatalf("Remove of a missing id should succeed: %v", err)
	}
	if rows := e.Rows(); len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("unexpected rows after remove: %+v", rows)
	}
}

func TestExporter_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	e := New()
	_ = e.Upsert(ctx, sheets.Row{ID: "stale"})

	in := []sheets.Row{{ID: "x"}, {ID: "y"}}
	if err := e.ReplaceAll(ctx, in); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	in[0].ID = "mutated"

	rows := e.Rows()
	if len(rows) != 2 || rows[0].ID != "x" || rows[1].ID != "y" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
