package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pantrywatch.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSlotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, ok, err := db.GetSlot(ctx, SlotUnitPreference); err != nil || ok {
		t.Fatalf("expected missing slot, got ok=%v err=%v", ok, err)
	}

	if err := db.SetSlot(ctx, SlotUnitPreference, "imperial"); err != nil {
		t.Fatalf("SetSlot: %v", err)
	}
	got, ok, err := db.GetSlot(ctx, SlotUnitPreference)
	if err != nil || !ok {
		t.Fatalf("GetSlot: ok=%v err=%v", ok, err)
	}
	if got != "imperial" {
		t.Fatalf("expected imperial, got %q", got)
	}

	// Whole-value replace, not merge.
	if err := db.SetSlot(ctx, SlotUnitPreference, "metric"); err != nil {
		t.Fatalf("SetSlot: %v", err)
	}
	got, _, _ = db.GetSlot(ctx, SlotUnitPreference)
	if got != "metric" {
		t.Fatalf("expected metric after overwrite, got %q", got)
	}
}

func TestDeleteSlot(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.SetSlot(ctx, SlotNotifiedHistory, `{"a_2026-01-01":true}`); err != nil {
		t.Fatalf("SetSlot: %v", err)
	}
	if err := db.DeleteSlot(ctx, SlotNotifiedHistory); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}
	if _, ok, _ := db.GetSlot(ctx, SlotNotifiedHistory); ok {
		t.Fatal("slot still present after delete")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantrywatch.sqlite")
	ctx := context.Background()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.SetSlot(ctx, SlotUnitPreference, "imperial"); err != nil {
		t.Fatalf("SetSlot: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	got, ok, err := db2.GetSlot(ctx, SlotUnitPreference)
	if err != nil || !ok || got != "imperial" {
		t.Fatalf("expected imperial after reopen, got %q ok=%v err=%v", got, ok, err)
	}
}
