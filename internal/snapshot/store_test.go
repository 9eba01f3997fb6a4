package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, Snapshot{
		Path:     "main.go",
		Strategy: "exact",
		Before:   "old\n",
		After:    "new\n",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Path != "main.go" || got.Strategy != "exact" {
		t.Errorf("got %q/%q, want main.go/exact", got.Path, got.Strategy)
	}
	if got.Before != "old\n" || got.After != "new\n" {
		t.Errorf("content round trip failed: %q -> %q", got.Before, got.After)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Get(context.Background(), "no-such-id"); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestListRecentNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.Record(ctx, Snapshot{
			Path:      "f.go",
			Strategy:  "exact",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	snaps, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if !snaps[0].CreatedAt.After(snaps[1].CreatedAt) {
		t.Errorf("expected newest first, got %v then %v", snaps[0].CreatedAt, snaps[1].CreatedAt)
	}
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, Snapshot{
			Path:      "f.go",
			Strategy:  "exact",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	removed, err := store.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed %d, want 3", removed)
	}

	snaps, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots after prune, want 2", len(snaps))
	}
	// The survivors are the two newest.
	if snaps[0].CreatedAt != base.Add(4*time.Minute) {
		t.Errorf("wrong survivor: %v", snaps[0].CreatedAt)
	}
}
