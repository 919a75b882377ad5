package resources

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/readmeio/render-exporter/pkg/render"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestSQLiteStore_LoadEmpty verifies a fresh database reports no snapshot.
func TestSQLiteStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected no snapshot, got %+v", snap)
	}
}

// TestSQLiteStore_SaveAndLoad verifies the snapshot round-trips with kinds
// and refresh time intact.
func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	refreshedAt := time.Now().Truncate(time.Second)
	saved := &Snapshot{
		Services: []render.Resource{
			{ID: "srv-a", Name: "web", Kind: render.KindService},
			{ID: "srv-b", Name: "worker", Kind: render.KindService},
		},
		KeyValues: []render.Resource{
			{ID: "red-c", Name: "cache", Kind: render.KindKeyValue},
		},
		Databases: []render.Resource{
			{ID: "dpg-d", Name: "main-db", Kind: render.KindPostgres},
		},
		RefreshedAt: refreshedAt,
	}
	if err := store.Save(context.Background(), saved); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a snapshot")
	}
	if len(loaded.Services) != 2 || len(loaded.KeyValues) != 1 || len(loaded.Databases) != 1 {
		t.Errorf("unexpected counts: %d/%d/%d",
			len(loaded.Services), len(loaded.KeyValues), len(loaded.Databases))
	}
	if loaded.Services[0].Kind != render.KindService {
		t.Errorf("kind did not survive persistence: %q", loaded.Services[0].Kind)
	}
	if loaded.KeyValues[0].Name != "cache" {
		t.Errorf("unexpected name %q", loaded.KeyValues[0].Name)
	}
	if !loaded.RefreshedAt.Equal(refreshedAt) {
		t.Errorf("refresh time mismatch: got %v, want %v", loaded.RefreshedAt, refreshedAt)
	}
}

// TestSQLiteStore_SaveReplaces verifies the store holds exactly one snapshot.
func TestSQLiteStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)

	first := &Snapshot{
		Services:    []render.Resource{{ID: "srv-a", Name: "old", Kind: render.KindService}},
		RefreshedAt: time.Now().Add(-time.Hour),
	}
	second := &Snapshot{
		Services:    []render.Resource{{ID: "srv-b", Name: "new", Kind: render.KindService}},
		RefreshedAt: time.Now(),
	}
	if err := store.Save(context.Background(), first); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if err := store.Save(context.Background(), second); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(loaded.Services) != 1 || loaded.Services[0].ID != "srv-b" {
		t.Errorf("expected only the latest snapshot, got %+v", loaded.Services)
	}
}

// TestSQLiteStore_EmptyPath verifies the path is required.
func TestSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
