package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func testRecord(id string, age time.Duration) *Record {
	return &Record{
		ID:        id,
		CreatedAt: time.Now().UTC().Add(-age),
		Target:    "star",
		Width:     12,
		Height:    12,
		Points:    5,
		Backend:   "vector",
		Strategy:  "uniform",
		Solution:  "6,1 3,11 11,5 1,5 9,11",
		Score:     0,
		Trials:    17,
		Steps:     412,
		Evals:     16981,
		Elapsed:   220 * time.Millisecond,
	}
}

const (
	idA = "aaaaaaaa-1111-2222-3333-444444444444"
	idB = "bbbbbbbb-1111-2222-3333-444444444444"
	idC = "cccccccc-1111-2222-3333-444444444444"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	want := testRecord(idA, 0)
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, idA)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != want.ID || got.Solution != want.Solution || got.Trials != want.Trials {
		t.Errorf("round trip mismatch: %+v vs %+v", got, want)
	}

	p, err := got.Polygon()
	if err != nil {
		t.Fatalf("Polygon: %v", err)
	}
	if len(p) != 5 {
		t.Errorf("parsed solution has %d vertices, want 5", len(p))
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), idA)
	if !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Fatalf("expected ErrCodeRunNotFound, got %v", err)
	}
}

func TestFileStoreRejectsBadID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	bad := []string{"", "../../etc/passwd", "latest", "AAAAAAAA-1111-2222-3333-444444444444"}
	for _, id := range bad {
		if _, err := store.Get(ctx, id); err == nil {
			t.Errorf("Get(%q) accepted an invalid id", id)
		}
		if err := store.Save(ctx, testRecord(id, 0)); err == nil {
			t.Errorf("Save(%q) accepted an invalid id", id)
		}
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for id, age := range map[string]time.Duration{
		idA: 3 * time.Hour,
		idB: time.Hour,
		idC: 2 * time.Hour,
	} {
		if err := store.Save(ctx, testRecord(id, age)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List returned %d records, want 3", len(records))
	}
	if records[0].ID != idB || records[1].ID != idC || records[2].ID != idA {
		t.Errorf("order = %s, %s, %s; want newest first", records[0].ID, records[1].ID, records[2].ID)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != idB {
		t.Errorf("Latest = %s, want %s", latest.ID, idB)
	}
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, testRecord(idA, 0)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Path(), "notes.txt"), []byte("hi"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.Path(), "broken.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List returned %d records, want 1", len(records))
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, testRecord(idA, 0)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, idA); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, idA); !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Errorf("record still present after delete: %v", err)
	}

	// Deleting again is fine.
	if err := store.Delete(ctx, idA); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileStorePrune(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for id, age := range map[string]time.Duration{
		idA: 3 * time.Hour,
		idB: time.Hour,
		idC: 2 * time.Hour,
	} {
		if err := store.Save(ctx, testRecord(id, age)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	removed, err := store.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune removed %d, want 2", removed)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].ID != idB {
		t.Errorf("prune kept the wrong records: %+v", records)
	}

	if _, err := store.Prune(ctx, -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative keep: %v", err)
	}
}

func TestFileStoreDefaultDirUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	store, err := NewFileStore("")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	want := filepath.Join(dir, "shapefit", "runs")
	if store.Path() != want {
		t.Errorf("Path = %s, want %s", store.Path(), want)
	}
}
