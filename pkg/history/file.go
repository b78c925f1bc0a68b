package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
)

// FileStore keeps one JSON file per run under a data directory. A process
// level RWMutex serializes writers; the API server shares one store across
// handlers.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed run store. An empty baseDir defaults
// to $XDG_DATA_HOME/shapefit/runs, falling back to ~/.local/share.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolving home directory")
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		baseDir = filepath.Join(dataHome, "shapefit", "runs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating run directory")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the directory records are stored in.
func (s *FileStore) Path() string { return s.baseDir }

// recordPath validates the ID before building a path: run IDs become file
// names, so anything that fails validation never touches the filesystem.
func (s *FileStore) recordPath(id string) (string, error) {
	if err := errors.ValidateRunID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil record")
	}
	path, err := s.recordPath(rec.ID)
	if err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding run %s", rec.ID)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing run %s", rec.ID)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.recordPath(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading run %s", id)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parsing run %s", id)
	}
	return &rec, nil
}

func (s *FileStore) List(ctx context.Context) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading run directory")
	}

	records := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			// Foreign or corrupt files in the data dir are skipped, not fatal.
			continue
		}
		records = append(records, &rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.recordPath(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "removing run %s", id)
	}
	return nil
}

func (s *FileStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "keep must be >= 0, got %d", keep)
	}
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) <= keep {
		return 0, nil
	}

	removed := 0
	for _, rec := range records[keep:] {
		if err := s.Delete(ctx, rec.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Latest returns the most recent record, or an ErrCodeRunNotFound error
// when the store is empty.
func (s *FileStore) Latest(ctx context.Context) (*Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeRunNotFound, "no runs recorded yet")
	}
	return records[0], nil
}

var _ Store = (*FileStore)(nil)
