package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
)

// FileStore keeps each record as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/polaris/radars/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "polaris", "radars")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store dir")
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Create(ctx context.Context, doc *document.Document) (*Record, error) {
	rec, err := newRecord(doc, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *FileStore) Put(ctx context.Context, id string, doc *document.Document) (*Record, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no document")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.read(id)
	if err != nil {
		return nil, err
	}
	rec.Document = doc
	rec.UpdatedAt = s.now()
	if err := s.write(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeStorage, err, "delete radar %s", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list radars")
	}
	var out []*Record
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || ValidateID(id) != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.read(id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.baseDir }

func (s *FileStore) read(id string) (*Record, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read radar %s", id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse radar %s", id)
	}
	return &rec, nil
}

func (s *FileStore) write(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal radar %s", rec.ID)
	}
	tmp, err := os.CreateTemp(s.baseDir, ".radar-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write radar %s", rec.ID)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "write radar %s", rec.ID)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write radar %s", rec.ID)
	}
	if err := os.Rename(tmp.Name(), s.recordPath(rec.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write radar %s", rec.ID)
	}
	return nil
}
