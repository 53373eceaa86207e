package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/halcyonlabs/punchlist/internal/apperr"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Collection persists one record type as a single JSON array document that is
// rewritten wholesale on every mutation. A missing backing file reads as an
// empty collection; so does an unparseable one, after a warn-level log entry.
//
// Every mutation runs as one load-mutate-save sequence behind the collection
// mutex, so writers to the same document are serialized within the process.
type Collection[T any] struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewCollection binds a collection to the document at path on the given filesystem.
func NewCollection[T any](filesystem afero.Fs, path string, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{
		fs:     filesystem,
		path:   path,
		logger: logger,
	}
}

// Load reads the full collection, preserving document order.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Update runs one load-mutate-save sequence under the collection lock. The
// mutator receives the current records and returns the full replacement set.
func (c *Collection[T]) Update(mutate func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load()
	if err != nil {
		return err
	}
	mutated, err := mutate(records)
	if err != nil {
		return err
	}
	return c.save(mutated)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := afero.ReadFile(c.fs, c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperr.ErrStorage, c.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("collection document unparseable, treating as empty",
			zap.String("path", c.path),
			zap.Error(err))
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperr.ErrStorage, c.path, err)
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir for %s: %v", apperr.ErrStorage, c.path, err)
	}
	if err := afero.WriteFile(c.fs, c.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", apperr.ErrStorage, c.path, err)
	}
	return nil
}
