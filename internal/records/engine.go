package records

import (
	"context"
	"errors"
	"time"

	"github.com/halcyonlabs/punchlist/internal/apperr"
	"github.com/halcyonlabs/punchlist/internal/storage"
	"go.uber.org/zap"
)

var (
	errMissingCollection = errors.New("record collection is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// Record is any persisted entity carrying an identifier and an owning principal.
type Record interface {
	RecordID() string
	RecordOwner() string
}

// IDProvider issues fresh unique identifiers for created records.
type IDProvider interface {
	NewID() (string, error)
}

// EngineConfig describes the dependencies of an Engine.
type EngineConfig[T Record] struct {
	Collection *storage.Collection[T]
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Engine applies ownership-scoped CRUD semantics over one record collection.
// It is stateless: every operation is a self-contained load-mutate-save pass
// against the backing document. Every lookup filters by the owning principal
// before matching the identifier, so a record owned by another principal is
// indistinguishable from a record that does not exist.
type Engine[T Record] struct {
	collection *storage.Collection[T]
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewEngine constructs an Engine over the provided collection.
func NewEngine[T Record](cfg EngineConfig[T]) (*Engine[T], error) {
	if cfg.Collection == nil {
		return nil, errMissingCollection
	}
	if cfg.IDProvider == nil {
		return nil, errMissingIDProvider
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Engine[T]{
		collection: cfg.Collection,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// List returns the principal's records in their original relative order.
func (e *Engine[T]) List(ctx context.Context, principal string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := e.collection.Load()
	if err != nil {
		e.logError("records.list", err, principal, "")
		return nil, err
	}
	owned := make([]T, 0, len(all))
	for _, record := range all {
		if record.RecordOwner() == principal {
			owned = append(owned, record)
		}
	}
	return owned, nil
}

// Get locates the principal's record by id. Absence and ownership mismatch
// both surface as apperr.ErrNotFound.
func (e *Engine[T]) Get(ctx context.Context, principal, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	all, err := e.collection.Load()
	if err != nil {
		e.logError("records.get", err, principal, id)
		return zero, err
	}
	for _, record := range all {
		if record.RecordOwner() == principal && record.RecordID() == id {
			return record, nil
		}
	}
	return zero, apperr.ErrNotFound
}

// Create builds a record via the supplied constructor, assigns it a fresh
// identifier and creation time, and appends it to the collection.
func (e *Engine[T]) Create(ctx context.Context, principal string, build func(id string, now time.Time) (T, error)) (T, error) {
	var created T
	if err := ctx.Err(); err != nil {
		return created, err
	}
	id, err := e.idProvider.NewID()
	if err != nil {
		e.logError("records.create", err, principal, "")
		return created, err
	}
	err = e.collection.Update(func(all []T) ([]T, error) {
		record, buildErr := build(id, e.clock().UTC())
		if buildErr != nil {
			return nil, buildErr
		}
		created = record
		return append(all, created), nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrStorage) {
			e.logError("records.create", err, principal, id)
		}
		return created, err
	}
	return created, nil
}

// Mutate locates the principal's record by id and replaces it with the result
// of apply. The mutated record keeps its position in the collection. If apply
// fails nothing is persisted.
func (e *Engine[T]) Mutate(ctx context.Context, principal, id string, apply func(record T, now time.Time) (T, error)) (T, error) {
	var updated T
	if err := ctx.Err(); err != nil {
		return updated, err
	}
	err := e.collection.Update(func(all []T) ([]T, error) {
		index := e.locate(all, principal, id)
		if index < 0 {
			return nil, apperr.ErrNotFound
		}
		mutated, err := apply(all[index], e.clock().UTC())
		if err != nil {
			return nil, err
		}
		all[index] = mutated
		updated = mutated
		return all, nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrStorage) {
			e.logError("records.mutate", err, principal, id)
		}
		return updated, err
	}
	return updated, nil
}

// Delete removes the principal's record by id, keeping the remaining records
// in order. Deleting an absent or foreign record yields apperr.ErrNotFound.
func (e *Engine[T]) Delete(ctx context.Context, principal, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.collection.Update(func(all []T) ([]T, error) {
		index := e.locate(all, principal, id)
		if index < 0 {
			return nil, apperr.ErrNotFound
		}
		remaining := make([]T, 0, len(all)-1)
		for _, record := range all {
			if record.RecordOwner() == principal && record.RecordID() == id {
				continue
			}
			remaining = append(remaining, record)
		}
		return remaining, nil
	})
	if err != nil && errors.Is(err, apperr.ErrStorage) {
		e.logError("records.delete", err, principal, id)
	}
	return err
}

func (e *Engine[T]) locate(all []T, principal, id string) int {
	for index, record := range all {
		if record.RecordOwner() == principal && record.RecordID() == id {
			return index
		}
	}
	return -1
}

func (e *Engine[T]) logError(operation string, err error, principal, id string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Error(err),
	}
	if principal != "" {
		fields = append(fields, zap.String("owner_id", principal))
	}
	if id != "" {
		fields = append(fields, zap.String("record_id", id))
	}
	e.logger.Error("record engine error", fields...)
}
