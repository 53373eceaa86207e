package notes

import (
	"context"
	"time"

	"github.com/halcyonlabs/punchlist/internal/apperr"
	"github.com/halcyonlabs/punchlist/internal/records"
	"github.com/halcyonlabs/punchlist/internal/storage"
	"go.uber.org/zap"
)

// ServiceConfig describes the dependencies of the note service.
type ServiceConfig struct {
	Collection *storage.Collection[Note]
	Clock      func() time.Time
	IDProvider records.IDProvider
	Logger     *zap.Logger
}

// Service exposes ownership-scoped CRUD over note records.
type Service struct {
	engine *records.Engine[Note]
}

// NewService constructs the note service over its backing collection.
func NewService(cfg ServiceConfig) (*Service, error) {
	engine, err := records.NewEngine(records.EngineConfig[Note]{
		Collection: cfg.Collection,
		Clock:      cfg.Clock,
		IDProvider: cfg.IDProvider,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Service{engine: engine}, nil
}

// CreateRequest carries the client payload for creating a note. Content is
// accepted as-is, empty included.
type CreateRequest struct {
	Title        records.OptionalString `json:"title"`
	Content      records.OptionalString `json:"content"`
	LinkedTaskID records.OptionalString `json:"linkedTaskId"`
}

// UpdateRequest carries a merge-on-provided update payload for a note.
type UpdateRequest struct {
	Title        records.OptionalString `json:"title"`
	Content      records.OptionalString `json:"content"`
	LinkedTaskID records.OptionalString `json:"linkedTaskId"`
}

// List returns the principal's notes in insertion order.
func (s *Service) List(ctx context.Context, principal string) ([]Note, error) {
	return s.engine.List(ctx, principal)
}

// Get returns the principal's note by id.
func (s *Service) Get(ctx context.Context, principal, id string) (Note, error) {
	return s.engine.Get(ctx, principal, id)
}

// Create validates the payload and appends a new note owned by the principal.
func (s *Service) Create(ctx context.Context, principal string, request CreateRequest) (Note, error) {
	if !request.Title.Present || request.Title.Null || !request.Title.Valid || request.Title.Value == "" {
		return Note{}, apperr.NewValidation("title", "title is required")
	}

	content := ""
	if request.Content.Present {
		if !request.Content.Valid {
			return Note{}, apperr.NewValidation("content", "content must be a string")
		}
		if !request.Content.Null {
			content = request.Content.Value
		}
	}

	linkedTaskID, err := parseLinkedTaskID(request.LinkedTaskID)
	if err != nil {
		return Note{}, err
	}

	return s.engine.Create(ctx, principal, func(id string, now time.Time) (Note, error) {
		return Note{
			ID:           id,
			OwnerID:      principal,
			Title:        request.Title.Value,
			Content:      content,
			LinkedTaskID: linkedTaskID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}, nil
	})
}

// Update merges the provided fields over the stored note and bumps UpdatedAt.
// Fields absent from the payload keep their prior values.
func (s *Service) Update(ctx context.Context, principal, id string, request UpdateRequest) (Note, error) {
	return s.engine.Mutate(ctx, principal, id, func(note Note, now time.Time) (Note, error) {
		if request.Title.Present {
			if request.Title.Null || !request.Title.Valid || request.Title.Value == "" {
				return Note{}, apperr.NewValidation("title", "title must be a non-empty string")
			}
			note.Title = request.Title.Value
		}
		if request.Content.Present {
			if !request.Content.Valid {
				return Note{}, apperr.NewValidation("content", "content must be a string")
			}
			if request.Content.Null {
				note.Content = ""
			} else {
				note.Content = request.Content.Value
			}
		}
		if request.LinkedTaskID.Present {
			linkedTaskID, err := parseLinkedTaskID(request.LinkedTaskID)
			if err != nil {
				return Note{}, err
			}
			note.LinkedTaskID = linkedTaskID
		}
		note.UpdatedAt = now
		return note, nil
	})
}

// Delete removes the principal's note by id.
func (s *Service) Delete(ctx context.Context, principal, id string) error {
	return s.engine.Delete(ctx, principal, id)
}

func parseLinkedTaskID(field records.OptionalString) (*string, error) {
	if !field.Present || field.Null {
		return nil, nil
	}
	if !field.Valid {
		return nil, apperr.NewValidation("linkedTaskId", "linkedTaskId must be a string or null")
	}
	value := field.Value
	return &value, nil
}
