package todos

import (
	"context"
	"strings"
	"time"

	"github.com/halcyonlabs/punchlist/internal/apperr"
	"github.com/halcyonlabs/punchlist/internal/records"
	"github.com/halcyonlabs/punchlist/internal/storage"
	"go.uber.org/zap"
)

// ServiceConfig describes the dependencies of the todo service.
type ServiceConfig struct {
	Collection *storage.Collection[Todo]
	Clock      func() time.Time
	IDProvider records.IDProvider
	Logger     *zap.Logger
}

// Service exposes ownership-scoped CRUD over todo records.
type Service struct {
	engine *records.Engine[Todo]
}

// NewService constructs the todo service over its backing collection.
func NewService(cfg ServiceConfig) (*Service, error) {
	engine, err := records.NewEngine(records.EngineConfig[Todo]{
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

// CreateRequest carries the client payload for creating a todo.
type CreateRequest struct {
	Title       records.OptionalString `json:"title"`
	Description records.OptionalString `json:"description"`
	DueDate     records.OptionalString `json:"dueDate"`
	Priority    records.OptionalString `json:"priority"`
}

// UpdateRequest carries a merge-on-provided update payload: only fields
// present in the request overwrite stored values. ID, owner, and creation
// time are not representable here and can never be overwritten.
type UpdateRequest struct {
	Title       records.OptionalString `json:"title"`
	Description records.OptionalString `json:"description"`
	DueDate     records.OptionalString `json:"dueDate"`
	Priority    records.OptionalString `json:"priority"`
	IsCompleted records.OptionalBool   `json:"isCompleted"`
}

// PatchRequest carries the allow-listed partial-update payload.
type PatchRequest struct {
	IsCompleted records.OptionalBool   `json:"isCompleted"`
	DueDate     records.OptionalString `json:"dueDate"`
	Priority    records.OptionalString `json:"priority"`
}

// List returns the principal's todos in insertion order.
func (s *Service) List(ctx context.Context, principal string) ([]Todo, error) {
	return s.engine.List(ctx, principal)
}

// Get returns the principal's todo by id.
func (s *Service) Get(ctx context.Context, principal, id string) (Todo, error) {
	return s.engine.Get(ctx, principal, id)
}

// Create validates the payload and appends a new todo owned by the principal.
// An unrecognized priority falls back to low rather than failing; only
// updates treat a bad priority as an error.
func (s *Service) Create(ctx context.Context, principal string, request CreateRequest) (Todo, error) {
	title, err := requireTitle(request.Title)
	if err != nil {
		return Todo{}, err
	}

	description := ""
	if request.Description.Present {
		if !request.Description.Valid || request.Description.Null {
			return Todo{}, apperr.NewValidation("description", "description must be a string")
		}
		description = request.Description.Value
	}

	dueDate, err := parseDueDate(request.DueDate)
	if err != nil {
		return Todo{}, err
	}

	priority := PriorityLow
	if request.Priority.Present && request.Priority.Valid && !request.Priority.Null {
		if parsed, ok := ParsePriority(request.Priority.Value); ok {
			priority = parsed
		}
	}

	return s.engine.Create(ctx, principal, func(id string, now time.Time) (Todo, error) {
		return Todo{
			ID:          id,
			OwnerID:     principal,
			Title:       title,
			Description: description,
			DueDate:     dueDate,
			Priority:    priority,
			IsCompleted: false,
			CreatedAt:   now,
		}, nil
	})
}

// Update merges the provided fields over the stored record. Fields absent
// from the payload keep their prior values.
func (s *Service) Update(ctx context.Context, principal, id string, request UpdateRequest) (Todo, error) {
	return s.engine.Mutate(ctx, principal, id, func(todo Todo, now time.Time) (Todo, error) {
		if request.Title.Present {
			title, err := requireTitle(request.Title)
			if err != nil {
				return Todo{}, err
			}
			todo.Title = title
		}
		if request.Description.Present {
			if !request.Description.Valid || request.Description.Null {
				return Todo{}, apperr.NewValidation("description", "description must be a string")
			}
			todo.Description = request.Description.Value
		}
		if request.DueDate.Present {
			dueDate, err := parseDueDate(request.DueDate)
			if err != nil {
				return Todo{}, err
			}
			todo.DueDate = dueDate
		}
		if request.Priority.Present {
			priority, err := requirePriority(request.Priority)
			if err != nil {
				return Todo{}, err
			}
			todo.Priority = priority
		}
		if request.IsCompleted.Present {
			if !request.IsCompleted.Valid {
				return Todo{}, apperr.NewValidation("isCompleted", "isCompleted must be a boolean")
			}
			todo.IsCompleted = request.IsCompleted.Value
		}
		return todo, nil
	})
}

// Patch applies the allow-listed fields all-or-nothing: if any provided field
// fails validation nothing is persisted. A payload providing none of the
// allowed fields is rejected; the completion flag must be an explicit boolean
// whenever it appears.
func (s *Service) Patch(ctx context.Context, principal, id string, request PatchRequest) (Todo, error) {
	return s.engine.Mutate(ctx, principal, id, func(todo Todo, now time.Time) (Todo, error) {
		if !request.IsCompleted.Present && !request.DueDate.Present && !request.Priority.Present {
			return Todo{}, apperr.NewValidation("isCompleted", "isCompleted must be a boolean")
		}
		if request.IsCompleted.Present {
			if !request.IsCompleted.Valid {
				return Todo{}, apperr.NewValidation("isCompleted", "isCompleted must be a boolean")
			}
			todo.IsCompleted = request.IsCompleted.Value
		}
		if request.DueDate.Present {
			dueDate, err := parseDueDate(request.DueDate)
			if err != nil {
				return Todo{}, err
			}
			todo.DueDate = dueDate
		}
		if request.Priority.Present {
			priority, err := requirePriority(request.Priority)
			if err != nil {
				return Todo{}, err
			}
			todo.Priority = priority
		}
		return todo, nil
	})
}

// Delete removes the principal's todo by id.
func (s *Service) Delete(ctx context.Context, principal, id string) error {
	return s.engine.Delete(ctx, principal, id)
}

func requireTitle(field records.OptionalString) (string, error) {
	if !field.Present || field.Null || !field.Valid {
		return "", apperr.NewValidation("title", "title is required")
	}
	trimmed := strings.TrimSpace(field.Value)
	if trimmed == "" {
		return "", apperr.NewValidation("title", "title must not be blank")
	}
	return trimmed, nil
}

func requirePriority(field records.OptionalString) (Priority, error) {
	if !field.Valid || field.Null {
		return "", apperr.NewValidation("priority", "priority must be one of low, medium, high")
	}
	priority, ok := ParsePriority(field.Value)
	if !ok {
		return "", apperr.NewValidation("priority", "priority must be one of low, medium, high")
	}
	return priority, nil
}

func parseDueDate(field records.OptionalString) (*string, error) {
	if !field.Present || field.Null {
		return nil, nil
	}
	if !field.Valid {
		return nil, apperr.NewValidation("dueDate", "dueDate must be a string or null")
	}
	value := field.Value
	return &value, nil
}
