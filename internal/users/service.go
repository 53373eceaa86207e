package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halcyonlabs/punchlist/internal/apperr"
	"github.com/halcyonlabs/punchlist/internal/auth"
	"github.com/halcyonlabs/punchlist/internal/records"
	"github.com/halcyonlabs/punchlist/internal/storage"
	"go.uber.org/zap"
)

const minPasswordLength = 6

var (
	errMissingCollection = errors.New("users: credential collection is required")
	errMissingIDProvider = errors.New("users: id provider is required")

	// ErrUnknownEmail and ErrWrongPassword are distinct internally but both
	// unwrap to apperr.ErrUnauthenticated: callers surface the same external
	// failure class for either.
	ErrUnknownEmail  = fmt.Errorf("%w: no account found with this email", apperr.ErrUnauthenticated)
	ErrWrongPassword = fmt.Errorf("%w: incorrect password", apperr.ErrUnauthenticated)
)

// ServiceConfig describes the dependencies of the credential service.
type ServiceConfig struct {
	Collection *storage.Collection[Credential]
	Clock      func() time.Time
	IDProvider records.IDProvider
	Logger     *zap.Logger
}

// Service manages credential records: registration with duplicate-email
// detection and password verification at login. Email matching is exact and
// case-sensitive. The duplicate check is check-then-insert; the collection
// lock serializes it within the process.
type Service struct {
	collection *storage.Collection[Credential]
	clock      func() time.Time
	idProvider records.IDProvider
	logger     *zap.Logger
}

// NewService constructs the credential service.
func NewService(cfg ServiceConfig) (*Service, error) {
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
		logger = zap.NewNop()
	}
	return &Service{
		collection: cfg.Collection,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// Register validates the fields, hashes the password, and persists a new
// credential. A reused email yields apperr.ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, name, email, password string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	if name == "" {
		return Credential{}, apperr.NewValidation("name", "name is required")
	}
	if email == "" {
		return Credential{}, apperr.NewValidation("email", "email is required")
	}
	if password == "" {
		return Credential{}, apperr.NewValidation("password", "password is required")
	}
	if len(password) < minPasswordLength {
		return Credential{}, apperr.NewValidation("password", "password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return Credential{}, err
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		return Credential{}, err
	}

	created := Credential{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock().UTC(),
	}
	err = s.collection.Update(func(credentials []Credential) ([]Credential, error) {
		for _, existing := range credentials {
			if existing.Email == email {
				return nil, apperr.ErrDuplicateEmail
			}
		}
		return append(credentials, created), nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrStorage) {
			s.logger.Error("credential persistence failed", zap.Error(err))
		}
		return Credential{}, err
	}
	return created, nil
}

// Login verifies the password for the credential registered under email.
// Unknown email and wrong password are distinct errors sharing the
// unauthenticated class.
func (s *Service) Login(ctx context.Context, email, password string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	if email == "" {
		return Credential{}, apperr.NewValidation("email", "email is required")
	}
	if password == "" {
		return Credential{}, apperr.NewValidation("password", "password is required")
	}

	credential, err := s.FindByEmail(ctx, email)
	if err != nil {
		return Credential{}, err
	}
	if !auth.VerifyPassword(credential.PasswordHash, password) {
		return Credential{}, ErrWrongPassword
	}
	return credential, nil
}

// FindByEmail returns the credential with the exact email, or ErrUnknownEmail.
func (s *Service) FindByEmail(ctx context.Context, email string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	credentials, err := s.collection.Load()
	if err != nil {
		s.logger.Error("credential load failed", zap.Error(err))
		return Credential{}, err
	}
	for _, credential := range credentials {
		if credential.Email == email {
			return credential, nil
		}
	}
	return Credential{}, ErrUnknownEmail
}

// All returns every credential in insertion order. Internal use only; the
// transport never exposes it.
func (s *Service) All(ctx context.Context) ([]Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collection.Load()
}
