package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/config"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/security"
)

const minPasswordLength = 8

// UpdateProfileInput carries partial profile edits; nil fields are untouched.
// Whatsapp is the login identity and is not editable here.
type UpdateProfileInput struct {
	Name    *string
	Address *string
}

// ChangePasswordInput carries a credential rotation request.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// Service exposes customer account operations.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.Customer, error)
	ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error
}

type service struct {
	repo        CustomerRepository
	passwordCfg config.PasswordConfig
}

// NewService builds the customer service.
func NewService(repo CustomerRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.load(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.Customer, error) {
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		customer.Name = name
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating profile")
	}
	return customer, nil
}

// ChangePassword verifies the current credential before storing the new
// one. The mismatch message stays generic on purpose.
func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	customer, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, customer.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing password")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return customer, nil
}
