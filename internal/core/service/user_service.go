package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/logintest/accounts-api/internal/core/domain"
	"github.com/logintest/accounts-api/internal/core/ports"
)

// UserService implements the authenticated account CRUD.
type UserService struct {
	repo  ports.UserRepository
	creds ports.CredentialCache
	log   zerolog.Logger
}

// NewUserService returns a UserService. creds may be nil.
func NewUserService(repo ports.UserRepository, creds ports.CredentialCache, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, creds: creds, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies a partial profile update. Credentials are not reachable
// from here; they only change through the recovery flow.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	if patch.Email != nil {
		other, err := s.repo.FindByEmail(ctx, *patch.Email)
		switch {
		case err == nil && other.ID != id:
			return nil, domain.ErrUserExists
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", id).Msg("user updated")
	return user, nil
}

// Delete removes the account. Deleting an unknown id is not an error.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if s.creds != nil {
		if err := s.creds.Delete(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to evict credential version")
		}
	}

	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func buildPatch(in ports.UpdateUserInput) (domain.UserPatch, error) {
	var (
		patch   domain.UserPatch
		invalid []string
	)

	trimmed := func(field string, v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			invalid = append(invalid, field)
		}
		return &t
	}

	patch.Name = trimmed("name", in.Name)
	patch.Phone = trimmed("phone", in.Phone)
	patch.Role = trimmed("role", in.Role)
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			invalid = append(invalid, "email")
		}
		patch.Email = &email
	}
	if in.BirthDate != nil {
		if in.BirthDate.IsZero() {
			invalid = append(invalid, "birthDate")
		}
		bd := in.BirthDate.UTC()
		patch.BirthDate = &bd
	}
	if in.AccessList != nil {
		if len(*in.AccessList) == 0 {
			invalid = append(invalid, "accessList")
		}
		patch.AccessList = in.AccessList
	}

	if len(invalid) > 0 {
		return domain.UserPatch{}, fmt.Errorf("%w: %s cannot be empty", domain.ErrValidation, strings.Join(invalid, ", "))
	}
	return patch, nil
}
