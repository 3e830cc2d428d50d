package ports

import (
	"context"
	"time"

	"github.com/logintest/accounts-api/internal/core/domain"
)

// UpdateUserInput holds the optional profile fields of PUT /users/:id.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Phone      *string
	BirthDate  *time.Time
	Role       *string
	AccessList *[]string
}

// UserService defines the authenticated CRUD operations on accounts.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
