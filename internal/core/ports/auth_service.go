package ports

import (
	"context"
	"time"

	"github.com/logintest/accounts-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	BirthDate    time.Time
	Role         string
	AccessList   []string
	Password     string
	Confirmation string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns a signed bearer token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
