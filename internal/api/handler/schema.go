package handler

import (
	"time"

	"github.com/logintest/accounts-api/internal/core/domain"
)

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name         string   `json:"name"         validate:"required"`
	Email        string   `json:"email"        validate:"required,email"`
	Phone        string   `json:"phone"        validate:"required"`
	BirthDate    string   `json:"birthDate"    validate:"required,datetime=2006-01-02"`
	Role         string   `json:"role"         validate:"required"`
	AccessList   []string `json:"accessList"   validate:"required,min=1"`
	Password     string   `json:"password"     validate:"required"`
	Confirmation string   `json:"confirmation" validate:"required,eqfield=Password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

// --- Recovery ---

type verifyCodeResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type completeRecoveryRequest struct {
	Email        string `json:"email"        validate:"required"`
	Code         string `json:"code"         validate:"required"`
	Password     string `json:"password"     validate:"required"`
	Confirmation string `json:"confirmation" validate:"required,eqfield=Password"`
}

// --- Users ---

type userResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	BirthDate  string    `json:"birthDate"`
	Role       string    `json:"role"`
	AccessList []string  `json:"accessList"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
}

type getUserResponse struct {
	User userResponse `json:"user"`
}

// updateUserRequest carries a partial profile update. Absent fields are left
// unchanged; password and recovery fields are not accepted here.
type updateUserRequest struct {
	Name       *string   `json:"name"`
	Email      *string   `json:"email"      validate:"omitempty,email"`
	Phone      *string   `json:"phone"`
	BirthDate  *string   `json:"birthDate"  validate:"omitempty,datetime=2006-01-02"`
	Role       *string   `json:"role"`
	AccessList *[]string `json:"accessList"`
}

type updateUserResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		AccessList: u.AccessList,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if resp.AccessList == nil {
		resp.AccessList = []string{}
	}
	if !u.BirthDate.IsZero() {
		resp.BirthDate = u.BirthDate.Format(domain.BirthDateLayout)
	}
	return resp
}
