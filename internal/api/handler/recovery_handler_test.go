package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/logintest/accounts-api/internal/core/domain"
	"github.com/logintest/accounts-api/internal/core/ports"
)

type stubRecoveryService struct {
	initiateFn func(ctx context.Context, email string) error
	verifyFn   func(ctx context.Context, email, code string) (string, error)
	completeFn func(ctx context.Context, in ports.CompleteRecoveryInput) error
}

func (s *stubRecoveryService) InitiateRecovery(ctx context.Context, email string) error {
	return s.initiateFn(ctx, email)
}

func (s *stubRecoveryService) VerifyRecoveryCode(ctx context.Context, email, code string) (string, error) {
	return s.verifyFn(ctx, email, code)
}

func (s *stubRecoveryService) CompletePasswordRecovery(ctx context.Context, in ports.CompleteRecoveryInput) error {
	return s.completeFn(ctx, in)
}

func pathContext(e *echo.Echo, target string, names, values []string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func TestRecoveryHandler_Recover_UnescapesEmail(t *testing.T) {
	e := newTestEcho()
	var got string
	stub := &stubRecoveryService{
		initiateFn: func(ctx context.Context, email string) error {
			got = email
			return nil
		},
	}

	c, rec := pathContext(e, "/auth/recover/a%40x.com", []string{"email"}, []string{"a%40x.com"})
	if err := NewRecoveryHandler(stub).Recover(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != "a@x.com" {
		t.Fatalf("expected unescaped email, got %q", got)
	}
}

func TestRecoveryHandler_Recover_MailFailure(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecoveryService{
		initiateFn: func(ctx context.Context, email string) error {
			return domain.ErrMailDelivery
		},
	}

	c, _ := pathContext(e, "/auth/recover/a@x.com", []string{"email"}, []string{"a@x.com"})
	if err := NewRecoveryHandler(stub).Recover(c); !errors.Is(err, domain.ErrMailDelivery) {
		t.Fatalf("expected ErrMailDelivery, got %v", err)
	}
}

func TestRecoveryHandler_VerifyCode(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecoveryService{
		verifyFn: func(ctx context.Context, email, code string) (string, error) {
			if email != "a@x.com" {
				t.Fatalf("unexpected email %q", email)
			}
			if code != "aB3xY9" {
				return "", domain.ErrRecoveryCodeMismatch
			}
			return "user-1", nil
		},
	}
	h := NewRecoveryHandler(stub)

	c, rec := pathContext(e, "/", []string{"email", "code"}, []string{"a@x.com", "aB3xY9"})
	if err := h.VerifyCode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["userId"] != "user-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = pathContext(e, "/", []string{"email", "code"}, []string{"a@x.com", "WRONG"})
	if err := h.VerifyCode(c); !errors.Is(err, domain.ErrRecoveryCodeMismatch) {
		t.Fatalf("expected ErrRecoveryCodeMismatch, got %v", err)
	}
}

func TestRecoveryHandler_VerifyCode_BadEscape(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecoveryService{
		verifyFn: func(ctx context.Context, email, code string) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}

	c, _ := pathContext(e, "/", []string{"email", "code"}, []string{"a%ZZx.com", "abc"})
	err := NewRecoveryHandler(stub).VerifyCode(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestRecoveryHandler_UpdatePasswordRecovery(t *testing.T) {
	e := newTestEcho()
	var got ports.CompleteRecoveryInput
	stub := &stubRecoveryService{
		completeFn: func(ctx context.Context, in ports.CompleteRecoveryInput) error {
			got = in
			return nil
		},
	}

	c, rec := jsonRequest(e, http.MethodPut, "/auth/update-password-recovery",
		`{"email":"a@x.com","code":"aB3xY9","password":"new","confirmation":"new"}`)
	if err := NewRecoveryHandler(stub).UpdatePasswordRecovery(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Email != "a@x.com" || got.Code != "aB3xY9" || got.Password != "new" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestRecoveryHandler_UpdatePasswordRecovery_Mismatch(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecoveryService{
		completeFn: func(ctx context.Context, in ports.CompleteRecoveryInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}

	c, _ := jsonRequest(e, http.MethodPut, "/auth/update-password-recovery",
		`{"email":"a@x.com","code":"aB3xY9","password":"new","confirmation":"old"}`)
	if err := NewRecoveryHandler(stub).UpdatePasswordRecovery(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
