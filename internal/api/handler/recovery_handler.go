package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/logintest/accounts-api/internal/core/ports"
)

type RecoveryHandler struct {
	recoveryService ports.RecoveryService
}

func NewRecoveryHandler(recoveryService ports.RecoveryService) *RecoveryHandler {
	return &RecoveryHandler{recoveryService: recoveryService}
}

// Recover issues a recovery code and emails it to the account owner.
//
// @Summary      Start password recovery
// @Tags         recovery
// @Produce      json
// @Param        email  path      string  true  "Account email"
// @Success      200    {object}  messageResponse
// @Failure      404    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /auth/recover/{email} [get]
func (h *RecoveryHandler) Recover(c echo.Context) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}

	if err := h.recoveryService.InitiateRecovery(c.Request().Context(), email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "recovery email sent"})
}

// VerifyCode checks a recovery code without consuming it.
//
// @Summary      Verify a recovery code
// @Tags         recovery
// @Produce      json
// @Param        email  path      string  true  "Account email"
// @Param        code   path      string  true  "Recovery code"
// @Success      200    {object}  verifyCodeResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /auth/verify-code/{email}/{code} [get]
func (h *RecoveryHandler) VerifyCode(c echo.Context) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}
	code, err := pathParam(c, "code")
	if err != nil {
		return err
	}

	userID, err := h.recoveryService.VerifyRecoveryCode(c.Request().Context(), email, code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyCodeResponse{Message: "code verified", UserID: userID})
}

// UpdatePasswordRecovery sets a new password using a verified recovery code.
//
// @Summary      Complete password recovery
// @Tags         recovery
// @Accept       json
// @Produce      json
// @Param        body  body      completeRecoveryRequest  true  "Email, code and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/update-password-recovery [put]
func (h *RecoveryHandler) UpdatePasswordRecovery(c echo.Context) error {
	var req completeRecoveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.recoveryService.CompletePasswordRecovery(c.Request().Context(), ports.CompleteRecoveryInput{
		Email:        req.Email,
		Code:         req.Code,
		Password:     req.Password,
		Confirmation: req.Confirmation,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// pathParam returns the unescaped value of a path parameter.
func pathParam(c echo.Context, name string) (string, error) {
	v, err := url.PathUnescape(c.Param(name))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}
