package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/logintest/accounts-api/internal/core/domain"
	"github.com/logintest/accounts-api/internal/core/ports"
	"github.com/logintest/accounts-api/internal/pkg/metrics"
	"github.com/logintest/accounts-api/internal/pkg/redact"
)

const (
	stepInitiate = "initiate"
	stepVerify   = "verify"
	stepComplete = "complete"
)

// RecoveryConfig tunes the recovery-code lifecycle. A zero CodeTTL disables
// expiry: codes then live until overwritten or consumed.
type RecoveryConfig struct {
	CodeLength int
	CodeTTL    time.Duration
	BcryptCost int
}

// RecoveryService implements ports.RecoveryService.
type RecoveryService struct {
	repo   ports.UserRepository
	mailer ports.RecoveryMailer
	creds  ports.CredentialCache
	cfg    RecoveryConfig
	log    zerolog.Logger
	now    func() time.Time
}

// NewRecoveryService wires the recovery flow. creds may be nil when token
// revocation is disabled.
func NewRecoveryService(
	repo ports.UserRepository,
	mailer ports.RecoveryMailer,
	creds ports.CredentialCache,
	cfg RecoveryConfig,
	log zerolog.Logger,
) *RecoveryService {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if cfg.CodeTTL < 0 {
		cfg.CodeTTL = 0
	}
	cfg.BcryptCost = passwordCost(cfg.BcryptCost)

	return &RecoveryService{
		repo:   repo,
		mailer: mailer,
		creds:  creds,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// InitiateRecovery stores a fresh code on the account (replacing any pending
// one) and emails it to the account owner.
func (s *RecoveryService) InitiateRecovery(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		s.count(stepInitiate, "invalid")
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	code, err := GenerateCode(s.cfg.CodeLength)
	if err != nil {
		s.count(stepInitiate, "error")
		return fmt.Errorf("initiate recovery: %w", err)
	}

	now := s.now().UTC()
	rc := domain.RecoveryCode{Code: code, IssuedAt: now}
	if s.cfg.CodeTTL > 0 {
		rc.ExpiresAt = now.Add(s.cfg.CodeTTL)
	}

	if err := s.repo.SetRecoveryCode(ctx, email, rc); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.count(stepInitiate, "not_found")
			return err
		}
		s.count(stepInitiate, "error")
		return fmt.Errorf("initiate recovery: %w", err)
	}

	start := time.Now()
	err = s.mailer.SendRecoveryCode(ctx, email, code, s.cfg.CodeTTL)
	metrics.MailDispatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MailDispatchTotal.WithLabelValues(metrics.ResultFailure).Inc()
		s.count(stepInitiate, "error")
		s.log.Error().Err(err).Str("email", redact.Email(email)).Msg("recovery email not sent")
		return fmt.Errorf("initiate recovery: %w: %w", domain.ErrMailDelivery, err)
	}
	metrics.MailDispatchTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	s.count(stepInitiate, metrics.ResultSuccess)
	s.log.Info().Str("email", redact.Email(email)).Msg("recovery code issued")
	return nil
}

// VerifyRecoveryCode checks code against the pending one without consuming it.
func (s *RecoveryService) VerifyRecoveryCode(ctx context.Context, email, code string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.count(stepVerify, "not_found")
			return "", err
		}
		s.count(stepVerify, "error")
		return "", fmt.Errorf("verify recovery code: %w", err)
	}

	if err := s.matchCode(user, code); err != nil {
		s.count(stepVerify, resultFor(err))
		return "", err
	}

	s.count(stepVerify, metrics.ResultSuccess)
	return user.ID, nil
}

// CompletePasswordRecovery replaces the password and consumes the code.
// Tokens issued before the change stop being accepted by the access gate.
func (s *RecoveryService) CompletePasswordRecovery(ctx context.Context, in ports.CompleteRecoveryInput) error {
	if err := checkConfirmation(in.Password, in.Confirmation); err != nil {
		s.count(stepComplete, "invalid")
		return err
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.count(stepComplete, "not_found")
			return err
		}
		s.count(stepComplete, "error")
		return fmt.Errorf("complete recovery: %w", err)
	}

	if err := s.matchCode(user, in.Code); err != nil {
		s.count(stepComplete, resultFor(err))
		return err
	}

	hash, err := hashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		s.count(stepComplete, "invalid")
		return err
	}

	version, err := s.repo.CompleteRecovery(ctx, user.ID, in.Code, hash, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrRecoveryCodeMismatch) {
			s.count(stepComplete, "mismatch")
			return err
		}
		s.count(stepComplete, "error")
		return fmt.Errorf("complete recovery: %w", err)
	}

	s.refreshCredentialVersion(ctx, user.ID, version)

	s.count(stepComplete, metrics.ResultSuccess)
	s.log.Info().Str("user_id", user.ID).Int64("credential_version", version).Msg("password recovered")
	return nil
}

func (s *RecoveryService) matchCode(user *domain.User, code string) error {
	if user.Recovery == nil || code == "" ||
		subtle.ConstantTimeCompare([]byte(user.Recovery.Code), []byte(code)) != 1 {
		return domain.ErrRecoveryCodeMismatch
	}
	if user.Recovery.Expired(s.now()) {
		return domain.ErrRecoveryCodeExpired
	}
	return nil
}

// refreshCredentialVersion pushes the new version to the cache. If that
// fails the entry is dropped so the gate falls back to the database.
func (s *RecoveryService) refreshCredentialVersion(ctx context.Context, userID string, version int64) {
	if s.creds == nil {
		return
	}
	if err := s.creds.Set(ctx, userID, version); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache credential version")
		if delErr := s.creds.Delete(ctx, userID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", userID).Msg("stale credential version left in cache")
		}
	}
}

func (s *RecoveryService) count(step, result string) {
	metrics.RecoveryStepsTotal.WithLabelValues(step, result).Inc()
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrRecoveryCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrRecoveryCodeMismatch):
		return "mismatch"
	default:
		return "error"
	}
}
