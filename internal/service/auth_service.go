package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/logging"
	"storefront/internal/mail"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// LoginResult is returned by a successful login. The caller sets Token as
// the session cookie.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Session   *auth.Session
}

// AuthService handles signup, email verification and login.
type AuthService interface {
	Signup(ctx context.Context, email, name, password string) error
	ResendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	userRepo repository.UserRepository
	mailer   mail.Mailer
	sessions *auth.SessionManager
	attempts auth.AttemptStoreInterface
	codeTTL  time.Duration
	log      logging.Logger

	newCode auth.CodeGenerator
	now     func() time.Time
}

// NewAuthService creates a new authentication service. codeTTL bounds how
// long a verification code is accepted; zero disables expiry.
func NewAuthService(
	userRepo repository.UserRepository,
	mailer mail.Mailer,
	sessions *auth.SessionManager,
	attempts auth.AttemptStoreInterface,
	codeTTL time.Duration,
	log logging.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		mailer:   mailer,
		sessions: sessions,
		attempts: attempts,
		codeTTL:  codeTTL,
		log:      log.With("component", "auth"),
		newCode:  auth.NewVerificationCode,
		now:      time.Now,
	}
}

// Signup creates an unverified user and emails a verification code. Signing
// up again before verifying replaces the pending code and resends it.
func (s *authService) Signup(ctx context.Context, email, name, password string) error {
	email = normalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check user existence: %w", err)
	}
	if existing != nil {
		if existing.Verified {
			return apperrors.ErrUserAlreadyExists
		}
		return s.reissueCode(ctx, existing, name)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	code, err := s.newCode()
	if err != nil {
		return err
	}
	issuedAt := s.now()

	user := &model.User{
		Email:            email,
		Name:             name,
		PasswordHash:     hash,
		VerificationCode: &code,
		CodeIssuedAt:     &issuedAt,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent signup for the same email won the insert.
			return apperrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	s.log.Info(ctx, "user signed up", "user_id", user.ID)

	return s.deliverCode(ctx, user.Email, user.Name, code)
}

// ResendCode issues a fresh code to an unverified user.
func (s *authService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.Verified {
		return apperrors.ErrUserAlreadyExists
	}
	return s.reissueCode(ctx, user, user.Name)
}

// reissueCode replaces the pending code and mails it, greeting the user as name.
func (s *authService) reissueCode(ctx context.Context, user *model.User, name string) error {
	code, err := s.newCode()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetVerificationCode(ctx, user.Email, code, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Verified between the lookup and the update.
			return apperrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("store verification code: %w", err)
	}
	s.log.Info(ctx, "verification code reissued", "user_id", user.ID)

	return s.deliverCode(ctx, user.Email, name, code)
}

func (s *authService) deliverCode(ctx context.Context, email, name, code string) error {
	msg, err := mail.VerificationMessage(name, code)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, email, msg); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrMailDelivery, err)
	}
	return nil
}

// VerifyCode marks the user verified when code equals the stored code.
// A mismatch leaves the user untouched.
func (s *authService) VerifyCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	locked, err := s.attempts.Locked(ctx, email)
	if err != nil {
		return fmt.Errorf("check verification attempts: %w", err)
	}
	if locked {
		return apperrors.ErrTooManyAttempts
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.HasPendingCode() || *user.VerificationCode != code || user.CodeExpired(s.codeTTL, s.now()) {
		s.recordFailure(ctx, email)
		return apperrors.ErrInvalidCode
	}

	if err := s.userRepo.MarkVerified(ctx, email); err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	if err := s.attempts.Reset(ctx, email); err != nil {
		s.log.Warn(ctx, "reset verification attempts", "error", err)
	}
	s.log.Info(ctx, "user verified", "user_id", user.ID)
	return nil
}

func (s *authService) recordFailure(ctx context.Context, email string) {
	n, err := s.attempts.RecordFailure(ctx, email)
	if err != nil {
		s.log.Warn(ctx, "record verification failure", "error", err)
		return
	}
	s.log.Warn(ctx, "invalid verification code", "attempts", n)
}

// Login checks the verified flag and the password, then mints a session
// token. Unverified users are rejected before the password is checked.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Verified {
		return nil, apperrors.ErrUserNotVerified
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.sessions.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user logged in", "user_id", user.ID)

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Session: &auth.Session{
			UserID:    user.ID,
			Email:     user.Email,
			Name:      user.Name,
			ExpiresAt: expiresAt,
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
