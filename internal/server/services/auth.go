// Package services contains server-side business logic. AuthService owns
// registration, credential checks, token issuance and per-request identity
// resolution; TaskService implements owner-scoped task management.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenCodec issues and verifies access tokens. *auth.TokenCodec implements it.
type TokenCodec interface {
	Issue(subject string, issuedAt time.Time) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// AuthService holds no per-request state and is safe for concurrent use.
type AuthService struct {
	repomanager       repomanager.RepositoryManager
	hasher            cryptox.PasswordHasher
	tokens            TokenCodec
	logger            logging.Logger
	minPasswordLength int

	// dummyHash is verified against when the email is unknown so that login
	// latency does not reveal whether an account exists.
	dummyHash string

	now   func() time.Time
	newID func() (string, error)
}

// NewAuthService wires the service. Only cfg.MinPasswordLength is read from cfg.
func NewAuthService(m repomanager.RepositoryManager, hasher cryptox.PasswordHasher, tokens TokenCodec,
	cfg *config.Config, logger logging.Logger) (*AuthService, error) {

	filler, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummy, err := hasher.Hash(filler)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		repomanager:       m,
		hasher:            hasher,
		tokens:            tokens,
		logger:            logger.With("module", "auth_service"),
		minPasswordLength: cfg.MinPasswordLength,
		dummyHash:         dummy,
		now:               time.Now,
		newID:             newUUID,
	}, nil
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrorInternal, op, err)
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || utf8.RuneCountInString(email) > 255 {
		return fmt.Errorf("%w: %q is not a valid email address", common.ErrorValidation, email)
	}
	return nil
}

// Register creates an active account. The store's uniqueness constraint is
// authoritative; the lookup beforehand only avoids hashing for known emails.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.UserView, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < s.minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, s.minPasswordLength)
	}

	repo := s.repomanager.Users()

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: user with email %s", common.ErrorAlreadyExists, email)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internalError("lookup user", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, internalError("hash password", err)
	}

	id, err := s.newID()
	if err != nil {
		return nil, internalError("generate id", err)
	}

	user, err := repo.Create(ctx, &models.User{ID: id, Email: email, PasswordHash: hash, IsActive: true})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: user with email %s", common.ErrorAlreadyExists, email)
		}
		return nil, internalError("create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user.View(), nil
}

// Authenticate checks email and password. Unknown email, wrong password and
// inactive account all yield common.ErrorInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.UserView, error) {
	user, err := s.repomanager.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, internalError("lookup user", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, err
	}
	if !ok || !user.IsActive {
		return nil, common.ErrorInvalidCredentials
	}

	return user.View(), nil
}

// IssueToken mints an access token whose subject is the user's email.
func (s *AuthService) IssueToken(user *models.UserView) (string, error) {
	token, err := s.tokens.Issue(user.Email, s.now())
	if err != nil {
		return "", internalError("issue token", err)
	}
	return token, nil
}

// ResolveCurrentUser maps a bearer token to a live, active account. The
// account is looked up on every call, so deleting it revokes its tokens.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*models.UserView, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}

	user, err := s.repomanager.Users().GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrorUnauthorized)
		}
		return nil, internalError("lookup user", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: inactive user", common.ErrorUnauthorized)
	}

	return user.View(), nil
}

// DeleteAccount removes the user and, by cascade, its tasks.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repomanager.Users().Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return internalError("delete user", err)
	}
	s.logger.Info(ctx, "user deleted", "user_id", userID)
	return nil
}
