// Package service implements registration, login, and refresh-token
// exchange. Requests are handled statelessly: token validity is a function
// of the token bytes and the clock, never of server-side session state.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/weathermate/backend/internal/common/clock"
	commoncrypto "github.com/weathermate/backend/internal/common/crypto"
	commonerrors "github.com/weathermate/backend/internal/common/errors"
	"github.com/weathermate/backend/internal/common/logger"
	"github.com/weathermate/backend/internal/observability/metrics"
	"github.com/weathermate/backend/internal/token"
	userdomain "github.com/weathermate/backend/internal/user/domain"
	userrepo "github.com/weathermate/backend/internal/user/repository"
)

type AuthService struct {
	users  userrepo.Repository
	hasher commoncrypto.PasswordHasher
	idGen  commoncrypto.IDGenerator
	tokens *token.Service
	clock  clock.Clock
	log    *logger.Logger
}

// NewAuthService takes the same clock as the token service so cookie
// expiries and token exp claims can never disagree.
func NewAuthService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGen commoncrypto.IDGenerator,
	tokens *token.Service,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		idGen:  idGen,
		tokens: tokens,
		clock:  clk,
		log:    log,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type RegisteredUser struct {
	ID       string
	Username string
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisteredUser, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return RegisteredUser{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return RegisteredUser{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return RegisteredUser{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return RegisteredUser{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return RegisteredUser{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.RegistrationsTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return RegisteredUser{
		ID:       string(user.ID),
		Username: user.Username,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.LoginFailuresTotal.Inc()
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_failed",
			}).Warn("login failed: invalid credentials")
			return LoginResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		metrics.LoginFailuresTotal.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_failed",
		}).Warn("login failed: invalid credentials")
		return LoginResult{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccess(user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": user.Username,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	refreshToken, err := s.tokens.IssueRefresh(user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": user.Username,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: s.clock.Now().Add(s.tokens.RefreshTTL()),
	}, nil
}

// Refresh exchanges a valid refresh token for a brand-new access token.
// There is no password re-check and no user lookup: the signed subject is
// trusted for the lifetime of the refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidRefreshToken
	}

	subject, err := s.tokens.Validate(refreshToken, token.KindRefresh)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_token_rejected",
		}).Warn("refresh failed: invalid token")
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.IssueAccess(subject)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": subject,
			"action":   "refresh_token_issue_failed",
		}).Errorf("refresh failed: token issue error: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.RefreshTokensUsed.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": subject,
		"action":   "refresh_token_used",
	}).Info("refresh token used")

	return accessToken, nil
}
