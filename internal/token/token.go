// Package token issues and validates the signed credentials that carry a
// session: short-lived access tokens for resource calls and long-lived
// refresh tokens exchanged only for new access tokens. Tokens are fully
// self-contained; no session state is kept server-side.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/weathermate/backend/internal/common/clock"
	"github.com/weathermate/backend/internal/common/constants"
	commonerrors "github.com/weathermate/backend/internal/common/errors"
	"github.com/weathermate/backend/internal/observability/metrics"
)

// Kind discriminates access from refresh tokens via an explicit claim, so a
// long-lived refresh token can never pass an access check at a resource
// endpoint.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Service struct {
	secret     []byte
	clock      clock.Clock
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService fails fast on a weak signing key; per-call issuance never
// revalidates configuration.
func NewService(secret string, accessTTL, refreshTTL time.Duration, clk clock.Clock) (*Service, error) {
	if len(secret) < constants.JWTSecretMinLength {
		return nil, fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(secret))
	}

	return &Service{
		secret:     []byte(secret),
		clock:      clk,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *Service) IssueAccess(subject string) (string, error) {
	signed, err := s.issue(subject, KindAccess, s.accessTTL)
	if err != nil {
		return "", err
	}
	metrics.AccessTokensIssued.Inc()
	return signed, nil
}

func (s *Service) IssueRefresh(subject string) (string, error) {
	signed, err := s.issue(subject, KindRefresh, s.refreshTTL)
	if err != nil {
		return "", err
	}
	metrics.RefreshTokensIssued.Inc()
	return signed, nil
}

func (s *Service) issue(subject string, kind Kind, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	iat := now.Unix()
	exp := now.Add(ttl).Unix()
	// claims carry whole seconds; a sub-second ttl would truncate exp down
	// to iat and the token would be born expired
	if exp <= iat {
		exp = iat + 1
	}

	claims := jwt.MapClaims{
		"sub":  subject,
		"iat":  iat,
		"exp":  exp,
		"kind": string(kind),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate parses and verifies a token of the expected kind and returns its
// subject. Malformed, forged, expired, and wrong-kind tokens are routine
// untrusted input: every failure collapses to ErrInvalidToken.
func (s *Service) Validate(tokenString string, kind Kind) (string, error) {
	metrics.TokenValidationsTotal.Inc()

	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		metrics.TokenValidationsFailed.Inc()
		return "", commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.TokenValidationsFailed.Inc()
		return "", commonerrors.ErrInvalidToken
	}

	subject, _ := mapClaims["sub"].(string)
	tokenKind, _ := mapClaims["kind"].(string)
	if subject == "" || tokenKind != string(kind) {
		metrics.TokenValidationsFailed.Inc()
		return "", commonerrors.ErrInvalidToken
	}

	return subject, nil
}

// ValidateFor reports whether the token is valid and belongs to subject.
func (s *Service) ValidateFor(tokenString string, kind Kind, subject string) bool {
	got, err := s.Validate(tokenString, kind)
	return err == nil && got == subject
}
