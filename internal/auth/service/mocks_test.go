package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/weathermate/backend/internal/common/clock"
	"github.com/weathermate/backend/internal/common/logger"
	"github.com/weathermate/backend/internal/token"
	userdomain "github.com/weathermate/backend/internal/user/domain"
	userrepo "github.com/weathermate/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "id-123", nil
}

func newTestTokenService(t *testing.T, clk clock.Clock) *token.Service {
	t.Helper()

	svc, err := token.NewService(
		"test-secret-key-must-be-at-least-32-bytes-long",
		30*time.Minute,
		7*24*time.Hour,
		clk,
	)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	return svc
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}
