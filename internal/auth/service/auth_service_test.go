package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/weathermate/backend/internal/auth/service"
	"github.com/weathermate/backend/internal/common/clock"
	"github.com/weathermate/backend/internal/token"
	userdomain "github.com/weathermate/backend/internal/user/domain"
	userrepo "github.com/weathermate/backend/internal/user/repository"
)

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher, *token.Service, *clock.MockClock) {
	t.Helper()

	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	tokens := newTestTokenService(t, clk)
	users := &mockUserRepo{}
	hasher := &mockHasher{}

	svc := service.NewAuthService(users, hasher, &mockIDGenerator{}, tokens, clk, newTestLogger(t))

	return svc, users, hasher, tokens, clk
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, users, _, _, _ := setupAuthService(t)

	var created userdomain.User
	users.createFunc = func(ctx context.Context, user userdomain.User) error {
		created = user
		return nil
	}

	result, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alex",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Username != "alex" {
		t.Errorf("expected username alex, got %s", result.Username)
	}

	if result.ID == "" {
		t.Error("expected id to be set")
	}

	if created.PasswordHash == "password1" {
		t.Error("password must not be persisted in clear form")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, users, _, _, _ := setupAuthService(t)

	createCalls := 0
	users.createFunc = func(ctx context.Context, user userdomain.User) error {
		createCalls++
		return userrepo.ErrUsernameAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alex",
		Password: "password2",
	})

	if !errors.Is(err, service.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	if createCalls != 1 {
		t.Errorf("expected exactly one create attempt, got %d", createCalls)
	}
}

func TestAuthService_Register_UsernameStoredVerbatim(t *testing.T) {
	svc, users, _, _, _ := setupAuthService(t)

	var created []string
	users.createFunc = func(ctx context.Context, user userdomain.User) error {
		created = append(created, user.Username)
		return nil
	}

	// no charset restriction beyond the length bounds
	for _, username := range []string{"alex.smith", "_alex_", "Алекс", "a l e x"} {
		result, err := svc.Register(context.Background(), service.RegisterInput{
			Username: username,
			Password: "password1",
		})
		if err != nil {
			t.Fatalf("expected username %q to register, got %v", username, err)
		}
		if result.Username != username {
			t.Errorf("expected username %q returned verbatim, got %q", username, result.Username)
		}
	}

	if len(created) != 4 {
		t.Errorf("expected 4 users persisted, got %d", len(created))
	}
}

func TestAuthService_Register_ValidationFailed(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "password1"},
		{"short password", "alex", "pass"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), service.RegisterInput{
				Username: tc.username,
				Password: tc.password,
			})
			if !errors.Is(err, service.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, users, hasher, tokens, _ := setupAuthService(t)

	users.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     "alex",
			PasswordHash: "hashed_password1",
		}, nil
	}

	hasher.compareFunc = func(hash string, password string) error {
		if hash != "hashed_password1" || password != "password1" {
			return errors.New("password mismatch")
		}
		return nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{
		Username: "alex",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if subject, err := tokens.Validate(result.AccessToken, token.KindAccess); err != nil || subject != "alex" {
		t.Errorf("expected valid access token for alex, got subject=%q err=%v", subject, err)
	}

	if subject, err := tokens.Validate(result.RefreshToken, token.KindRefresh); err != nil || subject != "alex" {
		t.Errorf("expected valid refresh token for alex, got subject=%q err=%v", subject, err)
	}
}

func TestAuthService_Login_RefreshExpiryFollowsClock(t *testing.T) {
	svc, users, hasher, tokens, clk := setupAuthService(t)

	users.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{ID: "user-123", Username: "alex", PasswordHash: "hashed_password1"}, nil
	}
	hasher.compareFunc = func(hash string, password string) error { return nil }

	result, err := svc.Login(context.Background(), service.LoginInput{
		Username: "alex",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := clk.Now().Add(tokens.RefreshTTL())
	if !result.RefreshExpiresAt.Equal(want) {
		t.Errorf("expected refresh expiry %v, got %v", want, result.RefreshExpiresAt)
	}
}

func TestAuthService_Login_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	svc, users, hasher, _, _ := setupAuthService(t)

	users.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}

	_, errUnknown := svc.Login(context.Background(), service.LoginInput{
		Username: "nobody",
		Password: "password1",
	})

	users.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{ID: "user-123", Username: "alex", PasswordHash: "hashed"}, nil
	}
	hasher.compareFunc = func(hash string, password string) error {
		return errors.New("password mismatch")
	}

	_, errWrongPassword := svc.Login(context.Background(), service.LoginInput{
		Username: "alex",
		Password: "wrong",
	})

	if !errors.Is(errUnknown, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", errUnknown)
	}

	if !errors.Is(errWrongPassword, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPassword)
	}

	// identical failures, so responses cannot be used to enumerate usernames
	if errUnknown.Error() != errWrongPassword.Error() {
		t.Error("expected identical failure for unknown user and wrong password")
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, _, _, tokens, _ := setupAuthService(t)

	refreshToken, err := tokens.IssueRefresh("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	accessToken, err := svc.Refresh(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	subject, err := tokens.Validate(accessToken, token.KindAccess)
	if err != nil {
		t.Fatalf("expected valid access token, got %v", err)
	}

	if subject != "alex" {
		t.Errorf("expected subject alex, got %s", subject)
	}
}

func TestAuthService_Refresh_Invalid(t *testing.T) {
	svc, _, _, tokens, clk := setupAuthService(t)

	expiring, err := tokens.IssueRefresh("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	accessToken, err := tokens.IssueAccess("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	clk.Advance(8 * 24 * time.Hour)

	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
		{"expired", expiring},
		{"access token in refresh slot", accessToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Refresh(context.Background(), tc.token)
			if !errors.Is(err, service.ErrInvalidRefreshToken) {
				t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
			}
		})
	}
}
