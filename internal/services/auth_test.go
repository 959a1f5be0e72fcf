package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/apricodi/builder/internal/config"
	"github.com/apricodi/builder/internal/database"
	"github.com/apricodi/builder/internal/models"
	"github.com/apricodi/builder/internal/services"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			BcryptCost:      4,
			SessionDuration: "24h",
		},
	}
}

func registerUser(t *testing.T, auth *services.AuthService, email string) *models.User {
	t.Helper()
	user, err := auth.Register(&models.RegisterRequest{
		Email:    email,
		Password: "Guclu123",
		Name:     "Ayşe",
		Company:  "Acme",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return user
}

func TestAuthService_Register(t *testing.T) {
	auth := services.NewAuthService(setupTestDB(t), testConfig())

	user := registerUser(t, auth, "  Ayse@Example.com ")
	if user.Email != "ayse@example.com" {
		t.Errorf("expected normalised email, got %q", user.Email)
	}
	if user.PasswordHash == "Guclu123" || user.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}
	if user.Company != "Acme" {
		t.Errorf("expected company 'Acme', got %q", user.Company)
	}

	_, err := auth.Register(&models.RegisterRequest{Email: "AYSE@example.com", Password: "Guclu123", Name: "X"})
	if !errors.Is(err, services.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	auth := services.NewAuthService(setupTestDB(t), testConfig())
	registered := registerUser(t, auth, "ayse@example.com")

	session, user, err := auth.Login("ayse@example.com", "Guclu123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID || session.UserID != registered.ID {
		t.Error("session should belong to the registered user")
	}
	if session.ExpiresAt.Sub(session.CreatedAt) != 24*time.Hour {
		t.Errorf("expected 24h session, got %v", session.ExpiresAt.Sub(session.CreatedAt))
	}

	if _, _, err := auth.Login("ayse@example.com", "wrong"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := auth.Login("nobody@example.com", "Guclu123"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_LoginInvalidatesOldSessions(t *testing.T) {
	auth := services.NewAuthService(setupTestDB(t), testConfig())
	registerUser(t, auth, "ayse@example.com")

	first, _, err := auth.Login("ayse@example.com", "Guclu123")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, _, err := auth.Login("ayse@example.com", "Guclu123")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if _, err := auth.ValidateSession(first.ID); !errors.Is(err, services.ErrSessionNotFound) {
		t.Errorf("expected old session to be gone, got %v", err)
	}
	if _, err := auth.ValidateSession(second.ID); err != nil {
		t.Errorf("expected new session to be valid, got %v", err)
	}
}

func TestAuthService_ValidateSession(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.SessionDuration = "1ms"
	auth := services.NewAuthService(setupTestDB(t), cfg)
	registerUser(t, auth, "ayse@example.com")

	session, _, err := auth.Login("ayse@example.com", "Guclu123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := auth.ValidateSession(session.ID); !errors.Is(err, services.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := auth.ValidateSession(session.ID); !errors.Is(err, services.ErrSessionNotFound) {
		t.Errorf("expired session should have been deleted, got %v", err)
	}
	if _, err := auth.ValidateSession("missing"); !errors.Is(err, services.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	auth := services.NewAuthService(setupTestDB(t), testConfig())
	registerUser(t, auth, "ayse@example.com")

	session, _, err := auth.Login("ayse@example.com", "Guclu123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := auth.Logout(session.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := auth.ValidateSession(session.ID); !errors.Is(err, services.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after logout, got %v", err)
	}
}

func TestAuthService_CheckPassword(t *testing.T) {
	auth := services.NewAuthService(setupTestDB(t), testConfig())

	hash, err := auth.HashPassword("Guclu123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if !auth.CheckPassword("Guclu123", hash) {
		t.Error("expected password to match")
	}
	if auth.CheckPassword("guclu123", hash) {
		t.Error("expected different password not to match")
	}
}
