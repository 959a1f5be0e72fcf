package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/apricodi/builder/internal/config"
	"github.com/apricodi/builder/internal/database"
	"github.com/apricodi/builder/internal/models"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// AuthService manages builder accounts and their sessions.
type AuthService struct {
	db  *database.DB
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(db *database.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg, now: time.Now}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Auth.BcryptCost)
	return string(bytes), err
}

func (s *AuthService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Emails are compared case-insensitively.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := s.now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO users (id, email, password_hash, name, company, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, normalizeEmail(req.Email), hash, strings.TrimSpace(req.Name), strings.TrimSpace(req.Company), now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrUserExists
		}
		return nil, storeErr("create user", err)
	}

	return s.GetUserByID(id)
}

func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, password_hash, name, company, created_at, updated_at FROM users WHERE id = ?",
		id,
	))
}

func (s *AuthService) GetUserByEmail(email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, password_hash, name, company, created_at, updated_at FROM users WHERE email = ?",
		normalizeEmail(email),
	))
}

func (s *AuthService) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Company, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return &user, nil
}

// Login checks credentials and opens a new session. Older sessions of the
// user are dropped.
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.InvalidateUserSessions(user.ID); err != nil {
		return nil, nil, err
	}

	session, err := s.CreateSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// InvalidateUserSessions removes all sessions for a user.
func (s *AuthService) InvalidateUserSessions(userID string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return storeErr("invalidate sessions", err)
	}
	return nil
}

func (s *AuthService) CreateSession(userID string) (*models.Session, error) {
	sessionID := uuid.New().String()
	now := s.now().UTC()
	expiresAt := now.Add(s.cfg.Auth.GetSessionDuration())

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)",
		sessionID, userID, expiresAt, now,
	)
	if err != nil {
		return nil, storeErr("create session", err)
	}

	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}, nil
}

// ValidateSession returns the owner of a live session. Expired sessions are
// deleted on sight.
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	var session models.Session
	err := s.db.QueryRow(
		"SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, storeErr("get session", err)
	}

	if s.now().After(session.ExpiresAt) {
		_ = s.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	return s.GetUserByID(session.UserID)
}

// Logout ends a session.
func (s *AuthService) Logout(sessionID string) error {
	return s.DeleteSession(sessionID)
}

func (s *AuthService) DeleteSession(sessionID string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}

func (s *AuthService) CleanExpiredSessions() error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE expires_at < ?", s.now().UTC()); err != nil {
		return storeErr("clean sessions", err)
	}
	return nil
}
