package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/verdemart/verdemart-backend/pkg/auth"
	"github.com/verdemart/verdemart-backend/pkg/auth/session"
	"github.com/verdemart/verdemart-backend/pkg/config"
	"github.com/verdemart/verdemart-backend/pkg/db/models"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
	"github.com/verdemart/verdemart-backend/pkg/security"
)

type stubLoginRepo struct {
	byEmail   map[string]*models.User
	byID      map[uuid.UUID]*models.User
	lastLogin *time.Time
}

func newStubLoginRepo(user *models.User) *stubLoginRepo {
	repo := &stubLoginRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
	if user != nil {
		repo.byEmail[user.Email] = user
		repo.byID[user.ID] = user
	}
	return repo
}

func (s *stubLoginRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSessionManager struct {
	sessions map[string]string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + newID
	s.sessions[newID] = token
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "verdemart",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func testShopper(t *testing.T, password string) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "mariana@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Mariana",
		LastName:     "Lopez",
		Phone:        "+52 55 1234 5678",
		Company:      "Comedor La Esquina",
		IsActive:     true,
	}
}

func newLoginTestService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	password := "Secreto123!"
	user := testShopper(t, password)
	repo := newStubLoginRepo(user)
	sessions := newStubSessionManager()
	svc := newLoginTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Mariana@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Name != "Mariana Lopez" {
		t.Fatalf("expected full name claim, got %q", claims.Name)
	}
	if _, ok := sessions.sessions[claims.ID]; !ok {
		t.Fatal("expected session stored under the jti")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := testShopper(t, "Secreto123!")
	svc := newLoginTestService(t, newStubLoginRepo(user), newStubSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "otra-cosa",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newLoginTestService(t, newStubLoginRepo(nil), newStubSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nadie@example.com",
		Password: "whatever",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	password := "Secreto123!"
	user := testShopper(t, password)
	user.IsActive = false
	svc := newLoginTestService(t, newStubLoginRepo(user), newStubSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED for inactive account, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	password := "Secreto123!"
	user := testShopper(t, password)
	repo := newStubLoginRepo(user)
	sessions := newStubSessionManager()
	svc := newLoginTestService(t, repo, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The old pair must be dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED replaying the old pair, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	password := "Secreto123!"
	user := testShopper(t, password)
	sessions := newStubSessionManager()
	svc := newLoginTestService(t, newStubLoginRepo(user), sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.sessions[claims.ID]; ok {
		t.Fatal("expected session removed after logout")
	}
}
