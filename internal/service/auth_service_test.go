package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/techassist/support-service/internal/auth"
	"github.com/techassist/support-service/internal/config"
	"github.com/techassist/support-service/internal/domain"
	apperrors "github.com/techassist/support-service/pkg/util"
)

// --- Mock repository ---

type mockUserRepo struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	existsFn     func(ctx context.Context, username, email string) (bool, error)
	listFn       func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}
}

// --- Tests ---

func TestRegisterDefaultsToCliente(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(_ context.Context, user *domain.User) error {
			if user.Role != domain.RoleCliente {
				t.Errorf("role = %s, want cliente default", user.Role)
			}
			if user.PasswordHash == "secret123" {
				t.Error("password stored in plaintext")
			}
			user.ID = 1
			return nil
		},
	}
	svc := NewAuthService(testAuthConfig(), repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, "secret123"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	repo := &mockUserRepo{
		existsFn: func(_ context.Context, _, _ string) (bool, error) { return true, nil },
	}
	svc := NewAuthService(testAuthConfig(), repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "secret123",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	de := apperrors.ToDomainError(err)
	if de.Code != "CONFLICT" || de.HTTPStatus != http.StatusBadRequest {
		t.Errorf("got code=%s status=%d, want CONFLICT/400", de.Code, de.HTTPStatus)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), &mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "x", Role: domain.Role("root"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if de := apperrors.ToDomainError(err); de.HTTPStatus != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", de.HTTPStatus)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	hash, err := auth.HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	repo := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: 42, Username: "ana", Email: email, PasswordHash: hash, Role: domain.RoleCliente}, nil
		},
	}
	svc := NewAuthService(testAuthConfig(), repo)

	user, token, _, err := svc.Login(context.Background(), "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 42 {
		t.Errorf("user.ID = %d, want 42", user.ID)
	}
	userID, err := svc.TokenManager().Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("token subject = %d, want 42", userID)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	hash, _ := auth.HashPassword("correct", bcrypt.MinCost)
	repo := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: 1, Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(testAuthConfig(), repo)

	_, _, _, err := svc.Login(context.Background(), "ana@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if de := apperrors.ToDomainError(err); de.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", de.HTTPStatus)
	}
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), &mockUserRepo{})

	_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if de := apperrors.ToDomainError(err); de.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", de.HTTPStatus)
	}
}
