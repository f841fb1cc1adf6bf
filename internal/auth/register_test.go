package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdemart/verdemart-backend/internal/users"
	"github.com/verdemart/verdemart-backend/pkg/config"
	"github.com/verdemart/verdemart-backend/pkg/db/models"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
	"github.com/verdemart/verdemart-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	data      map[string]*models.User
	created   *models.User
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*models.User{}}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Phone:        dto.Phone,
		Company:      dto.Company,
		IsActive:     true,
	}
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

func newRegisterTestService(t *testing.T, repo *stubUserRepository) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return repo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc
}

func sampleRegisterRequest(email string) RegisterRequest {
	return RegisterRequest{
		FirstName: "Mariana",
		LastName:  "Lopez",
		Email:     email,
		Phone:     "+52 55 1234 5678",
		Company:   "Comedor La Esquina",
		Password:  "Secreto123!",
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	repo := newStubUserRepository()
	svc := newRegisterTestService(t, repo)

	resp, err := svc.Register(context.Background(), sampleRegisterRequest("Mariana@Example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected user to be created")
	}
	if repo.created.Email != "mariana@example.com" {
		t.Fatalf("expected lowercased email, got %s", repo.created.Email)
	}
	if repo.created.PasswordHash == "Secreto123!" || repo.created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	ok, err := security.VerifyPassword("Secreto123!", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected hash to verify, ok=%v err=%v", ok, err)
	}
	if resp.User == nil || resp.User.Name != "Mariana Lopez" {
		t.Fatalf("expected response user with full name, got %+v", resp.User)
	}
}

func TestRegisterListsMissingFields(t *testing.T) {
	svc := newRegisterTestService(t, newStubUserRepository())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Mariana",
		Email:     "mariana@example.com",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	missing, ok := details["missing_fields"].([]string)
	if !ok {
		t.Fatalf("expected missing_fields list, got %v", details)
	}
	want := []string{"last_name", "phone", "company", "password"}
	if len(missing) != len(want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
	for i, field := range want {
		if missing[i] != field {
			t.Fatalf("expected %v, got %v", want, missing)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepository()
	repo.data["mariana@example.com"] = &models.User{
		ID:    uuid.New(),
		Email: "mariana@example.com",
	}
	svc := newRegisterTestService(t, repo)

	_, err := svc.Register(context.Background(), sampleRegisterRequest("mariana@example.com"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for duplicate email, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("no user may be created for a duplicate email")
	}
}
