package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/takumi/fukubukuro/internal/model"
	"github.com/takumi/fukubukuro/internal/repository"
)

// --- モック定義 ---

type mockUserRepository struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id int64) (*model.User, error)
	findByNameFn  func(ctx context.Context, name string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	if m.findByNameFn != nil {
		return m.findByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

var _ repository.UserRepository = (*mockUserRepository)(nil)

// --- Signup ---

func TestSignup_Success(t *testing.T) {
	var saved *model.User
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			saved = user
			return nil
		},
	}

	svc := NewService(repo)

	user, err := svc.Signup(context.Background(), "sakura", "sakura@example.com", "pass1234", model.RoleClient)
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if user.ID != 1 {
		t.Errorf("user.ID = %d, want 1", user.ID)
	}
	if user.Role != model.RoleClient {
		t.Errorf("user.Role = %q, want %q", user.Role, model.RoleClient)
	}
	if saved.PasswordHash == "pass1234" {
		t.Error("password stored in plain text")
	}
	if !VerifyPassword(saved.PasswordHash, "pass1234") {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}

	svc := NewService(repo)

	_, err := svc.Signup(context.Background(), "sakura", "taken@example.com", "pass1234", model.RoleClient)
	if err == nil {
		t.Fatal("Signup returned nil error, want DUPLICATE_EMAIL")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateEmail)
	}
}

// --- VerifyCredentials ---

func TestVerifyCredentials_Success(t *testing.T) {
	hash, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	repo := &mockUserRepository{
		findByNameFn: func(ctx context.Context, name string) (*model.User, error) {
			if name != "sakura" {
				t.Errorf("name = %q, want %q", name, "sakura")
			}
			return &model.User{ID: 1, Name: "sakura", PasswordHash: hash, Role: model.RoleClient}, nil
		},
	}

	svc := NewService(repo)

	user, err := svc.VerifyCredentials(context.Background(), "sakura", "pass1234")
	if err != nil {
		t.Fatalf("VerifyCredentials returned error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user.ID = %d, want 1", user.ID)
	}
}

// 未知のユーザー名とパスワード不一致が同じエラーになることを確認する。
func TestVerifyCredentials_FailuresAreIndistinguishable(t *testing.T) {
	hash, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	repo := &mockUserRepository{
		findByNameFn: func(ctx context.Context, name string) (*model.User, error) {
			if name == "sakura" {
				return &model.User{ID: 1, Name: "sakura", PasswordHash: hash}, nil
			}
			return nil, nil
		},
	}

	svc := NewService(repo)

	_, unknownErr := svc.VerifyCredentials(context.Background(), "nobody", "pass1234")
	_, wrongPassErr := svc.VerifyCredentials(context.Background(), "sakura", "wrong")

	for _, err := range []error{unknownErr, wrongPassErr} {
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error type = %T, want *model.APIError", err)
		}
		if apiErr.Code != model.ErrCodeInvalidCredentials {
			t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeInvalidCredentials)
		}
	}

	if unknownErr.Error() != wrongPassErr.Error() {
		t.Errorf("error messages differ: %q vs %q", unknownErr.Error(), wrongPassErr.Error())
	}
}

// --- GetUserByID ---

func TestGetUserByID_NotFound(t *testing.T) {
	repo := &mockUserRepository{}

	svc := NewService(repo)

	_, err := svc.GetUserByID(context.Background(), 999)
	if err == nil {
		t.Fatal("GetUserByID returned nil error, want USER_NOT_FOUND")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}
