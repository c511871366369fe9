package users

import (
	"context"
	"testing"

	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/pkg/config"
	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"github.com/parkpals/parkpals-backend/pkg/security"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users      map[int64]*models.User
	nextID     int64
	lastHash   string
	duplicates bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (s *stubUserRepo) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	if s.duplicates {
		return nil, gorm.ErrDuplicatedKey
	}
	user := dto.ToModel()
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.Email != nil {
		user.Email = *dto.Email
	}
	if dto.Username != nil {
		user.Username = *dto.Username
	}
	if dto.FullName != nil {
		user.FullName = dto.FullName
	}
	if dto.IsActive != nil {
		user.IsActive = *dto.IsActive
	}
	if dto.IsAdmin != nil {
		user.IsAdmin = *dto.IsAdmin
	}
	return user, nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = hash
	s.lastHash = hash
	return nil
}

func (s *stubUserRepo) Deactivate(ctx context.Context, id int64) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsActive = false
	return nil
}

func newTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		PasswordConfig: config.PasswordConfig{BcryptCost: 4},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())

	_, err := svc.GetProfile(context.Background(), 42)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfileRejectsFlagChangesForNonAdmins(t *testing.T) {
	repo := newStubUserRepo()
	repo.users[1] = &models.User{ID: 1, Email: "a@b.com", Username: "abby", IsActive: true}
	svc := newTestService(t, repo)

	truthy := true
	_, err := svc.UpdateProfile(context.Background(), authz.Principal{UserID: 1}, UpdateUserDTO{IsAdmin: &truthy})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	name := "Abby Doe"
	dto, err := svc.UpdateProfile(context.Background(), authz.Principal{UserID: 1}, UpdateUserDTO{FullName: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.FullName == nil || *dto.FullName != name {
		t.Fatalf("expected full name updated, got %+v", dto)
	}
}

func TestChangePasswordRequiresCurrentCredential(t *testing.T) {
	repo := newStubUserRepo()
	hash, err := security.HashPassword("oldpassword", config.PasswordConfig{BcryptCost: 4})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.users[1] = &models.User{ID: 1, PasswordHash: hash, IsActive: true}
	svc := newTestService(t, repo)

	err = svc.ChangePassword(context.Background(), 1, ChangePasswordRequest{
		CurrentPassword: "wrongpassword",
		NewPassword:     "brandnewpass",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), 1, ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "brandnewpass",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if repo.lastHash == "" || repo.lastHash == hash {
		t.Fatal("expected new hash stored")
	}
}

func TestDeactivateUserPreservesRecord(t *testing.T) {
	repo := newStubUserRepo()
	repo.users[5] = &models.User{ID: 5, IsActive: true}
	svc := newTestService(t, repo)

	if err := svc.DeactivateUser(context.Background(), 5); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.users[5].IsActive {
		t.Fatal("expected user deactivated")
	}

	err := svc.DeactivateUser(context.Background(), 99)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	dto, err := svc.CreateUser(context.Background(), AdminCreateUserRequest{
		Email:    "Walker@Example.com",
		Username: "walker",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if dto.Email != "walker@example.com" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}

	stored := repo.users[dto.ID]
	if stored.PasswordHash == "supersecret" || stored.PasswordHash == "" {
		t.Fatal("expected hashed credential")
	}
	ok, err := security.VerifyPassword("supersecret", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestListUsersReturnsEveryAccount(t *testing.T) {
	repo := newStubUserRepo()
	repo.users[1] = &models.User{ID: 1, Username: "alice", IsActive: true}
	repo.users[2] = &models.User{ID: 2, Username: "bob", IsActive: false}
	svc := newTestService(t, repo)

	list, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected both accounts regardless of active flag, got %d", len(list))
	}
}
