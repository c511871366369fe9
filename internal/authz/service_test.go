package authz

import (
	"context"
	"testing"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubUserFinder struct {
	users map[int64]*models.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func TestResolveActiveUser(t *testing.T) {
	svc, err := NewService(ServiceParams{UserRepo: &stubUserFinder{users: map[int64]*models.User{
		7: {ID: 7, IsActive: true, IsAdmin: true},
	}}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	principal, err := svc.Resolve(context.Background(), 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal.UserID != 7 || !principal.IsAdmin {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestResolveMissingUserIsUnauthorized(t *testing.T) {
	svc, _ := NewService(ServiceParams{UserRepo: &stubUserFinder{users: map[int64]*models.User{}}})

	_, err := svc.Resolve(context.Background(), 99)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveDeactivatedUserIsForbidden(t *testing.T) {
	svc, _ := NewService(ServiceParams{UserRepo: &stubUserFinder{users: map[int64]*models.User{
		3: {ID: 3, IsActive: false},
	}}})

	_, err := svc.Resolve(context.Background(), 3)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCanModify(t *testing.T) {
	cases := []struct {
		name      string
		principal Principal
		ownerID   int64
		want      bool
	}{
		{"owner", Principal{UserID: 1}, 1, true},
		{"stranger", Principal{UserID: 2}, 1, false},
		{"admin", Principal{UserID: 9, IsAdmin: true}, 1, true},
		{"zero principal", Principal{}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanModify(tc.principal, tc.ownerID); got != tc.want {
				t.Fatalf("CanModify(%+v, %d) = %v, want %v", tc.principal, tc.ownerID, got, tc.want)
			}
		})
	}
}
