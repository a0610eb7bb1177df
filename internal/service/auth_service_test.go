package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rti-service/internal/auth"
	"rti-service/internal/model"
)

type fakeUserStore struct {
	users map[string]*model.User
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *model.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &model.User{
		ID:           uuid.New(),
		Username:     "clerk1",
		PasswordHash: string(hash),
		FullName:     "S. Pillai",
		Role:         model.RoleStaff,
	}
	store := &fakeUserStore{users: map[string]*model.User{user.Username: user}}
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewAuthService(store, issuer), user
}

func TestLogin(t *testing.T) {
	svc, user := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "clerk1", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("token missing")
	}
	if result.User.ID != user.ID {
		t.Errorf("user = %s, want %s", result.User.ID, user.ID)
	}

	parser := auth.NewParser("test-secret")
	claims, err := parser.Parse(result.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleStaff {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "clerk1", "wrong"},
		{"unknown user", "nobody", "correct horse"},
		{"empty username", "", "correct horse"},
		{"empty password", "clerk1", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}
