package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationops/internal/core/apperror"
)

type fakeUserRepo struct {
	byUsername map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *User) error {
	if _, ok := f.byUsername[u.Username]; ok {
		return apperror.NewConflict("username already taken")
	}
	cp := *u
	f.byUsername[u.Username] = &cp
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, apperror.NewNotFound("user", username)
	}
	cp := *u
	return &cp, nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewService(repo, NewJWTService(DefaultJWTConfig("test-secret")), nil), repo
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "cashier1", "Cashier One", "cashier", "1234")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "cashier1", "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Cashier One", result.Actor.DisplayName)
	assert.Equal(t, "cashier", result.Actor.Role)
}

func TestLoginWrongSecret(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "cashier1", "Cashier One", "cashier", "1234")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "cashier1", "9999")
	require.Error(t, err)

	// Wrong secret and unknown user are indistinguishable
	_, unknownErr := svc.Login(ctx, "nobody", "1234")
	appErr, _ := apperror.AsAppError(err)
	unknownAppErr, _ := apperror.AsAppError(unknownErr)
	assert.Equal(t, appErr.Code, unknownAppErr.Code)
	assert.Equal(t, appErr.Message, unknownAppErr.Message)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "cashier1", "Cashier One", "cashier", "1234")
	require.NoError(t, err)
	repo.byUsername["cashier1"].IsActive = false

	_, err = svc.Login(ctx, "cashier1", "1234")
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin2", "Second Admin", "admin", "secret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "admin2", "Impostor", "cashier", "other")
	assert.True(t, apperror.IsConflict(err))
}

func TestRegisterUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "x", "X", "manager", "secret")
	assert.True(t, apperror.IsValidation(err))
}
