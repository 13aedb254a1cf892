package service

import (
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-unit-tests-only!!"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(f.userRepo, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	auth := newAuthService(f)

	user, err := auth.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@test.io",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.Equal(t, "en", user.Language)
	// 密码必须散列存储
	assert.NotEqual(t, "secret123", user.Password)

	result, err := auth.Login("alice@test.io", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	claims, err := util.ParseJWT(result.Token, "test-secret-for-unit-tests-only!!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	auth := newAuthService(f)

	_, err := auth.Register(RegisterInput{Name: "A", Email: "dup@test.io", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Register(RegisterInput{Name: "B", Email: "dup@test.io", Password: "secret456"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture()
	auth := newAuthService(f)

	_, err := auth.Register(RegisterInput{Name: "A", Email: "a@test.io", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Login("a@test.io", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = auth.Login("nobody@test.io", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	f := newFixture()
	auth := newAuthService(f)

	user, err := auth.Register(RegisterInput{Name: "A", Email: "a@test.io", Password: "secret123"})
	require.NoError(t, err)

	user.Disabled = true
	require.NoError(t, f.userRepo.Update(user))

	_, err = auth.Login("a@test.io", "secret123")
	assert.ErrorIs(t, err, util.ErrAccessDenied)
}
