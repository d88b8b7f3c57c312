package service_test

import (
	"testing"

	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/service"
	"go-storefront-api/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepo(db)
	svc := service.NewAuthService(userRepo)

	admin := &model.User{Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, admin.SetPassword("secreto123"))
	require.NoError(t, userRepo.Create(admin))

	resp, err := svc.Login("admin@example.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.True(t, resp.User.IsAdmin)

	// The bearer token must round-trip through the validator
	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepo(db)
	svc := service.NewAuthService(userRepo)

	admin := &model.User{Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, admin.SetPassword("secreto123"))
	require.NoError(t, userRepo.Create(admin))

	_, err := svc.Login("admin@example.com", "incorrecta")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login("nadie@example.com", "secreto123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
