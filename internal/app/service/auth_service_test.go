package service

import (
	"testing"
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/db"
	"github.com/ikkim/weddingfilm-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	user := &model.User{
		Email:        "admin@weddingfilm.kr",
		PasswordHash: hash,
		Name:         "관리자",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, userRepo.Create(user))

	return authService, user
}

func TestAuthService_Login(t *testing.T) {
	authService, admin := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid login",
			email:    admin.Email,
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "Email is case insensitive",
			email:    " Admin@WeddingFilm.kr ",
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    admin.Email,
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Non-existing user",
			email:    "notfound@weddingfilm.kr",
			password: "password123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, admin.ID, user.ID)
				assert.Equal(t, model.RoleAdmin, user.Role)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	authService, admin := setupAuthServiceTest(t)

	_, tokens, err := authService.Login(admin.Email, "password123")
	require.NoError(t, err)

	refreshed, err := authService.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// access 토큰으로는 갱신 불가
	_, err = authService.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, admin := setupAuthServiceTest(t)

	found, err := authService.GetUserByID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, found.Email)

	found, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, found)
}
