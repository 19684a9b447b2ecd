package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "weddingfilm-test-secret"

// 관리자 페이지에서 발급하는 두 가지 권한
const (
	roleAdmin = "admin"
	roleStaff = "staff"
)

func TestGenerateTokenPair_RoleClaims(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		email  string
		role   string
	}{
		{"Studio admin", 1, "admin@weddingfilm.kr", roleAdmin},
		{"Camera staff", 7, "camera@weddingfilm.kr", roleStaff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(tt.userID, tt.email, tt.role, testSecret, 15*time.Minute, 24*time.Hour)
			require.NoError(t, err)

			access, err := ValidateToken(tokens.AccessToken, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, access.UserID)
			assert.Equal(t, tt.email, access.Email)
			assert.Equal(t, tt.role, access.Role)
			assert.Equal(t, TokenTypeAccess, access.TokenType)

			// 갱신 토큰도 같은 권한을 유지해야 재발급 후 관리자 경로가 그대로 열린다
			refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.role, refresh.Role)
			assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
			assert.NotEqual(t, access.ID, refresh.ID)
			assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
		})
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "admin@weddingfilm.kr", roleAdmin, testSecret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	// 서명 없이 권한만 관리자로 적은 토큰
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:    99,
		Role:      roleAdmin,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// 다른 비밀키로 서명한 관리자 토큰
	forged, err := GenerateTokenPair(99, "intruder@example.com", roleAdmin, "other-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Unsigned admin claim", unsigned},
		{"Admin token from another secret", forged.AccessToken},
		{"Malformed", "invalid.token.format"},
		{"Empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}

	t.Run("Genuine token still valid", func(t *testing.T) {
		claims, err := ValidateToken(tokens.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, roleAdmin, claims.Role)
	})
}

func TestValidateToken_Expired(t *testing.T) {
	tokens, err := GenerateTokenPair(7, "camera@weddingfilm.kr", roleStaff, testSecret, time.Nanosecond, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)

	claims, err = ValidateToken(tokens.RefreshToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
