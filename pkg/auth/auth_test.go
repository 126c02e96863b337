// pkg/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"valid", "09123456789", false},
		{"missing 09 prefix", "19123456789", true},
		{"too short", "091234", true},
		{"too long", "091234567890", true},
		{"non-digit characters", "0912345678x", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhoneNumber(tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPasswordManager_HashAndCompare(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("Password1")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1", hash)

	assert.NoError(t, pm.ComparePassword(hash, "Password1"))
	assert.Error(t, pm.ComparePassword(hash, "Password2"))
}

func TestPasswordManager_ValidatePassword(t *testing.T) {
	pm := NewPasswordManager()

	assert.NoError(t, pm.ValidatePassword("Password1"))
	assert.ErrorIs(t, pm.ValidatePassword("short1"), ErrWeakPassword)
	assert.ErrorIs(t, pm.ValidatePassword("12345678"), ErrWeakPassword)
	assert.ErrorIs(t, pm.ValidatePassword("password"), ErrWeakPassword)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	access, refresh, expiresIn, err := tm.GenerateTokenPair("user-id", "09123456789")
	require.NoError(t, err)
	assert.Positive(t, expiresIn)

	claims, err := tm.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "09123456789", claims.PhoneNumber)

	// Tokens are not interchangeable across types.
	_, err = tm.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = tm.ValidateRefreshToken(access)
	assert.Error(t, err)

	newAccess, _, err := tm.RefreshAccessToken(refresh)
	require.NoError(t, err)
	claims, err = tm.ValidateAccessToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractTokenFromHeader("")
	assert.Error(t, err)
	_, err = ExtractTokenFromHeader("abc.def.ghi")
	assert.Error(t, err)
	_, err = ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)
}
