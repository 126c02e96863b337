// internal/service/user_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/repository"
	"tasktrack/pkg/auth"
)

func newUserServiceForTest(t *testing.T) (*UserService, *repository.UserRepository) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	tokens := auth.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewUserService(userRepo, auth.NewPasswordManager(), tokens), userRepo
}

func TestUserService_Register(t *testing.T) {
	svc, userRepo := newUserServiceForTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		PhoneNumber:          "09123456789",
		Email:                "new@example.com",
		Password:             "Password1",
		PasswordConfirmation: "Password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "09123456789", user.PhoneNumber)
	assert.True(t, user.HasEmail())
	assert.NotEqual(t, "Password1", user.PasswordHash)

	// Registration also created the profile.
	profile, err := userRepo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, _ := newUserServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		PhoneNumber:          "09111111111",
		Password:             "Password1",
		PasswordConfirmation: "Password1",
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     RegisterInput
		wantField string
	}{
		{
			name:      "missing phone number",
			input:     RegisterInput{Password: "Password1", PasswordConfirmation: "Password1"},
			wantField: "phone_number",
		},
		{
			name: "phone number must start with 09",
			input: RegisterInput{
				PhoneNumber: "12345678901", Password: "Password1", PasswordConfirmation: "Password1",
			},
			wantField: "phone_number",
		},
		{
			name: "phone number too short",
			input: RegisterInput{
				PhoneNumber: "0912345", Password: "Password1", PasswordConfirmation: "Password1",
			},
			wantField: "phone_number",
		},
		{
			name: "phone number with letters",
			input: RegisterInput{
				PhoneNumber: "0912345678x", Password: "Password1", PasswordConfirmation: "Password1",
			},
			wantField: "phone_number",
		},
		{
			name: "duplicate phone number",
			input: RegisterInput{
				PhoneNumber: "09111111111", Password: "Password1", PasswordConfirmation: "Password1",
			},
			wantField: "phone_number",
		},
		{
			name: "invalid email",
			input: RegisterInput{
				PhoneNumber: "09222222222", Email: "not-an-email",
				Password: "Password1", PasswordConfirmation: "Password1",
			},
			wantField: "email",
		},
		{
			name:      "missing password",
			input:     RegisterInput{PhoneNumber: "09222222222"},
			wantField: "password",
		},
		{
			name: "weak password",
			input: RegisterInput{
				PhoneNumber: "09222222222", Password: "short", PasswordConfirmation: "short",
			},
			wantField: "password",
		},
		{
			name: "password confirmation mismatch",
			input: RegisterInput{
				PhoneNumber: "09222222222", Password: "Password1", PasswordConfirmation: "Password2",
			},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			verr, ok := AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newUserServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		PhoneNumber:          "09123456789",
		Password:             "Password1",
		PasswordConfirmation: "Password1",
	})
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "09123456789", "Password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Positive(t, pair.ExpiresIn)

	_, err = svc.Login(ctx, "09123456789", "WrongPass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "09999999999", "Password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Profile(t *testing.T) {
	svc, _ := newUserServiceForTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		PhoneNumber:          "09123456789",
		Email:                "me@example.com",
		Password:             "Password1",
		PasswordConfirmation: "Password1",
	})
	require.NoError(t, err)

	profile, owner, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "09123456789", owner.PhoneNumber)
}
