package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/pkg/auth"
)

// UserService handles registration and login. Everything beyond issuing
// the authenticated identity is out of scope here; the rest of the
// system only consumes the user ID the middleware extracts.
type UserService struct {
	userRepo  *repository.UserRepository
	passwords *auth.PasswordManager
	tokens    *auth.TokenManager
}

func NewUserService(userRepo *repository.UserRepository, passwords *auth.PasswordManager, tokens *auth.TokenManager) *UserService {
	return &UserService{userRepo: userRepo, passwords: passwords, tokens: tokens}
}

type RegisterInput struct {
	PhoneNumber          string
	Email                string
	Password             string
	PasswordConfirmation string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register validates the input and creates the user together with its
// profile.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	verr := NewValidationError()

	if input.PhoneNumber == "" {
		verr.Add("phone_number", msgFieldRequired)
	} else if err := auth.ValidatePhoneNumber(input.PhoneNumber); err != nil {
		verr.Add("phone_number", err.Error())
	} else {
		exists, err := s.userRepo.PhoneNumberExists(ctx, input.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("phone_number", "A user with this phone number already exists.")
		}
	}

	if input.Email != "" {
		if err := auth.ValidateEmail(input.Email); err != nil {
			verr.Add("email", err.Error())
		} else {
			exists, err := s.userRepo.EmailExists(ctx, input.Email)
			if err != nil {
				return nil, err
			}
			if exists {
				verr.Add("email", "A user with this email already exists.")
			}
		}
	}

	if input.Password == "" {
		verr.Add("password", msgFieldRequired)
	} else if err := s.passwords.ValidatePassword(input.Password); err != nil {
		verr.Add("password", err.Error())
	} else if input.Password != input.PasswordConfirmation {
		verr.Add("password", "Password and password confirmation do not match.")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := s.passwords.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
	}
	if input.Email != "" {
		user.Email = sql.NullString{String: input.Email, Valid: true}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, phoneNumber, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.passwords.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, expiresIn, err := s.tokens.GenerateTokenPair(user.ID.String(), user.PhoneNumber)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}

// Profile returns the user's profile record.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, *models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return profile, user, nil
}
