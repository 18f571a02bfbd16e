package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
	"dukanBack/utils"
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
}

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *UserService) SignUp(ctx context.Context, u models.User) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	exists, err := s.UserRepo.EmailExists(ctx, u.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, models.ErrDuplicateEmail
	}
	if u.Phone != "" {
		exists, err := s.UserRepo.PhoneExists(ctx, u.Phone)
		if err != nil {
			return models.User{}, err
		}
		if exists {
			return models.User{}, models.ErrDuplicatePhone
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), 12)
	if err != nil {
		return models.User{}, err
	}
	u.Password = string(hashed)
	if u.Role == "" {
		u.Role = models.RoleStoreOwner
	}

	created, err := s.UserRepo.CreateUser(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	created.Password = ""
	return created, nil
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (models.User, AuthTokens, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == models.ErrUserNotFound {
		return models.User{}, AuthTokens{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, AuthTokens{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.User{}, AuthTokens{}, models.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.User{}, AuthTokens{}, err
	}
	user.Password = ""
	return user, tokens, nil
}

// Refresh rotates the refresh token and issues a fresh access token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	session, err := s.UserRepo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if session == (models.Session{}) || session.ExpiresAt.Before(time.Now()) {
		return AuthTokens{}, models.ErrInvalidCredentials
	}

	user, err := s.UserRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.UserRepo.DeleteSession(ctx, refreshToken); err != nil {
		return AuthTokens{}, err
	}
	return s.issueTokens(ctx, user)
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.UserRepo.DeleteSession(ctx, refreshToken)
}

func (s *UserService) issueTokens(ctx context.Context, user models.User) (AuthTokens, error) {
	access, err := s.TokenManager.NewJWT(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, err := s.TokenManager.NewRefreshToken()
	if err != nil {
		return AuthTokens{}, err
	}
	err = s.UserRepo.CreateSession(ctx, models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	})
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
