package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/karanmanglani/RiskSentinel/internal/model"
	"github.com/karanmanglani/RiskSentinel/internal/pkg/googleauth"
	"github.com/karanmanglani/RiskSentinel/internal/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
)

// UserStore is the account persistence the auth service needs; satisfied
// by *repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type AuthService struct {
	users      UserStore
	jwtManager *jwt.Manager
	google     *googleauth.Verifier
}

func NewAuthService(users UserStore, jwtManager *jwt.Manager, google *googleauth.Verifier) *AuthService {
	return &AuthService{users: users, jwtManager: jwtManager, google: google}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        *model.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Provider:     model.ProviderEmail,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.tokenFor(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		// google-provisioned account without a password
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.tokenFor(user)
}

// GoogleLogin validates a Google ID token and provisions the user on first
// sign-in.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*TokenResponse, error) {
	email, err := s.google.VerifyEmail(ctx, idToken)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{Email: email, Provider: model.ProviderGoogle}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s.tokenFor(user)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) tokenFor(user *model.User) (*TokenResponse, error) {
	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.jwtManager.ExpiresInSeconds(),
		User:        user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
