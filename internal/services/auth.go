package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"courseforge-backend/internal/middleware"
	"courseforge-backend/internal/models"
	"courseforge-backend/internal/repository"
)

// AuthService manages accounts in the flat local user list. Passwords are
// stored and compared in plaintext: this system is explicitly not a
// hardened auth design, just enough identity to tag saved work.
type AuthService struct {
	userRepo *repository.UserRepo
	jwt      *middleware.JWTAuth
}

func NewAuthService(userRepo *repository.UserRepo, jwt *middleware.JWTAuth) *AuthService {
	return &AuthService{userRepo: userRepo, jwt: jwt}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	fieldErrors := make(map[string]string)

	if req.FullName == "" {
		fieldErrors["full_name"] = "Full name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if len(req.Password) < 6 {
		fieldErrors["password"] = "Password must be at least 6 characters"
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already in use"}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	stored := &models.StoredUser{
		ID:        uuid.New(),
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	return userFromStored(stored), nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	stored, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}
	if err != nil {
		return nil, err
	}

	if stored.Password != req.Password {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	token, err := s.jwt.GenerateAccessToken(stored.ID, stored.Email)
	if err != nil {
		return nil, err
	}

	return &models.AuthTokens{
		AccessToken: token,
		ExpiresIn:   int(middleware.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	stored, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "User not found"}
	}
	if err != nil {
		return nil, err
	}
	return userFromStored(stored), nil
}

func userFromStored(u *models.StoredUser) *models.User {
	return &models.User{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}
