package service

import (
	"context"
	"strings"
	"time"

	"github.com/SujalTripathi/slotswapper/core/cache"
	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/core/logger"
	"github.com/SujalTripathi/slotswapper/core/utils"
	"github.com/SujalTripathi/slotswapper/modules/auth/dto"
	"github.com/SujalTripathi/slotswapper/modules/auth/entity"
	"github.com/SujalTripathi/slotswapper/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.ICache
}

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.ICache) AuthServiceInterface {
	return &AuthService{
		repo:  repo,
		cache: cache,
	}
}

// Signup registers a new user and issues a token
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, *errors.AppError) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name, email and password are required", nil)
	}
	if len(req.Password) < 6 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "password must be at least 6 characters", nil)
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		logger.Error("AuthService:Signup:GenerateToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	return &dto.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	}, nil
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "email and password are required", nil)
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	return &dto.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	}, nil
}

// GetMe returns the profile for the authenticated user
func (s *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Logout blacklists the current token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		// Expired or malformed tokens need no blacklisting
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.BlacklistToken(ctx, token, ttl); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to revoke token", err)
	}
	return nil
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
