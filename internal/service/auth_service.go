package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"hospital-directory/internal/models"
	"hospital-directory/internal/repository"
	"hospital-directory/pkg/apperror"
	"hospital-directory/pkg/utils"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	auditRepo AuditLogger

	// registerMu serializes the user count and insert of Register
	registerMu sync.Mutex
}

func NewAuthService(userRepo *repository.UserRepository, auditRepo AuditLogger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if apperror.Is(err, apperror.ErrorTypeNotFound) {
			return nil, apperror.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, apperror.NewUnauthorizedError("invalid credentials")
	}

	response, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	audit(ctx, s.auditRepo, user.ID, "user_login", fmt.Sprintf("User %s logged in", user.Username))
	return response, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	tokenHash := utils.HashRefreshToken(refreshToken)

	token, err := s.userRepo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if apperror.Is(err, apperror.ErrorTypeNotFound) {
			return "", apperror.NewUnauthorizedError("invalid or revoked refresh token")
		}
		return "", err
	}

	if time.Now().After(token.ExpiresAt) {
		return "", apperror.NewUnauthorizedError("refresh token expired")
	}

	user, err := s.userRepo.FindUserByID(ctx, token.UserID)
	if err != nil {
		if apperror.Is(err, apperror.ErrorTypeNotFound) {
			return "", apperror.NewUnauthorizedError("invalid or revoked refresh token")
		}
		return "", err
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", apperror.NewInternalError("failed to generate access token", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := utils.HashRefreshToken(refreshToken)

	if err := s.userRepo.RevokeRefreshTokenByHash(ctx, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Register creates a new user account. The first account is always an admin;
// after that only an admin (callerRole) may create another admin.
func (s *AuthService) Register(ctx context.Context, username, password string, role, callerRole models.Role) (*LoginResponse, error) {
	username = strings.TrimSpace(username)
	if role == "" {
		role = models.RoleUser
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.createUser(ctx, username, passwordHash, role, callerRole)
	if err != nil {
		return nil, err
	}
	response, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	audit(ctx, s.auditRepo, user.ID, "user_registration", fmt.Sprintf("User %s registered as %s", username, user.Role))
	return response, nil
}

// createUser applies the role policy and inserts the user while holding
// registerMu, so concurrent registrations on an empty store yield one admin
func (s *AuthService) createUser(ctx context.Context, username, passwordHash string, role, callerRole models.Role) (*models.User, error) {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if _, err := s.userRepo.FindUserByUsername(ctx, username); err == nil {
		return nil, apperror.NewConflictError("username already exists", nil)
	} else if !apperror.Is(err, apperror.ErrorTypeNotFound) {
		return nil, err
	}

	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case users == 0:
		role = models.RoleAdmin
	case role == models.RoleAdmin && callerRole != models.RoleAdmin:
		return nil, apperror.NewForbiddenError("only an admin can create another admin")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// issueTokens creates an access token and stores a hashed refresh token
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate refresh token", err)
	}

	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.userRepo.CreateRefreshToken(ctx, refreshTokenModel); err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}
