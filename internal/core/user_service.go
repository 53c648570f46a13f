package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"investing-journal-go/internal/auth"
	"investing-journal-go/internal/db"
	"investing-journal-go/internal/models"
)

// Errors returned by the UserService.
var (
	ErrEmailTaken        = errors.New("user with this email already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// userService implements UserService.
type userService struct {
	userRepo    db.UserRepository
	jwtSecret   []byte
	jwtValidity time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(ur db.UserRepository, jwtSecret []byte, jwtValidity time.Duration, logger *zap.Logger) UserService {
	return &userService{
		userRepo:    ur,
		jwtSecret:   jwtSecret,
		jwtValidity: jwtValidity,
		logger:      logger,
	}
}

// Signup creates a user with a bcrypt-hashed password and issues a token.
// A taken email fails with ErrEmailTaken before any document is written.
func (s *userService) Signup(ctx context.Context, req models.SignupRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		VaultIDs:     []string{},
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(userID, user.Email, s.jwtSecret, s.jwtValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user signed up", zap.String("userID", userID))
	return &AuthResult{UserID: userID, Email: user.Email, Token: token}, nil
}

// Login verifies the password against the stored hash and issues a token.
// No token is issued on a wrong password.
func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrIncorrectPassword
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}
