package service

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/jwt"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionRevoked     = errors.New("session expired (logged out or logged in elsewhere)")
)

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Logout(actor model.Identity) error
	Register(req *RegisterRequest) (*model.User, error)
	ResetPassword(req *ResetPasswordRequest) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Authenticate(tokenString string) (model.Identity, error)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Single session: a new token version revokes older tokens
	user.TokenVersion = uuid.NewString()
	if err := s.userRepo.UpdateTokenVersion(user.ID, user.TokenVersion); err != nil {
		return nil, errors.Wrap(err, "update session")
	}

	// 4. Sign token
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "generate token")
	}

	s.logger.Info("User logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Privileges: user.Role.Privileges(),
	}, nil
}

func (s *authService) Logout(actor model.Identity) error {
	if err := s.userRepo.UpdateTokenVersion(actor.UserID, uuid.NewString()); err != nil {
		return errors.Wrap(err, "revoke session")
	}
	s.logger.Info("User logged out", zap.String("username", actor.Username))
	return nil
}

// Register creates a self-service account; it is always an employee.
func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	if msg := validator.Summary(req); msg != "" {
		return nil, invalid("%s", msg)
	}
	user, err := createUser(s.userRepo, req.Username, req.Email, req.Password, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("username", user.Username))
	return user, nil
}

func (s *authService) ResetPassword(req *ResetPasswordRequest) error {
	if msg := validator.Summary(req); msg != "" {
		return invalid("%s", msg)
	}

	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return lookupErr(err, "user %q", req.Username)
	}

	// 2. Verify old password
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}

	// 3. Hash and store the new password
	if err := user.SetPassword(req.NewPassword); err != nil {
		return errors.Wrap(err, "hash password")
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}

	// 4. Invalidate existing sessions
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.NewString())
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	user, err := s.currentUser(tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Privileges: user.Role.Privileges(),
	}, nil
}

// Authenticate resolves a bearer token to the identity of a live session.
func (s *authService) Authenticate(tokenString string) (model.Identity, error) {
	user, err := s.currentUser(tokenString)
	if err != nil {
		return model.Identity{}, err
	}
	return user.Identity(), nil
}

func (s *authService) currentUser(tokenString string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Strict session: the token must carry the current version
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionRevoked
	}
	return user, nil
}
