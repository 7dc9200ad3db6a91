package service

import (
	"strings"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type UserService interface {
	CreateUser(actor model.Identity, req *CreateUserRequest) (*model.User, error)
	ListUsers(actor model.Identity) ([]model.UserResponse, error)
	SetPassword(username, newPassword string) error
}

type CreateUserRequest struct {
	Username string     `json:"username" validate:"required,min=3,max=80"`
	Email    string     `json:"email" validate:"required,email,max=120"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role" validate:"required,oneof=admin employee"`
}

type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) CreateUser(actor model.Identity, req *CreateUserRequest) (*model.User, error) {
	if !actor.Can(model.PrivUserManage) {
		return nil, forbidden("create user")
	}
	if msg := validator.Summary(req); msg != "" {
		return nil, invalid("%s", msg)
	}

	user, err := createUser(s.userRepo, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("created_by", actor.Username))
	return user, nil
}

func (s *userService) ListUsers(actor model.Identity) ([]model.UserResponse, error) {
	if !actor.Can(model.PrivUserManage) {
		return nil, forbidden("list users")
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

// SetPassword overwrites a password without the old one and revokes the user's
// sessions. It backs the operator CLI.
func (s *userService) SetPassword(username, newPassword string) error {
	if len(newPassword) < 6 {
		return invalid("password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return lookupErr(err, "user %q", username)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.Wrap(err, "hash password")
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.NewString())
}

func createUser(repo repository.UserRepository, username, email, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}

	// 1. Username and email must be unique
	if existing, _ := repo.FindByUsername(username); existing != nil {
		return nil, invalid("username %q already exists", username)
	}
	if existing, _ := repo.FindByEmail(email); existing != nil {
		return nil, invalid("email %q already exists", email)
	}

	// 2. Hash password and save
	user := &model.User{Username: username, Email: email, Role: role}
	if err := user.SetPassword(password); err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	if err := repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
