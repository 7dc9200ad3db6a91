package mocks

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(actor model.Identity, req *service.CreateUserRequest) (*model.User, error) {
	args := m.Called(actor, req)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) ListUsers(actor model.Identity) ([]model.UserResponse, error) {
	args := m.Called(actor)
	if u := args.Get(0); u != nil {
		return u.([]model.UserResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) SetPassword(username, newPassword string) error {
	return m.Called(username, newPassword).Error(0)
}
