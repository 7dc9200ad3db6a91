package mocks

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(username, password string) (*service.LoginResponse, error) {
	args := m.Called(username, password)
	if r := args.Get(0); r != nil {
		return r.(*service.LoginResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Logout(actor model.Identity) error {
	return m.Called(actor).Error(0)
}

func (m *MockAuthService) Register(req *service.RegisterRequest) (*model.User, error) {
	args := m.Called(req)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) ResetPassword(req *service.ResetPasswordRequest) error {
	return m.Called(req).Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.TokenValidationResponse, error) {
	args := m.Called(tokenString)
	if r := args.Get(0); r != nil {
		return r.(*service.TokenValidationResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Authenticate(tokenString string) (model.Identity, error) {
	args := m.Called(tokenString)
	return args.Get(0).(model.Identity), args.Error(1)
}
