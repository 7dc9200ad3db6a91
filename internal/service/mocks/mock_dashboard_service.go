package mocks

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) AdminDashboard(actor model.Identity) (*service.AdminDashboard, error) {
	args := m.Called(actor)
	if d := args.Get(0); d != nil {
		return d.(*service.AdminDashboard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardService) EmployeeDashboard(actor model.Identity) (*service.EmployeeDashboard, error) {
	args := m.Called(actor)
	if d := args.Get(0); d != nil {
		return d.(*service.EmployeeDashboard), args.Error(1)
	}
	return nil, args.Error(1)
}
