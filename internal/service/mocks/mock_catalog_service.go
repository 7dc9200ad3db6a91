package mocks

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateProduct(actor model.Identity, req *service.CreateProductRequest) (*model.Product, error) {
	args := m.Called(actor, req)
	if p := args.Get(0); p != nil {
		return p.(*model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ListProducts(actor model.Identity) ([]model.Product, error) {
	args := m.Called(actor)
	if p := args.Get(0); p != nil {
		return p.([]model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	args := m.Called(id)
	if p := args.Get(0); p != nil {
		return p.(*model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) Search(actor model.Identity, query string) ([]model.Product, error) {
	args := m.Called(actor, query)
	if p := args.Get(0); p != nil {
		return p.([]model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) AdvancedSearch(actor model.Identity, filter repository.ProductFilter) ([]model.Product, error) {
	args := m.Called(actor, filter)
	if p := args.Get(0); p != nil {
		return p.([]model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) StockHistory(actor model.Identity, productID uuid.UUID) ([]model.StockAddition, error) {
	args := m.Called(actor, productID)
	if h := args.Get(0); h != nil {
		return h.([]model.StockAddition), args.Error(1)
	}
	return nil, args.Error(1)
}
