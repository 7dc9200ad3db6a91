package mocks

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordStockAddition(actor model.Identity, req *service.StockAdditionRequest) (*service.StockAdditionResult, error) {
	args := m.Called(actor, req)
	if r := args.Get(0); r != nil {
		return r.(*service.StockAdditionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) RecordSale(actor model.Identity, req *service.SaleRequest) (*service.SaleResult, error) {
	args := m.Called(actor, req)
	if r := args.Get(0); r != nil {
		return r.(*service.SaleResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) ComputeStockPosition(productID uuid.UUID) (*model.StockPosition, error) {
	args := m.Called(productID)
	if r := args.Get(0); r != nil {
		return r.(*model.StockPosition), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) ReconcileAll() ([]model.StockPosition, error) {
	args := m.Called()
	if r := args.Get(0); r != nil {
		return r.([]model.StockPosition), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) QueryLedgerRange(start, end time.Time) (*model.LedgerRange, error) {
	args := m.Called(start, end)
	if r := args.Get(0); r != nil {
		return r.(*model.LedgerRange), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) ListSales(actor model.Identity) ([]model.Sale, error) {
	args := m.Called(actor)
	if r := args.Get(0); r != nil {
		return r.([]model.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) ListOwnSales(actor model.Identity) ([]model.Sale, error) {
	args := m.Called(actor)
	if r := args.Get(0); r != nil {
		return r.([]model.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}
