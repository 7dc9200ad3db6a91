package mocks

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/report"

	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) SalesReport(actor model.Identity, start, end time.Time) (*report.SalesReport, error) {
	args := m.Called(actor, start, end)
	if r := args.Get(0); r != nil {
		return r.(*report.SalesReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportService) StockReport(actor model.Identity, start, end time.Time) (*report.StockReport, error) {
	args := m.Called(actor, start, end)
	if r := args.Get(0); r != nil {
		return r.(*report.StockReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportService) Export(actor model.Identity, kind report.Kind, format report.Format, start, end time.Time) (*report.File, error) {
	args := m.Called(actor, kind, format, start, end)
	if f := args.Get(0); f != nil {
		return f.(*report.File), args.Error(1)
	}
	return nil, args.Error(1)
}
