package service

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	recentSalesLimit = 10
	bestSellerLimit  = 5
	chartDays        = 7
	recentWindowDays = 30
)

type DashboardService interface {
	AdminDashboard(actor model.Identity) (*AdminDashboard, error)
	EmployeeDashboard(actor model.Identity) (*EmployeeDashboard, error)
}

type AdminDashboard struct {
	TotalProducts    int64                   `json:"total_products"`
	TotalStockValue  decimal.Decimal         `json:"total_stock_value"`
	TotalSalesAmount decimal.Decimal         `json:"total_sales_amount"`
	LowStockCount    int                     `json:"low_stock_count"`
	RecentSalesCount int64                   `json:"recent_sales_count"` // last 30 days
	BestSellers      []repository.BestSeller `json:"best_sellers"`
	RecentSales      []model.Sale            `json:"recent_sales"`
	LowStockProducts []model.ProductResponse `json:"low_stock_products"`
	DailySales       []DailySales            `json:"daily_sales"`
}

type EmployeeDashboard struct {
	RecentSales     []model.Sale    `json:"recent_sales"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	SalesCount      int64           `json:"sales_count"`
	ProductsInStock int64           `json:"products_in_stock"`
}

// DailySales is one bar of the sales chart.
type DailySales struct {
	Date   string          `json:"date"` // YYYY-MM-DD
	Amount decimal.Decimal `json:"amount"`
	Units  int             `json:"units"`
}

type dashboardService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

func NewDashboardService(pRepo repository.ProductRepository, sRepo repository.SaleRepository) DashboardService {
	return &dashboardService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) AdminDashboard(actor model.Identity) (*AdminDashboard, error) {
	if !actor.Can(model.PrivDashboardAdmin) {
		return nil, forbidden("view admin dashboard")
	}
	now := s.now()
	out := &AdminDashboard{TotalStockValue: decimal.Zero}

	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out.TotalProducts = int64(len(products))
	for i := range products {
		out.TotalStockValue = out.TotalStockValue.Add(products[i].TotalValue())
	}

	low, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, err
	}
	out.LowStockCount = len(low)
	out.LowStockProducts = model.ProductResponses(low)

	if out.TotalSalesAmount, err = s.saleRepo.TotalAmount(); err != nil {
		return nil, err
	}
	if out.RecentSalesCount, err = s.saleRepo.CountSince(now.AddDate(0, 0, -recentWindowDays)); err != nil {
		return nil, err
	}
	if out.BestSellers, err = s.saleRepo.BestSellers(bestSellerLimit); err != nil {
		return nil, err
	}
	if out.RecentSales, err = s.saleRepo.FindRecent(recentSalesLimit); err != nil {
		return nil, err
	}
	if out.DailySales, err = s.dailySales(now); err != nil {
		return nil, err
	}
	return out, nil
}

// dailySales buckets the last chartDays days of sales, oldest day first,
// including days without sales.
func (s *dashboardService) dailySales(now time.Time) ([]DailySales, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	first := today.AddDate(0, 0, -(chartDays - 1))

	sales, err := s.saleRepo.FindInRange(first, now)
	if err != nil {
		return nil, err
	}

	days := make([]DailySales, chartDays)
	index := make(map[string]int, chartDays)
	for i := range days {
		d := first.AddDate(0, 0, i).Format("2006-01-02")
		days[i] = DailySales{Date: d, Amount: decimal.Zero}
		index[d] = i
	}
	for _, sale := range sales {
		i, ok := index[sale.CreatedAt.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		days[i].Amount = days[i].Amount.Add(sale.TotalAmount)
		days[i].Units += sale.QuantitySold
	}
	return days, nil
}

func (s *dashboardService) EmployeeDashboard(actor model.Identity) (*EmployeeDashboard, error) {
	if !actor.Can(model.PrivDashboardEmployee) {
		return nil, forbidden("view employee dashboard")
	}
	out := &EmployeeDashboard{}
	var err error
	if out.RecentSales, err = s.saleRepo.FindByEmployee(actor.UserID, recentSalesLimit); err != nil {
		return nil, err
	}
	if out.TotalSales, err = s.saleRepo.TotalAmountByEmployee(actor.UserID); err != nil {
		return nil, err
	}
	if out.SalesCount, err = s.saleRepo.CountByEmployee(actor.UserID); err != nil {
		return nil, err
	}
	if out.ProductsInStock, err = s.productRepo.CountInStock(); err != nil {
		return nil, err
	}
	return out, nil
}
