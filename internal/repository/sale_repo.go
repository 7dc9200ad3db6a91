package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindRecent(limit int) ([]model.Sale, error)
	FindByEmployee(employeeID uuid.UUID, limit int) ([]model.Sale, error)
	FindInRange(start, end time.Time) ([]model.Sale, error)
	SumQuantity(productID uuid.UUID) (int, error)
	QuantityTotalsByProduct() (map[uuid.UUID]int, error)
	TotalAmount() (decimal.Decimal, error)
	TotalAmountByEmployee(employeeID uuid.UUID) (decimal.Decimal, error)
	CountByEmployee(employeeID uuid.UUID) (int64, error)
	CountSince(since time.Time) (int64, error)
	BestSellers(limit int) ([]BestSeller, error)
}

// BestSeller is a product ranked by units sold.
type BestSeller struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	TotalSold int64     `json:"total_sold"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return conn(r.db, tx).Create(sale).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").Preload("Employee").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindRecent(limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").Preload("Employee").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

// FindByEmployee returns an employee's sales, newest first. limit <= 0 means all.
func (r *saleRepo) FindByEmployee(employeeID uuid.UUID, limit int) ([]model.Sale, error) {
	q := r.db.Preload("Product").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var sales []model.Sale
	err := q.Find(&sales).Error
	return sales, err
}

// FindInRange returns sales with created_at in [start, end], oldest first.
func (r *saleRepo) FindInRange(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").Preload("Employee").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SumQuantity(productID uuid.UUID) (int, error) {
	var total int64
	err := r.db.Model(&model.Sale{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity_sold), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *saleRepo) QuantityTotalsByProduct() (map[uuid.UUID]int, error) {
	var rows []productTotal
	err := r.db.Model(&model.Sale{}).
		Select("product_id, COALESCE(SUM(quantity_sold), 0) AS total").
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return totalsMap(rows), nil
}

func (r *saleRepo) TotalAmount() (decimal.Decimal, error) {
	return r.sumAmount(r.db.Model(&model.Sale{}))
}

func (r *saleRepo) TotalAmountByEmployee(employeeID uuid.UUID) (decimal.Decimal, error) {
	return r.sumAmount(r.db.Model(&model.Sale{}).Where("employee_id = ?", employeeID))
}

// sumAmount rounds to cents; some drivers hand SUM back as a float.
func (r *saleRepo) sumAmount(q *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

func (r *saleRepo) CountByEmployee(employeeID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.Model(&model.Sale{}).Where("employee_id = ?", employeeID).Count(&n).Error
	return n, err
}

func (r *saleRepo) CountSince(since time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&model.Sale{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *saleRepo) BestSellers(limit int) ([]BestSeller, error) {
	var out []BestSeller
	err := r.db.Model(&model.Sale{}).
		Select("products.id AS product_id, products.name AS name, SUM(sales.quantity_sold) AS total_sold").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("products.id, products.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
