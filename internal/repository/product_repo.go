package repository

import (
	"strings"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows a catalog search. Every set field is AND-ed.
type ProductFilter struct {
	Query       string
	Category    string
	MinStock    *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Search(filter ProductFilter) ([]model.Product, error)
	FindLowStock() ([]model.Product, error)
	CountAll() (int64, error)
	CountInStock() (int64, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error)
	UpdatePrices(tx *gorm.DB, id uuid.UUID, costPrice, sellingPrice decimal.Decimal) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return conn(r.db, tx).Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Search(filter ProductFilter) ([]model.Product, error) {
	q := r.db.Model(&model.Product{})

	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinStock != nil {
		q = q.Where("quantity_in_stock >= ?", *filter.MinStock)
	}
	if filter.MinPrice != nil {
		q = q.Where("selling_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("selling_price <= ?", *filter.MaxPrice)
	}
	if filter.InStockOnly {
		q = q.Where("quantity_in_stock > 0")
	}

	var products []model.Product
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

// FindLowStock returns products at or below their own threshold.
func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("quantity_in_stock <= low_stock_threshold").
		Order("quantity_in_stock ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) CountInStock() (int64, error) {
	var n int64
	err := r.db.Model(&model.Product{}).Where("quantity_in_stock > 0").Count(&n).Error
	return n, err
}

// LockByID reads the product row with SELECT ... FOR UPDATE inside tx.
func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return conn(r.db, tx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", quantity)).Error
}

// DecrementStock lowers the counter only while enough stock remains. It reports
// false, without touching the row, when the guard does not hold.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	res := conn(r.db, tx).Model(&model.Product{}).
		Where("id = ? AND quantity_in_stock >= ?", id, quantity).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) UpdatePrices(tx *gorm.DB, id uuid.UUID, costPrice, sellingPrice decimal.Decimal) error {
	return conn(r.db, tx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cost_price":    costPrice,
			"selling_price": sellingPrice,
		}).Error
}
