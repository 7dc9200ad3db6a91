package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockAdditionRepository interface {
	Create(tx *gorm.DB, addition *model.StockAddition) error
	FindByProduct(productID uuid.UUID) ([]model.StockAddition, error)
	FindInRange(start, end time.Time) ([]model.StockAddition, error)
	SumQuantity(productID uuid.UUID) (int, error)
	QuantityTotalsByProduct() (map[uuid.UUID]int, error)
}

type stockAdditionRepo struct {
	db *gorm.DB
}

func NewStockAdditionRepo(db *gorm.DB) StockAdditionRepository {
	return &stockAdditionRepo{db}
}

func (r *stockAdditionRepo) Create(tx *gorm.DB, addition *model.StockAddition) error {
	return conn(r.db, tx).Create(addition).Error
}

// FindByProduct returns a product's stock history, newest first.
func (r *stockAdditionRepo) FindByProduct(productID uuid.UUID) ([]model.StockAddition, error) {
	var additions []model.StockAddition
	err := r.db.Preload("AddedBy").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&additions).Error
	return additions, err
}

// FindInRange returns additions with created_at in [start, end], oldest first.
func (r *stockAdditionRepo) FindInRange(start, end time.Time) ([]model.StockAddition, error) {
	var additions []model.StockAddition
	err := r.db.Preload("Product").Preload("AddedBy").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at ASC").
		Find(&additions).Error
	return additions, err
}

func (r *stockAdditionRepo) SumQuantity(productID uuid.UUID) (int, error) {
	var total int64
	err := r.db.Model(&model.StockAddition{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity_added), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *stockAdditionRepo) QuantityTotalsByProduct() (map[uuid.UUID]int, error) {
	var rows []productTotal
	err := r.db.Model(&model.StockAddition{}).
		Select("product_id, COALESCE(SUM(quantity_added), 0) AS total").
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return totalsMap(rows), nil
}

type productTotal struct {
	ProductID uuid.UUID
	Total     int64
}

func totalsMap(rows []productTotal) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.ProductID] = int(row.Total)
	}
	return out
}
