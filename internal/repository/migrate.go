package repository

import (
	"go-retail-pos/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the four ledger relations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Product{}, &model.StockAddition{}, &model.Sale{})
}

// conn picks the transaction handle when one is given.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
