package main

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// seed creates the bootstrap admin and, on request, a starter catalog.
func seed(cfg *config.Config, users repository.UserRepository, products repository.ProductRepository, catalog service.CatalogService, logger *zap.Logger) {
	admin, err := users.FindByUsername(cfg.AdminUsername)
	if err != nil {
		admin = &model.User{
			Username: cfg.AdminUsername,
			Email:    cfg.AdminEmail,
			Role:     model.RoleAdmin,
		}
		if err := admin.SetPassword(cfg.AdminPassword); err != nil {
			logger.Warn("Failed to hash admin password", zap.Error(err))
			return
		}
		if err := users.Create(admin); err != nil {
			logger.Warn("Failed to create admin user", zap.Error(err))
			return
		}
		logger.Info("Admin user created", zap.String("username", admin.Username))
	}

	if !cfg.SeedSampleData {
		return
	}
	if n, err := products.CountAll(); err != nil || n > 0 {
		return
	}

	samples := []service.CreateProductRequest{
		{Name: "Laptop", SKU: "ELEC-001", CostPrice: decimal.NewFromInt(1500000), SellingPrice: decimal.NewFromInt(1800000), QuantityInStock: 5, Category: "Electronics"},
		{Name: "Mouse", SKU: "ELEC-002", CostPrice: decimal.NewFromInt(25000), SellingPrice: decimal.NewFromInt(35000), QuantityInStock: 40, Category: "Electronics"},
		{Name: "T-Shirt", SKU: "CLTH-001", CostPrice: decimal.NewFromInt(15000), SellingPrice: decimal.NewFromInt(25000), QuantityInStock: 60, Category: "Clothing"},
		{Name: "Rice 5kg", SKU: "FOOD-001", CostPrice: decimal.NewFromInt(18000), SellingPrice: decimal.NewFromInt(22000), QuantityInStock: 8, Category: "Food"},
		{Name: "A4 Paper Ream", SKU: "OFF-001", CostPrice: decimal.NewFromInt(20000), SellingPrice: decimal.NewFromInt(26000), QuantityInStock: 30, Category: "Office Supplies"},
	}
	for i := range samples {
		if _, err := catalog.CreateProduct(admin.Identity(), &samples[i]); err != nil {
			logger.Warn("Failed to seed product", zap.String("sku", samples[i].SKU), zap.Error(err))
		}
	}
	logger.Info("Sample catalog seeded", zap.Int("products", len(samples)))
}
