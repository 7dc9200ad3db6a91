package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every HTTP handler mounted under /api/v1.
type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Products  *ProductHandler
	Ledger    *LedgerHandler
	Dashboard *DashboardHandler
	Reports   *ReportHandler
}

// RegisterRoutes mounts the API. Every protected route checks the caller's
// privilege before reaching its handler.
func RegisterRoutes(app *fiber.App, h *Handlers, auth middleware.Authenticator) {
	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(auth)
	can := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/reset-password", h.Auth.ResetPassword)
	authGroup.Post("/validate-token", h.Auth.ValidateToken)
	authGroup.Post("/logout", requireAuth, h.Auth.Logout)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	// Catalog
	protected.Get("/products", can(model.PrivProductView), h.Products.GetProducts)
	protected.Get("/products/search", can(model.PrivProductView), h.Products.SearchProducts)
	protected.Get("/products/advanced-search", can(model.PrivProductManage), h.Products.AdvancedSearch)
	// Categories feed both browsing and the create form.
	protected.Get("/products/categories", middleware.RequireAnyPrivilege(model.PrivProductView, model.PrivProductCreate), h.Products.Categories)
	protected.Get("/products/:id", can(model.PrivProductView), h.Products.GetProduct)
	protected.Get("/products/:id/stock-history", can(model.PrivProductManage), h.Products.StockHistory)
	protected.Get("/products/:id/position", can(model.PrivStockReconcile), h.Ledger.GetPosition)
	protected.Post("/products", can(model.PrivProductCreate), h.Products.CreateProduct)

	// Ledger
	protected.Post("/stock-additions", can(model.PrivStockAdd), h.Ledger.AddStock)
	protected.Get("/stock-movement", can(model.PrivStockReconcile), h.Ledger.StockMovement)
	protected.Post("/sales", can(model.PrivSaleCreate), h.Ledger.RecordSale)
	protected.Get("/sales", can(model.PrivSaleViewAll), h.Ledger.GetSales)
	protected.Get("/sales/mine", can(model.PrivSaleViewOwn), h.Ledger.GetMySales)
	protected.Get("/ledger", can(model.PrivReportView), h.Ledger.GetLedger)

	// Reports
	protected.Get("/reports/:type", can(model.PrivReportView), h.Reports.Generate)

	// Dashboards
	protected.Get("/dashboard/admin", can(model.PrivDashboardAdmin), h.Dashboard.GetAdminDashboard)
	protected.Get("/dashboard/employee", can(model.PrivDashboardEmployee), h.Dashboard.GetEmployeeDashboard)

	// User management
	protected.Get("/users", can(model.PrivUserManage), h.Users.GetUsers)
	protected.Post("/users", can(model.PrivUserManage), h.Users.CreateUser)
}
