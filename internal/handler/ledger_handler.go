package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(s service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// AddStock records a stock addition, optionally repricing the product
// POST /api/v1/stock-additions
func (h *LedgerHandler) AddStock(c *fiber.Ctx) error {
	var req service.StockAdditionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.service.RecordStockAddition(middleware.CurrentIdentity(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Stock added",
		"product":  res.Product.ToResponse(),
		"addition": res.Addition,
	})
}

// RecordSale sells from stock at the current selling price
// POST /api/v1/sales
func (h *LedgerHandler) RecordSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.service.RecordSale(middleware.CurrentIdentity(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sale recorded",
		"product": res.Product.ToResponse(),
		"sale":    res.Sale,
	})
}

func (h *LedgerHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}

func (h *LedgerHandler) GetMySales(c *fiber.Ctx) error {
	sales, err := h.service.ListOwnSales(middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}

// GetPosition reconciles one product against its ledger
// GET /api/v1/products/:id/position
func (h *LedgerHandler) GetPosition(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	pos, err := h.service.ComputeStockPosition(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": pos, "reconciled": pos.Reconciled()})
}

// StockMovement reconciles every product
// GET /api/v1/stock-movement
func (h *LedgerHandler) StockMovement(c *fiber.Ctx) error {
	positions, err := h.service.ReconcileAll()
	if err != nil {
		return fail(c, err)
	}
	mismatched := 0
	for _, p := range positions {
		if !p.Reconciled() {
			mismatched++
		}
	}
	return c.JSON(fiber.Map{"data": positions, "mismatched": mismatched})
}

// GetLedger returns ledger rows between ?start= and ?end= (YYYY-MM-DD)
// GET /api/v1/ledger
func (h *LedgerHandler) GetLedger(c *fiber.Ctx) error {
	start, end, err := service.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return fail(c, err)
	}
	rng, err := h.service.QueryLedgerRange(start, end)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rng)
}
