package handler

import (
	"strconv"

	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(middleware.CurrentIdentity(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product.ToResponse()})
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(model.ProductResponses(products))
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product.ToResponse())
}

// SearchProducts matches ?q= against name or SKU
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	products, err := h.service.Search(middleware.CurrentIdentity(c), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(model.ProductResponses(products))
}

// AdvancedSearch filters by q, category, min_stock, min_price, max_price, in_stock
func (h *ProductHandler) AdvancedSearch(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Query:       c.Query("q"),
		Category:    c.Query("category"),
		InStockOnly: c.QueryBool("in_stock", false),
	}
	if v := c.Query("min_stock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "min_stock must be an integer")
		}
		filter.MinStock = &n
	}
	for key, dst := range map[string]**decimal.Decimal{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return badRequest(c, key+" must be a number")
		}
		*dst = &d
	}

	products, err := h.service.AdvancedSearch(middleware.CurrentIdentity(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(model.ProductResponses(products))
}

func (h *ProductHandler) StockHistory(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	history, err := h.service.StockHistory(middleware.CurrentIdentity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(history)
}

// Categories lists the suggested product categories
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(model.Categories)
}
