package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetAdminDashboard returns shop-wide statistics
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	stats, err := h.service.AdminDashboard(middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetEmployeeDashboard returns the caller's own sales figures
func (h *DashboardHandler) GetEmployeeDashboard(c *fiber.Ctx) error {
	stats, err := h.service.EmployeeDashboard(middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
