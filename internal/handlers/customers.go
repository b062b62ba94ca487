package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/glowdesk/internal/loyalty"
	"github.com/example/glowdesk/internal/middleware"
	"github.com/example/glowdesk/internal/services"
	"github.com/example/glowdesk/internal/utils"
)

// CustomerHandler exposes read endpoints over customer aggregates.
type CustomerHandler struct {
	loyalty *services.LoyaltyService
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(loyaltyService *services.LoyaltyService) *CustomerHandler {
	return &CustomerHandler{loyalty: loyaltyService}
}

// List returns the business's customers with derived visit state, newest
// last. Supports ?search= (phone substring) and page/limit pagination.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	staff, ok := middleware.GetCurrentStaff(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pagination := utils.ParsePagination(c)
	summaries, total, err := h.loyalty.ListCustomerAggregates(staff.BusinessID, c.Query("search"), pagination)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summaries,
		"meta": fiber.Map{
			"page":  pagination.Page,
			"limit": pagination.Limit,
			"total": total,
		},
	})
}

// Get returns a single customer with its derived visit state.
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	staff, ok := middleware.GetCurrentStaff(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	summary, err := h.loyalty.GetCustomerAggregate(staff.BusinessID, customerID)
	if err != nil {
		if errors.Is(err, loyalty.ErrUnknownCustomer) {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}
