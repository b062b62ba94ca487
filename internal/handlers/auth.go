package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/glowdesk/internal/config"
	"github.com/example/glowdesk/internal/models"
	"github.com/example/glowdesk/internal/utils"
)

// AuthHandler bundles dependencies for staff authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	BusinessName string `json:"business_name"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// Register creates a new business together with its first staff account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.BusinessName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	var existing models.StaffUser
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "staff user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	business := models.Business{Name: req.BusinessName}
	staff := models.StaffUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		staff.BusinessID = business.ID
		return tx.Create(&staff).Error
	})
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, staff.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"business": fiber.Map{
			"id":   business.ID,
			"name": business.Name,
		},
		"staff": fiber.Map{
			"id":    staff.ID,
			"name":  staff.Name,
			"email": staff.Email,
		},
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing staff user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var staff models.StaffUser
	if err := h.db.Where("email = ?", req.Email).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(staff.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, staff.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"staff": fiber.Map{
			"id":          staff.ID,
			"name":        staff.Name,
			"email":       staff.Email,
			"business_id": staff.BusinessID,
		},
		"token": token,
	})
}
