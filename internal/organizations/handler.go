package organizations

import (
	"errors"

	"github.com/Burmese-AI/Fyndora-sub003/internal/auth"
	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "User information missing")
	}
	return userID, nil
}

func CreateOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req OrganizationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if req.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Organization title is required")
		}

		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		org := models.Organization{
			Title:       req.Title,
			Description: req.Description,
			OwnerID:     userID,
		}
		if err := database.DB.Create(&org).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Organization could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(org)
	}
}

func ListOrganizationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgs := make([]models.Organization, 0)
		if err := database.DB.Order("created_at DESC").Find(&orgs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list organizations")
		}
		return c.JSON(orgs)
	}
}

func GetOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var org models.Organization
		err = database.DB.Preload("Workspaces").Preload("Teams").First(&org, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Organization not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load organization")
		}
		return c.JSON(org)
	}
}

func UpdateOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var req OrganizationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var org models.Organization
		if err := database.DB.First(&org, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Organization not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load organization")
		}

		if req.Title != "" {
			org.Title = req.Title
		}
		if req.Description != "" {
			org.Description = req.Description
		}
		if err := database.DB.Save(&org).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update organization")
		}
		return c.JSON(org)
	}
}

func DeleteOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		res := database.DB.Delete(&models.Organization{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete organization")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Organization not found")
		}
		return c.JSON(fiber.Map{"message": "Organization deleted"})
	}
}
