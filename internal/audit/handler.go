package audit

import (
	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID             uuid.UUID          `json:"id"`
	CreatedAt      string             `json:"created_at"`
	OrganizationID *uuid.UUID         `json:"organization_id"`
	UserID         uuid.UUID          `json:"user_id"`
	UserName       string             `json:"user_name"`
	EntityType     string             `json:"entity_type"`
	EntityID       uuid.UUID          `json:"entity_id"`
	Action         models.AuditAction `json:"action"`
	Description    string             `json:"description"`
}

// GET /api/audit-logs?organization_id=...&entity_type=remittance&entity_id=...
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if orgIDStr := c.Query("organization_id"); orgIDStr != "" {
			orgID, err := uuid.Parse(orgIDStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "organization_id is invalid")
			}
			dbq = dbq.Where("organization_id = ?", orgID)
		}

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}

		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			entityID, err := uuid.Parse(entityIDStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id is invalid")
			}
			dbq = dbq.Where("entity_id = ?", entityID)
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		res := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			res = append(res, AuditLogResponse{
				ID:             l.ID,
				CreatedAt:      l.CreatedAt.Format("2006-01-02 15:04:05"),
				OrganizationID: l.OrganizationID,
				UserID:         l.UserID,
				UserName:       l.UserName,
				EntityType:     l.EntityType,
				EntityID:       l.EntityID,
				Action:         l.Action,
				Description:    l.Description,
			})
		}
		return c.JSON(res)
	}
}
