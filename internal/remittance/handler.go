package remittance

import (
	"errors"

	"github.com/Burmese-AI/Fyndora-sub003/internal/audit"
	"github.com/Burmese-AI/Fyndora-sub003/internal/auth"
	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RemittanceResponse struct {
	ID                  uuid.UUID               `json:"id"`
	WorkspaceTeamID     uuid.UUID               `json:"workspace_team_id"`
	WorkspaceTitle      string                  `json:"workspace_title,omitempty"`
	TeamTitle           string                  `json:"team_title,omitempty"`
	DueAmount           decimal.Decimal         `json:"due_amount"`
	PaidAmount          decimal.Decimal         `json:"paid_amount"`
	RemainingAmount     decimal.Decimal         `json:"remaining_amount"`
	Status              models.RemittanceStatus `json:"status"`
	PaidWithinDeadlines bool                    `json:"paid_within_deadlines"`
	IsOverpaid          bool                    `json:"is_overpaid"`
	ConfirmedByID       *uuid.UUID              `json:"confirmed_by_id"`
	ConfirmedAt         *string                 `json:"confirmed_at"`
	ReviewNotes         string                  `json:"review_notes,omitempty"`
	CreatedAt           string                  `json:"created_at"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ConfirmRequest struct {
	Notes string `json:"notes"`
}

func toResponse(r *models.Remittance) RemittanceResponse {
	res := RemittanceResponse{
		ID:                  r.ID,
		WorkspaceTeamID:     r.WorkspaceTeamID,
		DueAmount:           r.DueAmount,
		PaidAmount:          r.PaidAmount,
		RemainingAmount:     r.RemainingAmount(),
		Status:              r.Status,
		PaidWithinDeadlines: r.PaidWithinDeadlines,
		IsOverpaid:          r.IsOverpaid,
		ConfirmedByID:       r.ConfirmedByID,
		ReviewNotes:         r.ReviewNotes,
		CreatedAt:           r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.ConfirmedAt != nil {
		s := r.ConfirmedAt.Format("2006-01-02 15:04:05")
		res.ConfirmedAt = &s
	}
	if r.WorkspaceTeam.Workspace.Title != "" {
		res.WorkspaceTitle = r.WorkspaceTeam.Workspace.Title
	}
	if r.WorkspaceTeam.Team.Title != "" {
		res.TeamTitle = r.WorkspaceTeam.Team.Title
	}
	return res
}

// domainError maps service errors onto HTTP errors.
func domainError(err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, models.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Remittance not found")
	default:
		return err
	}
}

func getActor(c *fiber.Ctx) (uuid.UUID, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", fiber.NewError(fiber.StatusForbidden, "User information missing")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return uuid.Nil, "", fiber.NewError(fiber.StatusInternalServerError, "User not found")
	}

	return userID, user.Name, nil
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}

// GET /api/organizations/:orgID/remittances?workspace_id=&team_id=&status=&q=
func ListRemittancesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}

		f := Filter{OrganizationID: orgID, Search: c.Query("q")}

		if wsStr := c.Query("workspace_id"); wsStr != "" {
			wsID, err := uuid.Parse(wsStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "workspace_id is invalid")
			}
			f.WorkspaceID = &wsID
		}
		if teamStr := c.Query("team_id"); teamStr != "" {
			teamID, err := uuid.Parse(teamStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "team_id is invalid")
			}
			f.TeamID = &teamID
		}
		if statusStr := c.Query("status"); statusStr != "" {
			status := models.RemittanceStatus(statusStr)
			f.Status = &status
		}

		rems, err := List(f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list remittances")
		}

		res := make([]RemittanceResponse, 0, len(rems))
		for i := range rems {
			res = append(res, toResponse(&rems[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/remittances/:id
func GetRemittanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		rem, err := Get(id)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(toResponse(rem))
	}
}

// POST /api/remittances/:id/payments
func RecordPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		var body RecordPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before, err := Get(id)
		if err != nil {
			return domainError(err)
		}

		rem, err := RecordPayment(id, body.Amount)
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: orgIDPtr(before, before.WorkspaceTeam.Workspace.OrganizationID),
			UserID:         userID,
			UserName:       userName,
			EntityType:     "remittance",
			EntityID:       rem.ID,
			Action:         models.AuditActionPayment,
			Description:    "Payment of " + body.Amount.StringFixed(2) + " recorded",
			Before:         before,
			After:          rem,
		})

		return c.JSON(toResponse(rem))
	}
}

// POST /api/remittances/:id/confirm
func ConfirmRemittanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		var body ConfirmRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before, err := Get(id)
		if err != nil {
			return domainError(err)
		}

		rem, err := Confirm(id, userID, body.Notes)
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: orgIDPtr(before, before.WorkspaceTeam.Workspace.OrganizationID),
			UserID:         userID,
			UserName:       userName,
			EntityType:     "remittance",
			EntityID:       rem.ID,
			Action:         models.AuditActionConfirm,
			Description:    "Remittance payment confirmed",
			Before:         before,
			After:          rem,
		})

		return c.JSON(toResponse(rem))
	}
}

// POST /api/remittances/:id/cancel
func CancelRemittanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		before, err := Get(id)
		if err != nil {
			return domainError(err)
		}

		rem, err := Cancel(id)
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: orgIDPtr(before, before.WorkspaceTeam.Workspace.OrganizationID),
			UserID:         userID,
			UserName:       userName,
			EntityType:     "remittance",
			EntityID:       rem.ID,
			Action:         models.AuditActionCancel,
			Description:    "Remittance canceled",
			Before:         before,
			After:          rem,
		})

		return c.JSON(toResponse(rem))
	}
}

// POST /api/organizations/:orgID/remittances/sweep-overdue
func SweepOverdueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}

		flipped, err := SweepOverdue(orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Overdue sweep failed")
		}

		return c.JSON(fiber.Map{"flagged": flipped})
	}
}

func orgIDPtr(rem *models.Remittance, fallback uuid.UUID) *uuid.UUID {
	if rem != nil && rem.WorkspaceTeam.Workspace.OrganizationID != uuid.Nil {
		id := rem.WorkspaceTeam.Workspace.OrganizationID
		return &id
	}
	if fallback != uuid.Nil {
		return &fallback
	}
	return nil
}
