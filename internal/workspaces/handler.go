package workspaces

import (
	"errors"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/audit"
	"github.com/Burmese-AI/Fyndora-sub003/internal/auth"
	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateWorkspaceRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	RemittanceRate *decimal.Decimal `json:"remittance_rate"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
}

type UpdateWorkspaceRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Status         *string          `json:"status"`
	RemittanceRate *decimal.Decimal `json:"remittance_rate"`
	EndDate        *time.Time       `json:"end_date"`
}

type CreateTeamRequest struct {
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	CustomRemittanceRate *decimal.Decimal `json:"custom_remittance_rate"`
}

type AddTeamRequest struct {
	TeamID uuid.UUID `json:"team_id"`
}

func domainError(err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, models.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Record not found")
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

func CreateWorkspaceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}

		var req CreateWorkspaceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		in := CreateWorkspaceInput{
			OrganizationID: orgID,
			Title:          req.Title,
			Description:    req.Description,
			RemittanceRate: req.RemittanceRate,
			EndDate:        req.EndDate,
		}
		if req.StartDate != nil {
			in.StartDate = *req.StartDate
		}

		ws, err := CreateWorkspace(in)
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &orgID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "workspace",
			EntityID:       ws.ID,
			Action:         models.AuditActionCreate,
			Description:    "Workspace created",
			After:          ws,
		})

		return c.Status(fiber.StatusCreated).JSON(ws)
	}
}

func UpdateWorkspaceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var req UpdateWorkspaceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		before, err := GetWorkspace(id)
		if err != nil {
			return domainError(err)
		}

		in := UpdateWorkspaceInput{
			Title:          req.Title,
			Description:    req.Description,
			RemittanceRate: req.RemittanceRate,
			EndDate:        req.EndDate,
		}
		if req.Status != nil {
			st := models.WorkspaceStatus(*req.Status)
			in.Status = &st
		}

		ws, err := UpdateWorkspace(id, in)
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &ws.OrganizationID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "workspace",
			EntityID:       ws.ID,
			Action:         models.AuditActionUpdate,
			Description:    "Workspace updated",
			Before:         before,
			After:          ws,
		})

		return c.JSON(ws)
	}
}

func ListWorkspacesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}
		list, err := ListWorkspaces(orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list workspaces")
		}
		return c.JSON(list)
	}
}

func GetWorkspaceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}
		ws, err := GetWorkspace(id)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(ws)
	}
}

func DeleteWorkspaceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		before, err := GetWorkspace(id)
		if err != nil {
			return domainError(err)
		}

		if err := DeleteWorkspace(id); err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &before.OrganizationID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "workspace",
			EntityID:       before.ID,
			Action:         models.AuditActionDelete,
			Description:    "Workspace deleted",
			Before:         before,
		})

		return c.JSON(fiber.Map{"message": "Workspace deleted"})
	}
}

func CreateTeamHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}

		var req CreateTeamRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		team, err := CreateTeam(CreateTeamInput{
			OrganizationID:       orgID,
			Title:                req.Title,
			Description:          req.Description,
			CustomRemittanceRate: req.CustomRemittanceRate,
		})
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &orgID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "team",
			EntityID:       team.ID,
			Action:         models.AuditActionCreate,
			Description:    "Team created",
			After:          team,
		})

		return c.Status(fiber.StatusCreated).JSON(team)
	}
}

func ListTeamsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}
		list, err := ListTeams(orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list teams")
		}
		return c.JSON(list)
	}
}

func DeleteTeamHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		before, err := GetTeam(id)
		if err != nil {
			return domainError(err)
		}

		if err := DeleteTeam(id); err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &before.OrganizationID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "team",
			EntityID:       before.ID,
			Action:         models.AuditActionDelete,
			Description:    "Team deleted",
			Before:         before,
		})

		return c.JSON(fiber.Map{"message": "Team deleted"})
	}
}

func AddTeamToWorkspaceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		workspaceID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var req AddTeamRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		wt, err := AddTeamToWorkspace(workspaceID, req.TeamID)
		if err != nil {
			return domainError(err)
		}

		ws, err := GetWorkspace(workspaceID)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				OrganizationID: &ws.OrganizationID,
				UserID:         userID,
				UserName:       userName,
				EntityType:     "workspace_team",
				EntityID:       wt.ID,
				Action:         models.AuditActionCreate,
				Description:    "Team added to workspace",
				After:          wt,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(wt)
	}
}

func RemoveTeamFromWorkspaceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		workspaceID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}
		teamID, err := parseIDParam(c, "teamID")
		if err != nil {
			return err
		}

		if err := RemoveTeamFromWorkspace(workspaceID, teamID); err != nil {
			return domainError(err)
		}
		return c.JSON(fiber.Map{"message": "Team removed from workspace"})
	}
}

func ListWorkspaceTeamsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		workspaceID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}
		list, err := ListWorkspaceTeams(workspaceID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list workspace teams")
		}
		return c.JSON(list)
	}
}
