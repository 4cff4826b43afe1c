package entries

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

type CreateEntryRequest struct {
	WorkspaceTeamID uuid.UUID       `json:"workspace_team_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	OccurredAt      *time.Time      `json:"occurred_at"`
}

type ReviewEntryRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type EntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrganizationID  uuid.UUID       `json:"organization_id"`
	WorkspaceID     uuid.UUID       `json:"workspace_id"`
	WorkspaceTeamID uuid.UUID       `json:"workspace_team_id"`
	WorkspaceTitle  string          `json:"workspace_title,omitempty"`
	TeamTitle       string          `json:"team_title,omitempty"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Status          string          `json:"status"`
	OccurredAt      time.Time       `json:"occurred_at"`
	ReviewNotes     string          `json:"review_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toResponse(e *models.Entry) EntryResponse {
	res := EntryResponse{
		ID:              e.ID,
		OrganizationID:  e.OrganizationID,
		WorkspaceID:     e.WorkspaceID,
		WorkspaceTeamID: e.WorkspaceTeamID,
		Type:            string(e.Type),
		Amount:          e.Amount,
		Description:     e.Description,
		Status:          string(e.Status),
		OccurredAt:      e.OccurredAt,
		ReviewNotes:     e.ReviewNotes,
		CreatedAt:       e.CreatedAt,
	}
	if e.WorkspaceTeam.Workspace.Title != "" {
		res.WorkspaceTitle = e.WorkspaceTeam.Workspace.Title
	}
	if e.WorkspaceTeam.Team.Title != "" {
		res.TeamTitle = e.WorkspaceTeam.Team.Title
	}
	return res
}

func domainError(err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, models.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Entry not found")
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

// GET /api/organizations/:orgID/entries?workspace_id=&workspace_team_id=&type=&status=&q=
func ListEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}

		f := Filter{OrganizationID: orgID, Search: c.Query("q")}
		if ws := c.Query("workspace_id"); ws != "" {
			id, err := uuid.Parse(ws)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "workspace_id is invalid")
			}
			f.WorkspaceID = &id
		}
		if wt := c.Query("workspace_team_id"); wt != "" {
			id, err := uuid.Parse(wt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "workspace_team_id is invalid")
			}
			f.WorkspaceTeamID = &id
		}
		if t := c.Query("type"); t != "" {
			et := models.EntryType(t)
			f.Type = &et
		}
		if s := c.Query("status"); s != "" {
			es := models.EntryStatus(s)
			f.Status = &es
		}

		list, err := List(f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list entries")
		}

		out := make([]EntryResponse, 0, len(list))
		for i := range list {
			out = append(out, toResponse(&list[i]))
		}
		return c.JSON(out)
	}
}

func GetEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}
		entry, err := Get(id)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(toResponse(entry))
	}
}

func CreateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		in := CreateInput{
			WorkspaceTeamID: req.WorkspaceTeamID,
			Type:            models.EntryType(req.Type),
			Amount:          req.Amount,
			Description:     req.Description,
		}
		if req.OccurredAt != nil {
			in.OccurredAt = *req.OccurredAt
		}

		entry, err := Create(in)
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &entry.OrganizationID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "entry",
			EntityID:       entry.ID,
			Action:         models.AuditActionCreate,
			Description:    "Entry created",
			After:          entry,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(entry))
	}
}

func ReviewEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var req ReviewEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		userID, userName, err := getActor(c)
		if err != nil {
			return err
		}

		before, err := Get(id)
		if err != nil {
			return domainError(err)
		}

		entry, err := Review(id, userID, models.EntryStatus(req.Status), req.Notes)
		if err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &entry.OrganizationID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "entry",
			EntityID:       entry.ID,
			Action:         models.AuditActionUpdate,
			Description:    "Entry reviewed: " + string(entry.Status),
			Before:         before,
			After:          entry,
		})

		return c.JSON(toResponse(entry))
	}
}

func DeleteEntryHandler() fiber.Handler {
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

		if err := Delete(id); err != nil {
			return domainError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			OrganizationID: &before.OrganizationID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "entry",
			EntityID:       before.ID,
			Action:         models.AuditActionDelete,
			Description:    "Entry deleted",
			Before:         before,
		})

		return c.JSON(fiber.Map{"message": "Entry deleted"})
	}
}

// GET /api/organizations/:orgID/entries/stats?workspace_id=&workspace_team_id=&type=
func GetEntryStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := parseIDParam(c, "orgID")
		if err != nil {
			return err
		}

		f := Filter{OrganizationID: orgID}
		if ws := c.Query("workspace_id"); ws != "" {
			id, err := uuid.Parse(ws)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "workspace_id is invalid")
			}
			f.WorkspaceID = &id
		}
		if wt := c.Query("workspace_team_id"); wt != "" {
			id, err := uuid.Parse(wt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "workspace_team_id is invalid")
			}
			f.WorkspaceTeamID = &id
		}
		if t := c.Query("type"); t != "" {
			et := models.EntryType(t)
			f.Type = &et
		}

		stats, err := GetStats(f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute entry stats")
		}
		return c.JSON(stats)
	}
}
