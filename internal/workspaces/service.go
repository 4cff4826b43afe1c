package workspaces

import (
	"errors"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"
	"github.com/Burmese-AI/Fyndora-sub003/internal/remittance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var zeroDue = decimal.Zero

type CreateWorkspaceInput struct {
	OrganizationID uuid.UUID
	Title          string
	Description    string
	RemittanceRate *decimal.Decimal
	StartDate      time.Time
	EndDate        *time.Time
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return models.NewValidationError("Remittance rate must be between 0 and 100")
	}
	return nil
}

// CreateWorkspace creates a workspace under an organization. The remittance
// rate falls back to the default when not provided.
func CreateWorkspace(in CreateWorkspaceInput) (*models.Workspace, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Workspace title is required")
	}

	rate := models.DefaultRemittanceRate
	if in.RemittanceRate != nil {
		rate = *in.RemittanceRate
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}

	startDate := in.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}
	if in.EndDate != nil && in.EndDate.Before(startDate) {
		return nil, models.NewValidationError("End date cannot be before the start date")
	}

	ws := &models.Workspace{
		OrganizationID: in.OrganizationID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         models.WorkspaceStatusActive,
		RemittanceRate: rate,
		StartDate:      startDate,
		EndDate:        in.EndDate,
	}
	if err := database.DB.Create(ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

type UpdateWorkspaceInput struct {
	Title          *string
	Description    *string
	Status         *models.WorkspaceStatus
	RemittanceRate *decimal.Decimal
	EndDate        *time.Time
}

func UpdateWorkspace(id uuid.UUID, in UpdateWorkspaceInput) (*models.Workspace, error) {
	ws, err := GetWorkspace(id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Workspace title is required")
		}
		ws.Title = *in.Title
	}
	if in.Description != nil {
		ws.Description = *in.Description
	}
	if in.Status != nil {
		switch *in.Status {
		case models.WorkspaceStatusActive, models.WorkspaceStatusArchived, models.WorkspaceStatusClosed:
			ws.Status = *in.Status
		default:
			return nil, models.NewValidationError("Invalid workspace status")
		}
	}
	if in.RemittanceRate != nil {
		if err := validateRate(*in.RemittanceRate); err != nil {
			return nil, err
		}
		ws.RemittanceRate = *in.RemittanceRate
	}
	if in.EndDate != nil {
		if in.EndDate.Before(ws.StartDate) {
			return nil, models.NewValidationError("End date cannot be before the start date")
		}
		ws.EndDate = in.EndDate
	}

	if err := database.DB.Save(ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

func GetWorkspace(id uuid.UUID) (*models.Workspace, error) {
	var ws models.Workspace
	err := database.DB.First(&ws, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func ListWorkspaces(organizationID uuid.UUID) ([]models.Workspace, error) {
	out := make([]models.Workspace, 0)
	err := database.DB.
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func DeleteWorkspace(id uuid.UUID) error {
	res := database.DB.Delete(&models.Workspace{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

type CreateTeamInput struct {
	OrganizationID       uuid.UUID
	Title                string
	Description          string
	CustomRemittanceRate *decimal.Decimal
}

func CreateTeam(in CreateTeamInput) (*models.Team, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Team title is required")
	}
	if in.CustomRemittanceRate != nil {
		if err := validateRate(*in.CustomRemittanceRate); err != nil {
			return nil, err
		}
	}

	team := &models.Team{
		OrganizationID:       in.OrganizationID,
		Title:                in.Title,
		Description:          in.Description,
		CustomRemittanceRate: in.CustomRemittanceRate,
	}
	if err := database.DB.Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

func GetTeam(id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := database.DB.First(&team, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}

func ListTeams(organizationID uuid.UUID) ([]models.Team, error) {
	out := make([]models.Team, 0)
	err := database.DB.
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func DeleteTeam(id uuid.UUID) error {
	res := database.DB.Delete(&models.Team{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddTeamToWorkspace creates the workspace-team pairing and its remittance
// record in one transaction. The remittance starts with a zero due amount
// and accrues as income entries are recorded.
func AddTeamToWorkspace(workspaceID, teamID uuid.UUID) (*models.WorkspaceTeam, error) {
	var wt *models.WorkspaceTeam
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var ws models.Workspace
		if err := tx.First(&ws, "id = ?", workspaceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if team.OrganizationID != ws.OrganizationID {
			return models.NewValidationError("Team belongs to a different organization")
		}

		var count int64
		err := tx.Model(&models.WorkspaceTeam{}).
			Where("workspace_id = ? AND team_id = ?", workspaceID, teamID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return models.NewValidationError("Team is already part of this workspace")
		}

		wt = &models.WorkspaceTeam{WorkspaceID: workspaceID, TeamID: teamID}
		if err := tx.Create(wt).Error; err != nil {
			return err
		}

		_, err = remittance.CreateTx(tx, wt.ID, zeroDue)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wt, nil
}

func RemoveTeamFromWorkspace(workspaceID, teamID uuid.UUID) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var wt models.WorkspaceTeam
		err := tx.First(&wt, "workspace_id = ? AND team_id = ?", workspaceID, teamID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&models.Remittance{}, "workspace_team_id = ?", wt.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&wt).Error
	})
}

func ListWorkspaceTeams(workspaceID uuid.UUID) ([]models.WorkspaceTeam, error) {
	out := make([]models.WorkspaceTeam, 0)
	err := database.DB.
		Preload("Team").
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
