package remittance

import (
	"errors"
	"strings"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows the remittance listing. Dimensions combine with AND; the
// search term matches workspace title, team title or status text.
type Filter struct {
	OrganizationID uuid.UUID
	WorkspaceID    *uuid.UUID
	TeamID         *uuid.UUID
	Status         *models.RemittanceStatus
	Search         string
}

// List returns the organization's remittances, newest first. No match yields
// an empty slice, never nil; database failures propagate as errors.
func List(f Filter) ([]models.Remittance, error) {
	q := database.DB.Model(&models.Remittance{}).
		Select("remittances.*").
		Joins("JOIN workspace_teams ON workspace_teams.id = remittances.workspace_team_id AND workspace_teams.deleted_at IS NULL").
		Joins("JOIN workspaces ON workspaces.id = workspace_teams.workspace_id AND workspaces.deleted_at IS NULL").
		Joins("JOIN teams ON teams.id = workspace_teams.team_id AND teams.deleted_at IS NULL").
		Where("workspaces.organization_id = ?", f.OrganizationID)

	if f.WorkspaceID != nil {
		q = q.Where("workspace_teams.workspace_id = ?", *f.WorkspaceID)
	}
	if f.TeamID != nil {
		q = q.Where("workspace_teams.team_id = ?", *f.TeamID)
	}
	if f.Status != nil {
		q = q.Where("remittances.status = ?", *f.Status)
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(workspaces.title) LIKE ? OR LOWER(teams.title) LIKE ? OR LOWER(remittances.status) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	rems := make([]models.Remittance, 0)
	err := q.
		Preload("WorkspaceTeam.Workspace").
		Preload("WorkspaceTeam.Team").
		Order("remittances.created_at DESC").
		Find(&rems).Error
	if err != nil {
		return nil, err
	}
	return rems, nil
}

// GetByWorkspaceTeam returns the single remittance owned by a pairing.
func GetByWorkspaceTeam(workspaceTeamID uuid.UUID) (*models.Remittance, error) {
	var rem models.Remittance
	err := database.DB.
		Preload("WorkspaceTeam.Workspace").
		Preload("WorkspaceTeam.Team").
		First(&rem, "workspace_team_id = ?", workspaceTeamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &rem, nil
}
