package entries

import (
	"strings"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var twelve = decimal.NewFromInt(12)

type Filter struct {
	OrganizationID  uuid.UUID
	WorkspaceID     *uuid.UUID
	WorkspaceTeamID *uuid.UUID
	Type            *models.EntryType
	Status          *models.EntryStatus
	Search          string
}

func List(f Filter) ([]models.Entry, error) {
	q := database.DB.Model(&models.Entry{}).
		Where("entries.organization_id = ?", f.OrganizationID)

	if f.WorkspaceID != nil {
		q = q.Where("entries.workspace_id = ?", *f.WorkspaceID)
	}
	if f.WorkspaceTeamID != nil {
		q = q.Where("entries.workspace_team_id = ?", *f.WorkspaceTeamID)
	}
	if f.Type != nil {
		q = q.Where("entries.type = ?", *f.Type)
	}
	if f.Status != nil {
		q = q.Where("entries.status = ?", *f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(entries.description) LIKE ? OR LOWER(entries.status) LIKE ?", needle, needle)
	}

	entries := make([]models.Entry, 0)
	err := q.
		Preload("WorkspaceTeam.Workspace").
		Preload("WorkspaceTeam.Team").
		Order("entries.occurred_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EntryStats aggregates approved entry amounts for a scope: all time, the
// current calendar month, the previous one, and the monthly average over the
// past twelve months.
type EntryStats struct {
	Total          decimal.Decimal `json:"total"`
	ThisMonth      decimal.Decimal `json:"this_month"`
	LastMonth      decimal.Decimal `json:"last_month"`
	AverageMonthly decimal.Decimal `json:"average_monthly"`
}

type statRow struct {
	Total decimal.Decimal `gorm:"column:total"`
}

func GetStats(f Filter) (*EntryStats, error) {
	now := time.Now().UTC()
	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)
	yearAgoStart := thisMonthStart.AddDate(-1, 0, 0)

	scoped := func() *gorm.DB {
		q := database.DB.Model(&models.Entry{}).
			Where("entries.organization_id = ?", f.OrganizationID).
			Where("entries.status = ?", models.EntryStatusApproved)
		if f.WorkspaceID != nil {
			q = q.Where("entries.workspace_id = ?", *f.WorkspaceID)
		}
		if f.WorkspaceTeamID != nil {
			q = q.Where("entries.workspace_team_id = ?", *f.WorkspaceTeamID)
		}
		if f.Type != nil {
			q = q.Where("entries.type = ?", *f.Type)
		}
		return q
	}

	sum := func(q *gorm.DB) (decimal.Decimal, error) {
		var row statRow
		err := q.Select("COALESCE(SUM(entries.amount), 0) AS total").Scan(&row).Error
		return row.Total, err
	}

	stats := &EntryStats{}
	var err error
	if stats.Total, err = sum(scoped()); err != nil {
		return nil, err
	}
	if stats.ThisMonth, err = sum(scoped().Where("entries.occurred_at >= ?", thisMonthStart)); err != nil {
		return nil, err
	}
	stats.LastMonth, err = sum(scoped().
		Where("entries.occurred_at >= ?", lastMonthStart).
		Where("entries.occurred_at < ?", thisMonthStart))
	if err != nil {
		return nil, err
	}
	yearTotal, err := sum(scoped().
		Where("entries.occurred_at >= ?", yearAgoStart).
		Where("entries.occurred_at < ?", thisMonthStart))
	if err != nil {
		return nil, err
	}
	stats.AverageMonthly = yearTotal.Div(twelve).Round(2)
	return stats, nil
}
