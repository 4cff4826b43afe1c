package reports

import (
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// remittanceScope joins remittances up to their workspace, scoped by
// organization and optionally by workspace. Soft-deleted rows are excluded on
// every joined table.
func remittanceScope(organizationID uuid.UUID, workspaceID *uuid.UUID) *gorm.DB {
	q := database.DB.Model(&models.Remittance{}).
		Joins("JOIN workspace_teams ON workspace_teams.id = remittances.workspace_team_id AND workspace_teams.deleted_at IS NULL").
		Joins("JOIN workspaces ON workspaces.id = workspace_teams.workspace_id AND workspaces.deleted_at IS NULL").
		Where("workspaces.organization_id = ?", organizationID)

	if workspaceID != nil {
		q = q.Where("workspace_teams.workspace_id = ?", *workspaceID)
	}
	return q
}

type aggregateRow struct {
	Total decimal.Decimal `gorm:"column:total"`
}

// TotalDueAmount sums due amounts over all non-canceled remittances.
// No matching rows yields decimal zero, never an SQL NULL.
func TotalDueAmount(organizationID uuid.UUID, workspaceID *uuid.UUID) (decimal.Decimal, error) {
	var res aggregateRow
	err := remittanceScope(organizationID, workspaceID).
		Where("remittances.status <> ?", models.RemittanceStatusCanceled).
		Select("COALESCE(SUM(remittances.due_amount), 0) AS total").
		Scan(&res).Error
	if err != nil {
		return decimal.Zero, err
	}
	return res.Total, nil
}

// TotalPaidAmount sums paid amounts over all non-canceled remittances.
func TotalPaidAmount(organizationID uuid.UUID, workspaceID *uuid.UUID) (decimal.Decimal, error) {
	var res aggregateRow
	err := remittanceScope(organizationID, workspaceID).
		Where("remittances.status <> ?", models.RemittanceStatusCanceled).
		Select("COALESCE(SUM(remittances.paid_amount), 0) AS total").
		Scan(&res).Error
	if err != nil {
		return decimal.Zero, err
	}
	return res.Total, nil
}

// OverdueAmount sums the unpaid remainder of remittances whose workspace
// ended before today. Each row's remainder is clamped at zero before summing
// so an overpaid row cannot offset another row's debt.
func OverdueAmount(organizationID uuid.UUID, workspaceID *uuid.UUID) (decimal.Decimal, error) {
	var res aggregateRow
	err := remittanceScope(organizationID, workspaceID).
		Where("remittances.status IN ?", []models.RemittanceStatus{
			models.RemittanceStatusPending,
			models.RemittanceStatusPartial,
			models.RemittanceStatusOverdue,
		}).
		Where("workspaces.end_date IS NOT NULL AND workspaces.end_date < ?", startOfToday()).
		Select("COALESCE(SUM(CASE WHEN remittances.due_amount > remittances.paid_amount THEN remittances.due_amount - remittances.paid_amount ELSE 0 END), 0) AS total").
		Scan(&res).Error
	if err != nil {
		return decimal.Zero, err
	}
	return res.Total, nil
}

// RemainingDueAmount sums the unpaid remainder over remittances that are
// neither fully paid nor canceled, with the same per-row clamp.
func RemainingDueAmount(organizationID uuid.UUID, workspaceID *uuid.UUID) (decimal.Decimal, error) {
	var res aggregateRow
	err := remittanceScope(organizationID, workspaceID).
		Where("remittances.status NOT IN ?", []models.RemittanceStatus{
			models.RemittanceStatusPaid,
			models.RemittanceStatusCanceled,
		}).
		Select("COALESCE(SUM(CASE WHEN remittances.due_amount > remittances.paid_amount THEN remittances.due_amount - remittances.paid_amount ELSE 0 END), 0) AS total").
		Scan(&res).Error
	if err != nil {
		return decimal.Zero, err
	}
	return res.Total, nil
}

type RemittanceSummary struct {
	TotalDue      decimal.Decimal `json:"total_due"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	RemainingDue  decimal.Decimal `json:"remaining_due"`
}

func GetRemittanceSummary(organizationID uuid.UUID, workspaceID *uuid.UUID) (*RemittanceSummary, error) {
	totalDue, err := TotalDueAmount(organizationID, workspaceID)
	if err != nil {
		return nil, err
	}
	totalPaid, err := TotalPaidAmount(organizationID, workspaceID)
	if err != nil {
		return nil, err
	}
	overdue, err := OverdueAmount(organizationID, workspaceID)
	if err != nil {
		return nil, err
	}
	remaining, err := RemainingDueAmount(organizationID, workspaceID)
	if err != nil {
		return nil, err
	}

	return &RemittanceSummary{
		TotalDue:      totalDue,
		TotalPaid:     totalPaid,
		OverdueAmount: overdue,
		RemainingDue:  remaining,
	}, nil
}

type EntryCounts struct {
	Total    int64 `json:"total_entries"`
	Pending  int64 `json:"pending_entries"`
	Approved int64 `json:"approved_entries"`
	Rejected int64 `json:"rejected_entries"`
}

// GetEntryCounts counts entries by review status for an organization,
// optionally narrowed to one workspace.
func GetEntryCounts(organizationID uuid.UUID, workspaceID *uuid.UUID) (*EntryCounts, error) {
	q := database.DB.Model(&models.Entry{}).
		Where("organization_id = ?", organizationID)
	if workspaceID != nil {
		q = q.Where("workspace_id = ?", *workspaceID)
	}

	type row struct {
		Status models.EntryStatus `gorm:"column:status"`
		Total  int64              `gorm:"column:total"`
	}
	var rows []row
	if err := q.Select("status, COUNT(*) as total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := &EntryCounts{}
	for _, r := range rows {
		counts.Total += r.Total
		switch r.Status {
		case models.EntryStatusPendingReview:
			counts.Pending = r.Total
		case models.EntryStatusApproved:
			counts.Approved = r.Total
		case models.EntryStatusRejected:
			counts.Rejected = r.Total
		}
	}
	return counts, nil
}
