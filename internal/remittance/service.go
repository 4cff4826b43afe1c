package remittance

import (
	"errors"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var oneHundred = decimal.NewFromInt(100)

// startOfToday returns today's date at midnight UTC. Date comparisons against
// workspace end dates are strict: a workspace ending today is not overdue.
func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Get loads a remittance with its workspace-team pairing.
func Get(id uuid.UUID) (*models.Remittance, error) {
	var rem models.Remittance
	err := database.DB.
		Preload("WorkspaceTeam.Workspace").
		Preload("WorkspaceTeam.Team").
		First(&rem, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &rem, nil
}

// CreateTx creates the remittance for a workspace-team pairing inside an
// existing transaction. Each pairing owns exactly one remittance; a second
// create is a validation error.
func CreateTx(tx *gorm.DB, workspaceTeamID uuid.UUID, dueAmount decimal.Decimal) (*models.Remittance, error) {
	var wt models.WorkspaceTeam
	if err := tx.First(&wt, "id = ?", workspaceTeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := tx.Model(&models.Remittance{}).
		Where("workspace_team_id = ?", workspaceTeamID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.NewValidationError("A remittance already exists for this workspace team")
	}

	rem := models.Remittance{
		WorkspaceTeamID:     workspaceTeamID,
		DueAmount:           dueAmount,
		PaidAmount:          decimal.Zero,
		Status:              models.RemittanceStatusPending,
		PaidWithinDeadlines: true,
	}
	if err := rem.Validate(); err != nil {
		return nil, err
	}
	if err := tx.Create(&rem).Error; err != nil {
		return nil, err
	}
	return &rem, nil
}

func Create(workspaceTeamID uuid.UUID, dueAmount decimal.Decimal) (*models.Remittance, error) {
	var rem *models.Remittance
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		rem, err = CreateTx(tx, workspaceTeamID, dueAmount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// lockRemittance loads a remittance row for update inside a transaction.
func lockRemittance(tx *gorm.DB, id uuid.UUID) (*models.Remittance, error) {
	var rem models.Remittance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rem, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &rem, nil
}

// RecordPayment adds a payment to a remittance and recomputes its derived
// state. The read-modify-write runs under a row lock so two concurrent
// payments cannot drop each other.
func RecordPayment(id uuid.UUID, amount decimal.Decimal) (*models.Remittance, error) {
	var rem *models.Remittance
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		rem, err = lockRemittance(tx, id)
		if err != nil {
			return err
		}

		if !amount.IsPositive() {
			return models.NewValidationError("Payment amount must be greater than zero")
		}
		if rem.Status == models.RemittanceStatusCanceled {
			return models.NewValidationError("Cannot record a payment on a canceled remittance")
		}

		rem.PaidAmount = rem.PaidAmount.Add(amount)
		if err := rem.Validate(); err != nil {
			return err
		}
		rem.UpdateStatus()
		rem.CheckIfOverpaid()

		return tx.Save(rem).Error
	})
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// Confirm marks a fully paid remittance as reviewed by the given user.
func Confirm(id uuid.UUID, userID uuid.UUID, notes string) (*models.Remittance, error) {
	var rem *models.Remittance
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		rem, err = lockRemittance(tx, id)
		if err != nil {
			return err
		}

		if rem.PaidAmount.LessThan(rem.DueAmount) {
			return models.NewValidationError("Cannot confirm payment: The due amount has not been fully paid")
		}

		now := time.Now()
		rem.ConfirmedByID = &userID
		rem.ConfirmedAt = &now
		if notes != "" {
			rem.ReviewNotes = notes
		}

		return tx.Save(rem).Error
	})
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// Cancel moves a remittance to the canceled terminal state. Only allowed
// while no payment has been recorded.
func Cancel(id uuid.UUID) (*models.Remittance, error) {
	var rem *models.Remittance
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		rem, err = lockRemittance(tx, id)
		if err != nil {
			return err
		}

		if !rem.PaidAmount.IsZero() {
			return models.NewValidationError("Cannot cancel a remittance that has payments recorded")
		}

		rem.Status = models.RemittanceStatusCanceled
		return tx.Save(rem).Error
	})
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// ApplyIncomeEntry accrues the remittance obligation for an income entry.
// The rate is the team's custom rate when set, otherwise the workspace rate.
// Repeated income entries against the same pairing accumulate into the one
// remittance record. Non-income entries are ignored; a canceled remittance
// accepts no further accrual.
func ApplyIncomeEntry(tx *gorm.DB, entry *models.Entry) (*models.Remittance, error) {
	if entry.Type != models.EntryTypeIncome {
		return nil, nil
	}

	var wt models.WorkspaceTeam
	err := tx.Preload("Team").Preload("Workspace").
		First(&wt, "id = ?", entry.WorkspaceTeamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	rate := wt.Workspace.RemittanceRate
	if wt.Team.CustomRemittanceRate != nil {
		rate = *wt.Team.CustomRemittanceRate
	}

	dueToAdd := entry.Amount.Mul(rate).Div(oneHundred).Round(2)

	var rem models.Remittance
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rem, "workspace_team_id = ?", wt.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return CreateTx(tx, wt.ID, dueToAdd)
	case err != nil:
		return nil, err
	}

	if rem.Status == models.RemittanceStatusCanceled {
		return nil, models.NewValidationError("Cannot accrue income on a canceled remittance")
	}

	rem.DueAmount = rem.DueAmount.Add(dueToAdd)
	rem.UpdateStatus()
	rem.CheckIfOverpaid()
	if err := tx.Save(&rem).Error; err != nil {
		return nil, err
	}
	return &rem, nil
}

// SweepOverdue applies the overdue check to every unpaid remittance of an
// organization whose workspace has ended. Returns how many rows were flipped.
func SweepOverdue(organizationID uuid.UUID) (int, error) {
	today := startOfToday()

	flipped := 0
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var rems []models.Remittance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "remittances"}}).
			Select("remittances.*").
			Joins("JOIN workspace_teams ON workspace_teams.id = remittances.workspace_team_id AND workspace_teams.deleted_at IS NULL").
			Joins("JOIN workspaces ON workspaces.id = workspace_teams.workspace_id AND workspaces.deleted_at IS NULL").
			Where("workspaces.organization_id = ?", organizationID).
			Where("remittances.paid_within_deadlines = ?", true).
			Where("remittances.status <> ?", models.RemittanceStatusPaid).
			Where("workspaces.end_date IS NOT NULL AND workspaces.end_date < ?", today).
			Find(&rems).Error
		if err != nil {
			return err
		}

		for i := range rems {
			var ws models.Workspace
			if err := tx.
				Select("workspaces.*").
				Joins("JOIN workspace_teams ON workspace_teams.workspace_id = workspaces.id").
				Where("workspace_teams.id = ?", rems[i].WorkspaceTeamID).
				First(&ws).Error; err != nil {
				return err
			}

			rems[i].CheckIfOverdue(ws.EndDate, today)
			if !rems[i].PaidWithinDeadlines {
				if err := tx.Save(&rems[i]).Error; err != nil {
					return err
				}
				flipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return flipped, nil
}
