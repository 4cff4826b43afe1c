package entries

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

type CreateInput struct {
	WorkspaceTeamID uuid.UUID
	Type            models.EntryType
	Amount          decimal.Decimal
	Description     string
	OccurredAt      time.Time
}

func Get(id uuid.UUID) (*models.Entry, error) {
	var entry models.Entry
	err := database.DB.
		Preload("WorkspaceTeam.Workspace").
		Preload("WorkspaceTeam.Team").
		Preload("ReviewedBy").
		First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// Create records a financial entry against a workspace team. Income entries
// accrue the pairing's remittance obligation in the same transaction.
func Create(in CreateInput) (*models.Entry, error) {
	if !in.Amount.IsPositive() {
		return nil, models.NewValidationError("Amount must be greater than zero")
	}
	switch in.Type {
	case models.EntryTypeIncome, models.EntryTypeDisbursement, models.EntryTypeRemittance:
	default:
		return nil, models.NewValidationError("Invalid entry type")
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	var entry *models.Entry
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var wt models.WorkspaceTeam
		err := tx.Preload("Workspace").First(&wt, "id = ?", in.WorkspaceTeamID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		entry = &models.Entry{
			OrganizationID:  wt.Workspace.OrganizationID,
			WorkspaceID:     wt.WorkspaceID,
			WorkspaceTeamID: wt.ID,
			Type:            in.Type,
			Amount:          in.Amount,
			Description:     in.Description,
			Status:          models.EntryStatusPendingReview,
			OccurredAt:      occurredAt,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		_, err = remittance.ApplyIncomeEntry(tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Review moves a pending entry into approved, rejected or flagged. A flagged
// entry may still be resolved; approved and rejected are final. Rejecting or
// flagging requires review notes.
func Review(id uuid.UUID, reviewerID uuid.UUID, status models.EntryStatus, notes string) (*models.Entry, error) {
	switch status {
	case models.EntryStatusApproved, models.EntryStatusRejected, models.EntryStatusFlagged:
	default:
		return nil, models.NewValidationError("Review status must be approved, rejected or flagged")
	}
	if notes == "" && status != models.EntryStatusApproved {
		return nil, models.NewValidationError("Review notes are required when rejecting or flagging an entry")
	}

	var entry models.Entry
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&entry, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if entry.Status != models.EntryStatusPendingReview && entry.Status != models.EntryStatusFlagged {
			return models.NewValidationError("Cannot review entry with status: " + string(entry.Status))
		}

		entry.Status = status
		entry.ReviewedByID = &reviewerID
		entry.ReviewNotes = notes
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func Delete(id uuid.UUID) error {
	res := database.DB.Delete(&models.Entry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
