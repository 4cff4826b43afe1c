package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EntryType string

const (
	EntryTypeIncome       EntryType = "income"
	EntryTypeDisbursement EntryType = "disbursement"
	EntryTypeRemittance   EntryType = "remittance"
)

type EntryStatus string

const (
	EntryStatusPendingReview EntryStatus = "pending_review"
	EntryStatusApproved      EntryStatus = "approved"
	EntryStatusRejected      EntryStatus = "rejected"
	EntryStatusFlagged       EntryStatus = "flagged"
)

type Entry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Organization and workspace are denormalized from the workspace team so
	// report counts can be scoped without joins.
	OrganizationID  uuid.UUID `gorm:"type:uuid;index;not null"`
	WorkspaceID     uuid.UUID `gorm:"type:uuid;index;not null"`
	WorkspaceTeamID uuid.UUID `gorm:"type:uuid;index;not null"`
	WorkspaceTeam   WorkspaceTeam

	Type        EntryType       `gorm:"size:20;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"size:255"`
	Status      EntryStatus     `gorm:"size:20;not null;default:pending_review;index"`
	OccurredAt  time.Time       `gorm:"index;not null"`

	ReviewedByID *uuid.UUID `gorm:"type:uuid"`
	ReviewedBy   *User
	ReviewNotes  string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
