package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WorkspaceStatus string

const (
	WorkspaceStatusActive   WorkspaceStatus = "active"
	WorkspaceStatusArchived WorkspaceStatus = "archived"
	WorkspaceStatusClosed   WorkspaceStatus = "closed"
)

// DefaultRemittanceRate is the percentage of income a team owes back to the
// organization when a workspace does not override it.
var DefaultRemittanceRate = decimal.NewFromInt(90)

type Workspace struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:uniq_workspace_title_in_org"`
	Organization   Organization
	Title          string          `gorm:"size:255;not null;uniqueIndex:uniq_workspace_title_in_org"`
	Description    string          `gorm:"type:text"`
	Status         WorkspaceStatus `gorm:"size:20;not null;default:active"`

	// Percentage between 0 and 100 applied to income entries.
	RemittanceRate decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	StartDate time.Time  `gorm:"type:date;not null"`
	EndDate   *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WorkspaceTeam pairs a team with a workspace. Each pairing owns exactly one
// remittance record.
type WorkspaceTeam struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_team_in_workspace"`
	Workspace   Workspace
	TeamID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_team_in_workspace"`
	Team        Team

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (wt *WorkspaceTeam) BeforeCreate(tx *gorm.DB) error {
	if wt.ID == uuid.Nil {
		wt.ID = uuid.New()
	}
	return nil
}
