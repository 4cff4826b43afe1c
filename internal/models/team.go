package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Team struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:uniq_team_title_in_org"`
	Title          string    `gorm:"size:255;not null;uniqueIndex:uniq_team_title_in_org"`
	Description    string    `gorm:"type:text"`

	// Percentage between 0 and 100. Overrides the workspace rate when set.
	CustomRemittanceRate *decimal.Decimal `gorm:"type:decimal(5,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
