package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionPayment AuditAction = "payment"
	AuditActionConfirm AuditAction = "confirm"
	AuditActionCancel  AuditAction = "cancel"
	AuditActionDelete  AuditAction = "delete"
)

type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time

	OrganizationID *uuid.UUID `gorm:"type:uuid;index"`

	UserID   uuid.UUID `gorm:"type:uuid;not null"`
	UserName string    `gorm:"size:100"` // denormalized actor name

	// e.g. "remittance", "entry", "workspace_team"
	EntityType string    `gorm:"size:50;index"`
	EntityID   uuid.UUID `gorm:"type:uuid;index"`

	Action      AuditAction `gorm:"size:20"`
	Description string      `gorm:"size:255"`

	BeforeData string `gorm:"type:jsonb"`
	AfterData  string `gorm:"type:jsonb"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
