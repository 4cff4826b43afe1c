package audit

import (
	"encoding/json"
	"fmt"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/google/uuid"
)

type LogOptions struct {
	OrganizationID *uuid.UUID
	UserID         uuid.UUID
	UserName       string
	EntityType     string
	EntityID       uuid.UUID
	Action         models.AuditAction
	Description    string
	Before         any
	After          any
}

// WriteLog records a business action. Snapshots are stored as JSON; a nil
// snapshot becomes the JSON null literal so the jsonb column stays valid.
func WriteLog(opts LogOptions) error {
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		OrganizationID: opts.OrganizationID,
		UserID:         opts.UserID,
		UserName:       opts.UserName,
		EntityType:     opts.EntityType,
		EntityID:       opts.EntityID,
		Action:         opts.Action,
		Description:    opts.Description,
		BeforeData:     beforeStr,
		AfterData:      afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}
