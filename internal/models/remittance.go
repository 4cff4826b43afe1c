package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RemittanceStatus string

const (
	RemittanceStatusPending  RemittanceStatus = "pending"
	RemittanceStatusPartial  RemittanceStatus = "partial"
	RemittanceStatusPaid     RemittanceStatus = "paid"
	RemittanceStatusOverdue  RemittanceStatus = "overdue"
	RemittanceStatusCanceled RemittanceStatus = "canceled"
)

// Remittance tracks what a team owes back to the organization for one
// workspace-team pairing. Status is derived from the paid/due amounts.
type Remittance struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkspaceTeamID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	WorkspaceTeam   WorkspaceTeam

	DueAmount  decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	PaidAmount decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Status     RemittanceStatus `gorm:"size:20;not null;default:pending;index"`

	// One-way ratchet, flipped false once the workspace ends unpaid.
	PaidWithinDeadlines bool `gorm:"not null;default:true;index"`
	IsOverpaid          bool `gorm:"not null;default:false"`

	ConfirmedByID *uuid.UUID `gorm:"type:uuid"`
	ConfirmedBy   *User
	ConfirmedAt   *time.Time
	ReviewNotes   string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (r *Remittance) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// UpdateStatus recomputes the derived status from the paid/due amounts.
// Canceled is terminal: once there, no payment state changes it back.
func (r *Remittance) UpdateStatus() {
	if r.Status == RemittanceStatusCanceled {
		return
	}
	switch {
	case r.PaidAmount.IsZero():
		r.Status = RemittanceStatusPending
	case r.PaidAmount.LessThan(r.DueAmount):
		r.Status = RemittanceStatusPartial
	default:
		r.Status = RemittanceStatusPaid
	}
}

// CheckIfOverdue flips PaidWithinDeadlines to false when the workspace ended
// before today and the remittance is not fully paid. It never flips the flag
// back; a workspace ending exactly today is not overdue.
func (r *Remittance) CheckIfOverdue(endDate *time.Time, today time.Time) {
	if endDate == nil || !r.PaidWithinDeadlines || r.Status == RemittanceStatusPaid {
		return
	}
	if endDate.Before(today) {
		r.PaidWithinDeadlines = false
	}
}

// CheckIfOverpaid recomputes the overpayment flag. Idempotent.
func (r *Remittance) CheckIfOverpaid() {
	r.IsOverpaid = r.PaidAmount.GreaterThan(r.DueAmount)
}

// RemainingAmount is due minus paid; negative when overpaid.
func (r *Remittance) RemainingAmount() decimal.Decimal {
	return r.DueAmount.Sub(r.PaidAmount)
}

// Validate enforces the amount invariants. Callers must invoke it before
// persisting a mutation; UpdateStatus alone tolerates overpayment.
func (r *Remittance) Validate() error {
	if r.DueAmount.IsNegative() {
		return NewValidationError("Due amount cannot be negative")
	}
	if r.PaidAmount.IsNegative() {
		return NewValidationError("Paid amount cannot be negative")
	}
	if r.PaidAmount.GreaterThan(r.DueAmount) {
		return NewValidationError("Paid amount cannot exceed the due amount")
	}
	return nil
}
