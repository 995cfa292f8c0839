package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// UpdateRequest is a proposed profile change submitted by a non-admin member
// and resolved by an administrator. pending -> approved | rejected, terminal
// once resolved.
type UpdateRequest struct {
	ID            uuid.UUID     `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ProfileUserID uuid.UUID     `gorm:"type:varchar(36);index;not null" json:"profile_user_id"`
	Payload       ProfileUpdate `gorm:"type:jsonb;not null" json:"payload"`
	Status        string        `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes    string        `gorm:"type:text" json:"admin_notes"`
	ResolvedBy    *uuid.UUID    `gorm:"type:varchar(36)" json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
}

func (r *UpdateRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for UpdateRequest.
func (UpdateRequest) TableName() string {
	return "update_requests"
}

// Resolved reports whether the request reached a terminal state.
func (r *UpdateRequest) Resolved() bool {
	return r.Status != RequestStatusPending
}
