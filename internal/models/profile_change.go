package models

import (
	"time"

	"github.com/alumnihub/backend/internal/changelog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChangeTypeCreate    = "create"
	ChangeTypeUpdate    = "update"
	ChangeTypeApprove   = "approve"
	ChangeTypeReject    = "reject"
	ChangeTypeAdminEdit = "admin_edit"
)

// ProfileChange is an immutable audit record of a profile mutation: who
// changed what, when, and why. Rows are append-only, never updated or
// deleted.
type ProfileChange struct {
	ID            uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"id"`
	SubjectUserID uuid.UUID           `gorm:"type:varchar(36);index;not null" json:"subject_user_id"`
	ChangedBy     uuid.UUID           `gorm:"type:varchar(36);not null" json:"changed_by"`
	ChangedByName string              `gorm:"size:255" json:"changed_by_name"`
	ChangedAt     time.Time           `gorm:"not null" json:"changed_at"`
	ChangeType    string              `gorm:"size:20;not null" json:"change_type"`
	ChangedFields changelog.ChangeSet `gorm:"type:jsonb" json:"changed_fields"`
}

func (c *ProfileChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for ProfileChange.
func (ProfileChange) TableName() string {
	return "profile_changes"
}
