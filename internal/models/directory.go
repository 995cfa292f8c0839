package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectoryEntry records that owner bookmarked member into their personal
// directory. The pair is unique; created and deleted by the owner only.
type DirectoryEntry struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	OwnerUserID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_directory_pair" json:"owner_user_id"`
	MemberUserID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_directory_pair" json:"member_user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e *DirectoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for DirectoryEntry.
func (DirectoryEntry) TableName() string {
	return "directory_entries"
}
