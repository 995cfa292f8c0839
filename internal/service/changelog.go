package service

import (
	"context"
	"log"
	"time"

	"github.com/alumnihub/backend/internal/changelog"
	"github.com/alumnihub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChangeLogService appends immutable audit entries for profile mutations.
type ChangeLogService struct {
	db *gorm.DB
}

var _ IChangeLogService = (*ChangeLogService)(nil)

func NewChangeLogService(db *gorm.DB) *ChangeLogService {
	return &ChangeLogService{db: db}
}

// Record appends one audit entry. A failed audit write is logged and
// swallowed: it must never block or roll back the profile mutation it
// describes. Callers skip the call when the change set is empty.
func (s *ChangeLogService) Record(ctx context.Context, subjectID, actorID uuid.UUID, actorName string, changed changelog.ChangeSet, changeType string) {
	entry := &models.ProfileChange{
		SubjectUserID: subjectID,
		ChangedBy:     actorID,
		ChangedByName: actorName,
		ChangedAt:     time.Now().UTC(),
		ChangeType:    changeType,
		ChangedFields: changed,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Printf("[ChangeLogService] failed to record %s change for user %s: %v", changeType, subjectID, err)
	}
}

// History returns a user's change entries, newest first.
func (s *ChangeLogService) History(ctx context.Context, userID uuid.UUID) ([]*models.ProfileChange, error) {
	var entries []*models.ProfileChange
	if err := s.db.WithContext(ctx).
		Where("subject_user_id = ?", userID).
		Order("changed_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
