package service

import (
	"context"
	"errors"

	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadySaved = errors.New("member already saved")
	ErrSelfEntry    = errors.New("cannot save your own profile")
	ErrNotSaved     = errors.New("member not in directory")
)

// DirectoryService manages a member's personal saved-members list.
type DirectoryService struct {
	db *gorm.DB
}

var _ IDirectoryService = (*DirectoryService)(nil)

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// Add bookmarks a member into the owner's directory. The pair must not
// already exist and the target must be a real user.
func (s *DirectoryService) Add(ctx context.Context, ownerID, memberID uuid.UUID) error {
	if ownerID == memberID {
		return ErrSelfEntry
	}

	var member models.User
	if err := s.db.WithContext(ctx).First(&member, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.DirectoryEntry{}).
		Where("owner_user_id = ? AND member_user_id = ?", ownerID, memberID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadySaved
	}

	entry := models.DirectoryEntry{OwnerUserID: ownerID, MemberUserID: memberID}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// Remove deletes a bookmark. Removing a pair that does not exist reports
// ErrNotSaved so the handler can surface a 404.
func (s *DirectoryService) Remove(ctx context.Context, ownerID, memberID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("owner_user_id = ? AND member_user_id = ?", ownerID, memberID).
		Delete(&models.DirectoryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSaved
	}
	return nil
}

// List returns the owner's saved members. Entries pointing at accounts that
// are no longer approved, or profiles that went private, are silently
// filtered out at read time rather than eagerly deleted.
func (s *DirectoryService) List(ctx context.Context, ownerID uuid.UUID) ([]*types.MemberSummary, error) {
	var entries []models.DirectoryEntry
	if err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	results := make([]*types.MemberSummary, 0, len(entries))
	for _, entry := range entries {
		var user models.User
		if err := s.db.WithContext(ctx).
			First(&user, "id = ? AND status = ?", entry.MemberUserID, models.UserStatusApproved).Error; err != nil {
			continue
		}

		var profile models.AlumniProfile
		if err := s.db.WithContext(ctx).
			First(&profile, "user_id = ? AND is_public = ?", entry.MemberUserID, true).Error; err != nil {
			continue
		}

		results = append(results, summarize(&user, &profile, false))
	}
	return results, nil
}
