package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alumnihub/backend/internal/changelog"
	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNotProfileOwner    = errors.New("cannot edit another member's profile")
	ErrModerationRequired = errors.New("change must be submitted as an update request")
)

// trackedProfileFields are the profile fields the audit trail cares about.
// Names match the AlumniProfile JSON tags.
var trackedProfileFields = []string{
	"phone", "contact_email", "city", "country",
	"headline", "company", "job_title", "graduation_year", "degree",
	"bio", "avatar_url", "skills", "interests", "organizations",
	"is_public", "show_email", "show_phone",
}

// ProfileService handles alumni profile operations
type ProfileService struct {
	db        *gorm.DB
	changeLog IChangeLogService
}

var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB, changeLog IChangeLogService) *ProfileService {
	return &ProfileService{db: db, changeLog: changeLog}
}

// Get retrieves a user's own profile, unmasked.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.AlumniProfile, error) {
	var profile models.AlumniProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetPublic retrieves another member's profile as the directory shows it.
// Non-approved or private profiles are not found unless the viewer is the
// owner or an admin; contact fields honor the owner's privacy flags.
func (s *ProfileService) GetPublic(ctx context.Context, viewer types.TokenClaims, userID uuid.UUID) (*types.MemberSummary, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	privileged := viewer.UserID == userID || viewer.Role == models.RoleAdmin
	if !privileged && (user.Status != models.UserStatusApproved || !profile.IsPublic) {
		return nil, ErrProfileNotFound
	}

	return summarize(&user, profile, privileged), nil
}

// Search returns approved, public members matching the filters.
func (s *ProfileService) Search(ctx context.Context, viewer types.TokenClaims, filters *types.ProfileSearchFilters) ([]*types.MemberSummary, error) {
	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.db.WithContext(ctx).
		Table("alumni_profiles").
		Joins("JOIN users ON users.id = alumni_profiles.user_id").
		Where("users.status = ?", models.UserStatusApproved).
		Where("alumni_profiles.is_public = ?", true).
		Where("users.deleted_at IS NULL").
		Where("alumni_profiles.deleted_at IS NULL")

	if filters.Name != "" {
		query = query.Where("LOWER(users.name) LIKE ?", "%"+strings.ToLower(filters.Name)+"%")
	}
	if filters.Company != "" {
		query = query.Where("LOWER(alumni_profiles.company) LIKE ?", "%"+strings.ToLower(filters.Company)+"%")
	}
	if filters.City != "" {
		query = query.Where("LOWER(alumni_profiles.city) LIKE ?", "%"+strings.ToLower(filters.City)+"%")
	}
	if filters.Country != "" {
		query = query.Where("LOWER(alumni_profiles.country) = ?", strings.ToLower(filters.Country))
	}
	if filters.Skill != "" {
		// Skills are stored as a JSON array; a text match is good enough here.
		query = query.Where("LOWER(CAST(alumni_profiles.skills AS TEXT)) LIKE ?", "%"+strings.ToLower(filters.Skill)+"%")
	}
	if filters.GraduationYear != 0 {
		query = query.Where("alumni_profiles.graduation_year = ?", filters.GraduationYear)
	}

	var profiles []models.AlumniProfile
	if err := query.
		Select("alumni_profiles.*").
		Order("users.name").
		Limit(limit).
		Offset(filters.Offset).
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	users, err := s.usersByID(ctx, profiles)
	if err != nil {
		return nil, err
	}

	results := make([]*types.MemberSummary, 0, len(profiles))
	for i := range profiles {
		user, ok := users[profiles[i].UserID]
		if !ok {
			continue
		}
		results = append(results, summarize(user, &profiles[i], false))
	}
	return results, nil
}

func (s *ProfileService) usersByID(ctx context.Context, profiles []models.AlumniProfile) (map[uuid.UUID]*models.User, error) {
	ids := make([]uuid.UUID, 0, len(profiles))
	for i := range profiles {
		ids = append(ids, profiles[i].UserID)
	}
	byID := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

// Update mutates a profile on behalf of an actor. Admins edit any profile
// directly; members edit only their own, and only the privacy flags —
// everything else must go through an update request. Every applied change
// is recorded in the audit trail.
func (s *ProfileService) Update(ctx context.Context, actor types.TokenClaims, userID uuid.UUID, upd *models.ProfileUpdate) (*models.AlumniProfile, error) {
	changeType := models.ChangeTypeAdminEdit
	if actor.Role != models.RoleAdmin {
		if actor.UserID != userID {
			return nil, ErrNotProfileOwner
		}
		if !upd.PrivacyOnly() {
			return nil, ErrModerationRequired
		}
		changeType = models.ChangeTypeUpdate
	}

	profile, changed, err := s.apply(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	if len(changed) > 0 {
		s.changeLog.Record(ctx, userID, actor.UserID, actor.Name, changed, changeType)
	}
	return profile, nil
}

// ApplyUpdate merges an approved update-request payload into the target
// profile and records the change. Returns the fields that actually changed.
func (s *ProfileService) ApplyUpdate(ctx context.Context, userID uuid.UUID, upd *models.ProfileUpdate, actorID uuid.UUID, actorName string) (changelog.ChangeSet, error) {
	_, changed, err := s.apply(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	if len(changed) > 0 {
		s.changeLog.Record(ctx, userID, actorID, actorName, changed, models.ChangeTypeUpdate)
	}
	return changed, nil
}

// apply performs the read-diff-save cycle. The diff is computed against the
// row read at the start of the call; concurrent edits are last-write-wins.
func (s *ProfileService) apply(ctx context.Context, userID uuid.UUID, upd *models.ProfileUpdate) (*models.AlumniProfile, changelog.ChangeSet, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	before := changelog.Snapshot(profile)
	upd.Apply(profile)
	after := changelog.Snapshot(profile)

	changed := changelog.Diff(before, after, trackedProfileFields)
	if len(changed) == 0 {
		return profile, changed, nil
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, nil, err
	}
	return profile, changed, nil
}

// summarize builds the masked directory view. A privileged viewer (owner or
// admin) sees contact fields regardless of the privacy flags.
func summarize(user *models.User, profile *models.AlumniProfile, privileged bool) *types.MemberSummary {
	summary := &types.MemberSummary{
		UserID:         profile.UserID,
		Name:           user.Name,
		Headline:       profile.Headline,
		Company:        profile.Company,
		JobTitle:       profile.JobTitle,
		City:           profile.City,
		Country:        profile.Country,
		GraduationYear: profile.GraduationYear,
		Degree:         profile.Degree,
		Skills:         profile.Skills,
		Interests:      profile.Interests,
		Organizations:  profile.Organizations,
		Bio:            profile.Bio,
		AvatarURL:      profile.AvatarURL,
	}
	if privileged || profile.ShowEmail {
		summary.Email = profile.ContactEmail
	}
	if privileged || profile.ShowPhone {
		summary.Phone = profile.Phone
	}
	return summary
}
