package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/testhelpers"
	"github.com/alumnihub/backend/internal/types"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// seedMember inserts an approved member with a profile directly.
func seedMember(t *testing.T, db *gorm.DB, name, email string, mutate func(*models.AlumniProfile)) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleMember,
		Status:       models.UserStatusApproved,
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.AlumniProfile{
		UserID:       user.ID,
		ContactEmail: email,
		IsPublic:     true,
	}
	if mutate != nil {
		mutate(&profile)
	}
	require.NoError(t, db.Create(&profile).Error)
	return &user
}

func memberClaims(user *models.User) types.TokenClaims {
	return types.TokenClaims{UserID: user.ID, Name: user.Name, Role: user.Role}
}

func adminClaims() types.TokenClaims {
	return types.TokenClaims{UserID: uuid.New(), Name: "Admin", Role: models.RoleAdmin}
}

func newProfileService(t *testing.T) (*ProfileService, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	return NewProfileService(db, NewChangeLogService(db)), db
}

func TestUpdatePrivacyFlagsSelfService(t *testing.T) {
	svc, db := newProfileService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	profile, err := svc.Update(context.Background(), memberClaims(user), user.ID, &models.ProfileUpdate{
		ShowEmail: boolPtr(true),
		IsPublic:  boolPtr(false),
	})
	require.NoError(t, err)
	assert.True(t, profile.ShowEmail)
	assert.False(t, profile.IsPublic)

	var change models.ProfileChange
	require.NoError(t, db.First(&change, "subject_user_id = ?", user.ID).Error)
	assert.Equal(t, models.ChangeTypeUpdate, change.ChangeType)
	assert.Contains(t, change.ChangedFields, "show_email")
	assert.Contains(t, change.ChangedFields, "is_public")
}

func TestUpdateContentFieldsRequireModeration(t *testing.T) {
	svc, db := newProfileService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	_, err := svc.Update(context.Background(), memberClaims(user), user.ID, &models.ProfileUpdate{
		Company: strPtr("Acme"),
	})
	assert.ErrorIs(t, err, ErrModerationRequired)
}

func TestUpdateOtherMembersProfileForbidden(t *testing.T) {
	svc, db := newProfileService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)
	other := seedMember(t, db, "Grace", "grace@example.com", nil)

	_, err := svc.Update(context.Background(), memberClaims(user), other.ID, &models.ProfileUpdate{
		ShowEmail: boolPtr(true),
	})
	assert.ErrorIs(t, err, ErrNotProfileOwner)
}

func TestAdminEditRecordsAdminEdit(t *testing.T) {
	svc, db := newProfileService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	profile, err := svc.Update(context.Background(), adminClaims(), user.ID, &models.ProfileUpdate{
		Company:  strPtr("Acme"),
		JobTitle: strPtr("Engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", profile.Company)

	var change models.ProfileChange
	require.NoError(t, db.First(&change, "subject_user_id = ?", user.ID).Error)
	assert.Equal(t, models.ChangeTypeAdminEdit, change.ChangeType)

	fc, ok := change.ChangedFields["company"]
	require.True(t, ok)
	assert.Equal(t, "", fc.Old)
	assert.Equal(t, "Acme", fc.New)
}

func TestUpdateWithNoEffectWritesNoAuditEntry(t *testing.T) {
	svc, db := newProfileService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", func(p *models.AlumniProfile) {
		p.Company = "Acme"
	})

	_, err := svc.Update(context.Background(), adminClaims(), user.ID, &models.ProfileUpdate{
		Company: strPtr("Acme"),
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.ProfileChange{}).Where("subject_user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetPublicMasksContactFields(t *testing.T) {
	svc, db := newProfileService(t)
	owner := seedMember(t, db, "Ada", "ada@example.com", func(p *models.AlumniProfile) {
		p.Phone = "555-0100"
		p.ShowPhone = false
		p.ShowEmail = true
	})
	viewer := seedMember(t, db, "Grace", "grace@example.com", nil)

	summary, err := svc.GetPublic(context.Background(), memberClaims(viewer), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", summary.Email)
	assert.Empty(t, summary.Phone)

	// The owner always sees their own contact fields.
	own, err := svc.GetPublic(context.Background(), memberClaims(owner), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", own.Phone)
}

func TestGetPublicHidesPrivateProfiles(t *testing.T) {
	svc, db := newProfileService(t)
	owner := seedMember(t, db, "Ada", "ada@example.com", func(p *models.AlumniProfile) {
		p.IsPublic = false
	})
	viewer := seedMember(t, db, "Grace", "grace@example.com", nil)

	_, err := svc.GetPublic(context.Background(), memberClaims(viewer), owner.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// Admins and the owner still see it.
	_, err = svc.GetPublic(context.Background(), adminClaims(), owner.ID)
	assert.NoError(t, err)
	_, err = svc.GetPublic(context.Background(), memberClaims(owner), owner.ID)
	assert.NoError(t, err)
}

func TestSearchFilters(t *testing.T) {
	svc, db := newProfileService(t)
	viewer := seedMember(t, db, "Viewer", "viewer@example.com", nil)
	seedMember(t, db, "Ada Lovelace", "ada@example.com", func(p *models.AlumniProfile) {
		p.Company = "Analytical Engines Ltd"
		p.City = "London"
		p.GraduationYear = 2015
		p.Skills = models.StringArray{"Go", "SQL"}
	})
	seedMember(t, db, "Grace Hopper", "grace@example.com", func(p *models.AlumniProfile) {
		p.Company = "Navy"
		p.City = "Arlington"
		p.GraduationYear = 2012
	})

	results, err := svc.Search(context.Background(), memberClaims(viewer), &types.ProfileSearchFilters{Company: "analytical"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ada Lovelace", results[0].Name)

	results, err = svc.Search(context.Background(), memberClaims(viewer), &types.ProfileSearchFilters{GraduationYear: 2012})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Grace Hopper", results[0].Name)

	results, err = svc.Search(context.Background(), memberClaims(viewer), &types.ProfileSearchFilters{Skill: "go"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ada Lovelace", results[0].Name)
}

func TestSearchExcludesPrivateAndUnapproved(t *testing.T) {
	svc, db := newProfileService(t)
	viewer := seedMember(t, db, "Viewer", "viewer@example.com", nil)
	seedMember(t, db, "Hidden", "hidden@example.com", func(p *models.AlumniProfile) {
		p.IsPublic = false
	})
	pending := seedMember(t, db, "Pending", "pending@example.com", nil)
	require.NoError(t, db.Model(pending).Update("status", models.UserStatusPending).Error)

	results, err := svc.Search(context.Background(), memberClaims(viewer), &types.ProfileSearchFilters{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Viewer", results[0].Name)
}
