package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/testhelpers"
)

func newUpdateRequestService(t *testing.T) (*UpdateRequestService, *gorm.DB, *testhelpers.MockEmailService) {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	email := testhelpers.NewMockEmailService()
	profiles := NewProfileService(db, NewChangeLogService(db))
	return NewUpdateRequestService(db, profiles, email), db, email
}

func TestSubmitEmptyPayload(t *testing.T) {
	svc, db, _ := newUpdateRequestService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	_, err := svc.Submit(context.Background(), user.ID, &models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestApproveAppliesPayload(t *testing.T) {
	svc, db, email := newUpdateRequestService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", func(p *models.AlumniProfile) {
		p.City = "London"
	})

	request, err := svc.Submit(context.Background(), user.ID, &models.ProfileUpdate{
		Company: strPtr("Acme"),
		City:    strPtr("London"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)

	admin := adminClaims()
	resolved, err := svc.Approve(context.Background(), admin, request.ID, nil, "looks good")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, resolved.Status)
	assert.Equal(t, "looks good", resolved.AdminNotes)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, admin.UserID, *resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	var profile models.AlumniProfile
	require.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
	assert.Equal(t, "Acme", profile.Company)

	// Only the field that actually changed lands in the audit entry; the
	// city was already London.
	var change models.ProfileChange
	require.NoError(t, db.First(&change, "subject_user_id = ?", user.ID).Error)
	assert.Contains(t, change.ChangedFields, "company")
	assert.NotContains(t, change.ChangedFields, "city")

	sent, ok := email.LastTo("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, "update_request", sent.Kind)
	assert.True(t, sent.Success)
}

func TestApproveWithOverrideReplacesPayload(t *testing.T) {
	svc, db, _ := newUpdateRequestService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	request, err := svc.Submit(context.Background(), user.ID, &models.ProfileUpdate{
		Company:  strPtr("Acme"),
		JobTitle: strPtr("CEO"),
	})
	require.NoError(t, err)

	// The override replaces the whole payload; the job title change is gone.
	override := &models.ProfileUpdate{Company: strPtr("Acme Corp")}
	resolved, err := svc.Approve(context.Background(), adminClaims(), request.ID, override, "fixed the name")
	require.NoError(t, err)

	var profile models.AlumniProfile
	require.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
	assert.Equal(t, "Acme Corp", profile.Company)
	assert.Empty(t, profile.JobTitle)

	require.NotNil(t, resolved.Payload.Company)
	assert.Equal(t, "Acme Corp", *resolved.Payload.Company)
	assert.Nil(t, resolved.Payload.JobTitle)
}

func TestRejectLeavesProfileAlone(t *testing.T) {
	svc, db, email := newUpdateRequestService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	request, err := svc.Submit(context.Background(), user.ID, &models.ProfileUpdate{
		Company: strPtr("Acme"),
	})
	require.NoError(t, err)

	resolved, err := svc.Reject(context.Background(), adminClaims(), request.ID, "unverifiable")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, resolved.Status)

	var profile models.AlumniProfile
	require.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
	assert.Empty(t, profile.Company)

	var count int64
	require.NoError(t, db.Model(&models.ProfileChange{}).Where("subject_user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)

	sent, ok := email.LastTo("ada@example.com")
	require.True(t, ok)
	assert.False(t, sent.Success)
	assert.Equal(t, "unverifiable", sent.Note)
}

func TestResolveIsTerminal(t *testing.T) {
	svc, db, _ := newUpdateRequestService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	request, err := svc.Submit(context.Background(), user.ID, &models.ProfileUpdate{
		Company: strPtr("Acme"),
	})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), adminClaims(), request.ID, "")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), adminClaims(), request.ID, nil, "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	_, err = svc.Reject(context.Background(), adminClaims(), request.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestModerationRequiresAdmin(t *testing.T) {
	svc, db, _ := newUpdateRequestService(t)
	user := seedMember(t, db, "Ada", "ada@example.com", nil)

	request, err := svc.Submit(context.Background(), user.ID, &models.ProfileUpdate{
		Company: strPtr("Acme"),
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), memberClaims(user), request.ID, nil, "")
	assert.ErrorIs(t, err, ErrAdminOnly)
}

func TestApproveUnknownRequest(t *testing.T) {
	svc, _, _ := newUpdateRequestService(t)

	_, err := svc.Approve(context.Background(), adminClaims(), uuid.New(), nil, "")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestListMineAndListPending(t *testing.T) {
	svc, db, _ := newUpdateRequestService(t)
	ada := seedMember(t, db, "Ada", "ada@example.com", nil)
	grace := seedMember(t, db, "Grace", "grace@example.com", nil)

	first, err := svc.Submit(context.Background(), ada.ID, &models.ProfileUpdate{Company: strPtr("Acme")})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), grace.ID, &models.ProfileUpdate{City: strPtr("Arlington")})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), ada.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = svc.Reject(context.Background(), adminClaims(), first.ID, "")
	require.NoError(t, err)

	pending, err = svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
