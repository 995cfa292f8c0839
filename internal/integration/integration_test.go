package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/service"
	"github.com/alumnihub/backend/internal/testhelpers"
	"github.com/alumnihub/backend/internal/types"
)

// Exercises the registration, moderation and audit flow against a real
// PostgreSQL, where jsonb columns and the SQL dialect differ from the
// SQLite unit-test database.
func TestModerationFlowOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()

	email := testhelpers.NewMockEmailService()
	changeLog := service.NewChangeLogService(db)
	profiles := service.NewProfileService(db, changeLog)
	auth := service.NewAuthService(db, nil, "integration-secret", email, changeLog)
	requests := service.NewUpdateRequestService(db, profiles, email)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.User{
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusApproved,
	}
	require.NoError(t, db.Create(&admin).Error)
	adminClaims := types.TokenClaims{UserID: admin.ID, Name: admin.Name, Role: admin.Role}

	user, err := auth.Register(ctx, &types.RegisterRequest{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		Password:       "password123",
		GraduationYear: 2015,
	})
	require.NoError(t, err)

	require.NoError(t, auth.ApproveRegistration(ctx, adminClaims, user.ID))

	_, _, err = auth.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	company := "Analytical Engines Ltd"
	skills := []string{"Go", "SQL"}
	request, err := requests.Submit(ctx, user.ID, &models.ProfileUpdate{
		Company: &company,
		Skills:  &skills,
	})
	require.NoError(t, err)

	_, err = requests.Approve(ctx, adminClaims, request.ID, nil, "verified")
	require.NoError(t, err)

	profile, err := profiles.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Analytical Engines Ltd", profile.Company)
	assert.Equal(t, models.StringArray{"Go", "SQL"}, profile.Skills)

	history, err := changeLog.History(ctx, user.ID)
	require.NoError(t, err)
	// create, approve, update
	require.Len(t, history, 3)

	changeTypes := make(map[string]bool)
	for _, entry := range history {
		changeTypes[entry.ChangeType] = true
	}
	assert.True(t, changeTypes[models.ChangeTypeCreate])
	assert.True(t, changeTypes[models.ChangeTypeApprove])
	assert.True(t, changeTypes[models.ChangeTypeUpdate])
}
