package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/testhelpers"
	"github.com/alumnihub/backend/internal/types"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB, *testhelpers.MockEmailService) {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	email := testhelpers.NewMockEmailService()
	changeLog := NewChangeLogService(db)
	auth := NewAuthService(db, nil, "test-secret", email, changeLog)
	return auth, db, email
}

func registerApproved(t *testing.T, auth *AuthService, db *gorm.DB, name, emailAddr string) *models.User {
	t.Helper()
	user, err := auth.Register(context.Background(), &types.RegisterRequest{
		Name:     name,
		Email:    emailAddr,
		Password: "password123",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("status", models.UserStatusApproved).Error)
	user.Status = models.UserStatusApproved
	return user
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	auth, db, email := newAuthService(t)

	user, err := auth.Register(context.Background(), &types.RegisterRequest{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		Password:       "password123",
		GraduationYear: 2015,
		Degree:         "Mathematics",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusPending, user.Status)
	assert.Equal(t, models.RoleMember, user.Role)

	var profile models.AlumniProfile
	require.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
	assert.Equal(t, 2015, profile.GraduationYear)
	assert.True(t, profile.IsPublic)

	// The initial profile lands in the audit trail as a create.
	var change models.ProfileChange
	require.NoError(t, db.First(&change, "subject_user_id = ?", user.ID).Error)
	assert.Equal(t, models.ChangeTypeCreate, change.ChangeType)

	sent, ok := email.LastTo("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, "welcome", sent.Kind)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _, _ := newAuthService(t)

	req := &types.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}
	_, err := auth.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = auth.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterRollsBackWhenProfileFails(t *testing.T) {
	auth, db, _ := newAuthService(t)

	// Without the profile table the second insert fails; the user row
	// must not survive, or the email would be taken forever.
	require.NoError(t, db.Migrator().DropTable(&models.AlumniProfile{}))

	_, err := auth.Register(context.Background(), &types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ada@example.com").Count(&count).Error)
	assert.Zero(t, count)
}

func TestLoginRequiresApproval(t *testing.T) {
	auth, _, _ := newAuthService(t)

	_, err := auth.Register(context.Background(), &types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), "ada@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestLoginAfterApproval(t *testing.T) {
	auth, db, email := newAuthService(t)

	user, err := auth.Register(context.Background(), &types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	require.NoError(t, err)

	admin := types.TokenClaims{UserID: user.ID, Name: "Admin", Role: models.RoleAdmin}
	require.NoError(t, auth.ApproveRegistration(context.Background(), admin, user.ID))

	logged, token, err := auth.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	// Approval is recorded in the audit trail.
	var change models.ProfileChange
	require.NoError(t, db.First(&change, "subject_user_id = ? AND change_type = ?", user.ID, models.ChangeTypeApprove).Error)
	fc, ok := change.ChangedFields["status"]
	require.True(t, ok)
	assert.Equal(t, models.UserStatusPending, fc.Old)
	assert.Equal(t, models.UserStatusApproved, fc.New)

	sent, ok := email.LastTo("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, "approval", sent.Kind)
}

func TestLoginInvalidCredentials(t *testing.T) {
	auth, db, _ := newAuthService(t)
	registerApproved(t, auth, db, "Ada", "ada@example.com")

	_, _, err := auth.Login(context.Background(), "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRejectRegistrationIsTerminal(t *testing.T) {
	auth, _, email := newAuthService(t)

	user, err := auth.Register(context.Background(), &types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	require.NoError(t, err)

	admin := types.TokenClaims{UserID: user.ID, Name: "Admin", Role: models.RoleAdmin}
	require.NoError(t, auth.RejectRegistration(context.Background(), admin, user.ID, "not an alum"))

	sent, ok := email.LastTo("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, "rejection", sent.Kind)
	assert.Equal(t, "not an alum", sent.Note)

	// Already resolved; a second decision is refused either way.
	err = auth.ApproveRegistration(context.Background(), admin, user.ID)
	assert.ErrorIs(t, err, ErrAlreadyResolvedUser)

	_, _, err = auth.Login(context.Background(), "ada@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestListPendingRegistrations(t *testing.T) {
	auth, db, _ := newAuthService(t)

	_, err := auth.Register(context.Background(), &types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	require.NoError(t, err)
	registerApproved(t, auth, db, "Grace", "grace@example.com")

	pending, err := auth.ListPendingRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ada@example.com", pending[0].Email)
}

func TestTokenRoundTrip(t *testing.T) {
	auth, db, _ := newAuthService(t)
	user := registerApproved(t, auth, db, "Ada", "ada@example.com")

	token, err := auth.GenerateToken(&types.TokenClaims{UserID: user.ID, Name: user.Name, Role: user.Role})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, models.RoleMember, claims.Role)
}

func TestValidateTokenRejectsBadSignature(t *testing.T) {
	auth, db, _ := newAuthService(t)
	user := registerApproved(t, auth, db, "Ada", "ada@example.com")

	other := NewAuthService(db, nil, "different-secret", testhelpers.NewMockEmailService(), NewChangeLogService(db))
	token, err := other.GenerateToken(&types.TokenClaims{UserID: user.ID, Name: user.Name, Role: user.Role})
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
