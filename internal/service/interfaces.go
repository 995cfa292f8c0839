package service

import (
	"context"

	"github.com/alumnihub/backend/internal/changelog"
	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/types"
	"github.com/google/uuid"
)

// IAuthService defines the interface for authentication and registration
// workflow operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error)
	ListPendingRegistrations(ctx context.Context) ([]*models.User, error)
	ApproveRegistration(ctx context.Context, admin types.TokenClaims, userID uuid.UUID) error
	RejectRegistration(ctx context.Context, admin types.TokenClaims, userID uuid.UUID, reason string) error
}

// IProfileService defines the interface for profile operations
type IProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.AlumniProfile, error)
	GetPublic(ctx context.Context, viewer types.TokenClaims, userID uuid.UUID) (*types.MemberSummary, error)
	Search(ctx context.Context, viewer types.TokenClaims, filters *types.ProfileSearchFilters) ([]*types.MemberSummary, error)
	Update(ctx context.Context, actor types.TokenClaims, userID uuid.UUID, upd *models.ProfileUpdate) (*models.AlumniProfile, error)
	ApplyUpdate(ctx context.Context, userID uuid.UUID, upd *models.ProfileUpdate, actorID uuid.UUID, actorName string) (changelog.ChangeSet, error)
}

// IChangeLogService appends and reads the immutable profile audit trail
type IChangeLogService interface {
	Record(ctx context.Context, subjectID, actorID uuid.UUID, actorName string, changed changelog.ChangeSet, changeType string)
	History(ctx context.Context, userID uuid.UUID) ([]*models.ProfileChange, error)
}

// IDirectoryService manages a member's personal saved-members list
type IDirectoryService interface {
	Add(ctx context.Context, ownerID, memberID uuid.UUID) error
	Remove(ctx context.Context, ownerID, memberID uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID) ([]*types.MemberSummary, error)
}

// IOrganizationService serves organization and city master data
type IOrganizationService interface {
	SearchOrganizations(ctx context.Context, query string, limit int) ([]*models.Organization, error)
	SearchCities(ctx context.Context, query string, limit int) ([]*models.City, error)
	FindOrCreateOrganization(ctx context.Context, name, country string) (*models.Organization, error)
	FindOrCreateCity(ctx context.Context, name, country string) (*models.City, error)
}

// IUpdateRequestService moderates proposed profile changes
type IUpdateRequestService interface {
	Submit(ctx context.Context, userID uuid.UUID, payload *models.ProfileUpdate) (*models.UpdateRequest, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*models.UpdateRequest, error)
	ListPending(ctx context.Context) ([]*models.UpdateRequest, error)
	Approve(ctx context.Context, admin types.TokenClaims, requestID uuid.UUID, override *models.ProfileUpdate, notes string) (*models.UpdateRequest, error)
	Reject(ctx context.Context, admin types.TokenClaims, requestID uuid.UUID, reason string) (*models.UpdateRequest, error)
}

// IEmailService defines the interface for transactional email
type IEmailService interface {
	SendWelcomeEmail(user *models.User) error
	SendApprovalNotice(user *models.User) error
	SendRejectionNotice(user *models.User, reason string) error
	SendUpdateRequestResolved(user *models.User, approved bool, notes string) error
	SendOTPCode(email, code string) error
}

// IExportService produces admin bulk exports
type IExportService interface {
	ExportProfilesXLSX(ctx context.Context, filters *types.ProfileSearchFilters) ([]byte, error)
	ExportProfilesCSV(ctx context.Context, filters *types.ProfileSearchFilters) ([]byte, error)
}

// IAvatarService stores avatar images
type IAvatarService interface {
	Upload(ctx context.Context, actor types.TokenClaims, data []byte, contentType string) (string, error)
}
