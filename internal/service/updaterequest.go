package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound = errors.New("update request not found")
	ErrAlreadyResolved = errors.New("update request already resolved")
	ErrEmptyPayload    = errors.New("update request payload is empty")
	ErrAdminOnly       = errors.New("administrator access required")
)

// UpdateRequestService moderates proposed profile changes. Requests move
// pending -> approved | rejected and stay there; approval merges the payload
// into the target profile and writes an audit entry for exactly the fields
// that actually changed.
type UpdateRequestService struct {
	db       *gorm.DB
	profiles IProfileService
	email    IEmailService
}

var _ IUpdateRequestService = (*UpdateRequestService)(nil)

func NewUpdateRequestService(db *gorm.DB, profiles IProfileService, email IEmailService) *UpdateRequestService {
	return &UpdateRequestService{db: db, profiles: profiles, email: email}
}

// Submit files a new pending request for the member's own profile.
func (s *UpdateRequestService) Submit(ctx context.Context, userID uuid.UUID, payload *models.ProfileUpdate) (*models.UpdateRequest, error) {
	if payload.IsEmpty() {
		return nil, ErrEmptyPayload
	}

	request := models.UpdateRequest{
		ProfileUserID: userID,
		Payload:       *payload,
		Status:        models.RequestStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListMine returns a member's own requests, newest first.
func (s *UpdateRequestService) ListMine(ctx context.Context, userID uuid.UUID) ([]*models.UpdateRequest, error) {
	var requests []*models.UpdateRequest
	if err := s.db.WithContext(ctx).
		Where("profile_user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListPending returns every unresolved request, oldest first.
func (s *UpdateRequestService) ListPending(ctx context.Context) ([]*models.UpdateRequest, error) {
	var requests []*models.UpdateRequest
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusPending).
		Order("created_at").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Approve resolves a pending request. An override payload, if present,
// replaces the submitted payload entirely before the merge.
func (s *UpdateRequestService) Approve(ctx context.Context, admin types.TokenClaims, requestID uuid.UUID, override *models.ProfileUpdate, notes string) (*models.UpdateRequest, error) {
	request, err := s.pending(ctx, admin, requestID)
	if err != nil {
		return nil, err
	}

	payload := request.Payload
	if override != nil {
		payload = *override
	}

	if _, err := s.profiles.ApplyUpdate(ctx, request.ProfileUserID, &payload, admin.UserID, admin.Name); err != nil {
		return nil, err
	}

	request.Payload = payload
	if err := s.resolve(ctx, request, admin, models.RequestStatusApproved, notes); err != nil {
		return nil, err
	}

	s.notify(ctx, request, true, notes)
	return request, nil
}

// Reject resolves a pending request without touching the target profile.
func (s *UpdateRequestService) Reject(ctx context.Context, admin types.TokenClaims, requestID uuid.UUID, reason string) (*models.UpdateRequest, error) {
	request, err := s.pending(ctx, admin, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.resolve(ctx, request, admin, models.RequestStatusRejected, reason); err != nil {
		return nil, err
	}

	s.notify(ctx, request, false, reason)
	return request, nil
}

func (s *UpdateRequestService) pending(ctx context.Context, admin types.TokenClaims, requestID uuid.UUID) (*models.UpdateRequest, error) {
	if admin.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}

	var request models.UpdateRequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Resolved() {
		return nil, ErrAlreadyResolved
	}
	return &request, nil
}

func (s *UpdateRequestService) resolve(ctx context.Context, request *models.UpdateRequest, admin types.TokenClaims, status, notes string) error {
	now := time.Now().UTC()
	request.Status = status
	request.AdminNotes = notes
	request.ResolvedBy = &admin.UserID
	request.ResolvedAt = &now
	return s.db.WithContext(ctx).Save(request).Error
}

// notify emails the request owner about the decision; failure never fails
// the moderation action.
func (s *UpdateRequestService) notify(ctx context.Context, request *models.UpdateRequest, approved bool, notes string) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", request.ProfileUserID).Error; err != nil {
		log.Printf("[UpdateRequestService] failed to load user %s for notification: %v", request.ProfileUserID, err)
		return
	}
	if err := s.email.SendUpdateRequestResolved(&user, approved, notes); err != nil {
		log.Printf("[UpdateRequestService] failed to send decision notice to %s: %v", user.Email, err)
	}
}
