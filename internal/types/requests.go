package types

import (
	"github.com/alumnihub/backend/internal/models"
	"github.com/google/uuid"
)

// RegisterRequest is the sign-up payload. New accounts start pending and
// must be approved by an admin before login works.
type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	GraduationYear int    `json:"graduation_year"`
	Degree         string `json:"degree"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ProfileSearchFilters narrows a directory search. Empty fields match
// everything.
type ProfileSearchFilters struct {
	Name           string `form:"name"`
	Company        string `form:"company"`
	City           string `form:"city"`
	Country        string `form:"country"`
	Skill          string `form:"skill"`
	GraduationYear int    `form:"graduation_year"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// MemberSummary is the privacy-masked directory view of a profile. Email and
// phone are blank unless the owner opted in.
type MemberSummary struct {
	UserID         uuid.UUID           `json:"user_id"`
	Name           string              `json:"name"`
	Headline       string              `json:"headline"`
	Company        string              `json:"company"`
	JobTitle       string              `json:"job_title"`
	City           string              `json:"city"`
	Country        string              `json:"country"`
	GraduationYear int                 `json:"graduation_year"`
	Degree         string              `json:"degree"`
	Skills         []string            `json:"skills"`
	Interests      []string            `json:"interests"`
	Organizations  []models.Affiliation `json:"organizations"`
	Bio            string              `json:"bio"`
	AvatarURL      string              `json:"avatar_url"`
	Email          string              `json:"email,omitempty"`
	Phone          string              `json:"phone,omitempty"`
}

// ApproveRequest is an admin's approval of an update request. Payload, if
// present, replaces the member's submitted payload entirely.
type ApproveRequest struct {
	Payload    *models.ProfileUpdate `json:"payload,omitempty"`
	AdminNotes string                `json:"admin_notes"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}
