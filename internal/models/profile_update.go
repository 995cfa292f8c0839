package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ProfileUpdate is a partial AlumniProfile: nil pointers mean "leave the
// field alone". It doubles as the request body for profile edits and as the
// persisted payload of an UpdateRequest.
type ProfileUpdate struct {
	Phone          *string       `json:"phone,omitempty"`
	ContactEmail   *string       `json:"contact_email,omitempty" binding:"omitempty,email"`
	City           *string       `json:"city,omitempty"`
	Country        *string       `json:"country,omitempty"`
	Headline       *string       `json:"headline,omitempty"`
	Company        *string       `json:"company,omitempty"`
	JobTitle       *string       `json:"job_title,omitempty"`
	GraduationYear *int          `json:"graduation_year,omitempty"`
	Degree         *string       `json:"degree,omitempty"`
	Bio            *string       `json:"bio,omitempty"`
	Skills         *[]string     `json:"skills,omitempty"`
	Interests      *[]string     `json:"interests,omitempty"`
	Organizations  *[]Affiliation `json:"organizations,omitempty" binding:"omitempty,dive"`
	AvatarURL      *string       `json:"avatar_url,omitempty"`
	IsPublic       *bool         `json:"is_public,omitempty"`
	ShowEmail      *bool         `json:"show_email,omitempty"`
	ShowPhone      *bool         `json:"show_phone,omitempty"`
}

// IsEmpty reports whether the update touches no fields.
func (u *ProfileUpdate) IsEmpty() bool {
	if u == nil {
		return true
	}
	return u.Phone == nil && u.ContactEmail == nil && u.City == nil &&
		u.Country == nil && u.Headline == nil && u.Company == nil &&
		u.JobTitle == nil && u.GraduationYear == nil && u.Degree == nil &&
		u.Bio == nil && u.Skills == nil && u.Interests == nil &&
		u.Organizations == nil && u.AvatarURL == nil && u.IsPublic == nil &&
		u.ShowEmail == nil && u.ShowPhone == nil
}

// PrivacyOnly reports whether the update touches nothing but the privacy
// flags and the avatar. Those are self-service; everything else goes
// through moderation for non-admin users.
func (u *ProfileUpdate) PrivacyOnly() bool {
	return u.Phone == nil && u.ContactEmail == nil && u.City == nil &&
		u.Country == nil && u.Headline == nil && u.Company == nil &&
		u.JobTitle == nil && u.GraduationYear == nil && u.Degree == nil &&
		u.Bio == nil && u.Skills == nil && u.Interests == nil &&
		u.Organizations == nil
}

// Apply copies every set field onto the profile.
func (u *ProfileUpdate) Apply(p *AlumniProfile) {
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.ContactEmail != nil {
		p.ContactEmail = *u.ContactEmail
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.Country != nil {
		p.Country = *u.Country
	}
	if u.Headline != nil {
		p.Headline = *u.Headline
	}
	if u.Company != nil {
		p.Company = *u.Company
	}
	if u.JobTitle != nil {
		p.JobTitle = *u.JobTitle
	}
	if u.GraduationYear != nil {
		p.GraduationYear = *u.GraduationYear
	}
	if u.Degree != nil {
		p.Degree = *u.Degree
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Skills != nil {
		p.Skills = StringArray(*u.Skills)
	}
	if u.Interests != nil {
		p.Interests = StringArray(*u.Interests)
	}
	if u.Organizations != nil {
		p.Organizations = Affiliations(*u.Organizations)
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	if u.IsPublic != nil {
		p.IsPublic = *u.IsPublic
	}
	if u.ShowEmail != nil {
		p.ShowEmail = *u.ShowEmail
	}
	if u.ShowPhone != nil {
		p.ShowPhone = *u.ShowPhone
	}
}

func (u ProfileUpdate) Value() (driver.Value, error) {
	return json.Marshal(u)
}

func (u *ProfileUpdate) Scan(value any) error {
	if value == nil {
		*u = ProfileUpdate{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, u)
	case string:
		return json.Unmarshal([]byte(v), u)
	default:
		return errors.New("models: unsupported ProfileUpdate source type")
	}
}
