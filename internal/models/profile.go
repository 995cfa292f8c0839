package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray is a []string stored as a JSON column so it works on both
// Postgres and the SQLite test database.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *StringArray) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("models: unsupported StringArray source type")
	}
}

// Affiliation is one entry in a profile's organization history.
type Affiliation struct {
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
	FromYear int    `json:"from_year"`
	ToYear   int    `json:"to_year"`
}

// Affiliations is stored as a JSON column.
type Affiliations []Affiliation

func (a Affiliations) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *Affiliations) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("models: unsupported Affiliations source type")
	}
}

// AlumniProfile is a member's directory-visible record. Owned by exactly one
// user; mutated by that user (subject to moderation) or by an admin directly.
type AlumniProfile struct {
	ID             uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"-"`
	UserID         uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	CreatedAt      time.Time      `json:"-"`
	UpdatedAt      time.Time      `json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Phone          string         `gorm:"size:50" json:"phone"`
	ContactEmail   string         `gorm:"size:255" json:"contact_email"`
	City           string         `gorm:"size:100" json:"city"`
	Country        string         `gorm:"size:100" json:"country"`
	Headline       string         `gorm:"size:255" json:"headline"`
	Company        string         `gorm:"size:255" json:"company"`
	JobTitle       string         `gorm:"size:255" json:"job_title"`
	GraduationYear int            `json:"graduation_year"`
	Degree         string         `gorm:"size:255" json:"degree"`
	Bio            string         `gorm:"type:text" json:"bio"`
	AvatarURL      string         `gorm:"size:512" json:"avatar_url"`
	Skills         StringArray    `gorm:"type:jsonb" json:"skills"`
	Interests      StringArray    `gorm:"type:jsonb" json:"interests"`
	Organizations  Affiliations   `gorm:"type:jsonb" json:"organizations"`
	IsPublic       bool           `gorm:"not null;default:true" json:"is_public"`
	ShowEmail      bool           `gorm:"not null;default:false" json:"show_email"`
	ShowPhone      bool           `gorm:"not null;default:false" json:"show_phone"`
}

func (p *AlumniProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for AlumniProfile.
func (AlumniProfile) TableName() string {
	return "alumni_profiles"
}
