package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is a master-data lookup row. Name+country must stay unique;
// rows are created on demand when a member types a new value and are
// deduplicated server-side before insert.
type Organization struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_org_name_country" json:"name"`
	Country   string    `gorm:"size:100;uniqueIndex:idx_org_name_country" json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// City is a master-data lookup row with the same uniqueness rule as
// Organization.
type City struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_city_name_country" json:"name"`
	Country   string    `gorm:"size:100;uniqueIndex:idx_city_name_country" json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
