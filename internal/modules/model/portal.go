package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Portal struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;index" json:"freelancer_id"`
	Subdomain    string    `gorm:"type:text;not null;uniqueIndex" json:"subdomain"`
	Name         string    `gorm:"type:text;not null" json:"name"`

	// Branding holds presentation settings, currently logo_url and
	// accent_color.
	Branding datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"branding"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Portal <-> Freelancer
	Freelancer *Freelancer `gorm:"foreignKey:FreelancerID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Portal <-> Client
	Clients []Client `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Portal) TableName() string { return "portals" }
