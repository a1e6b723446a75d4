package model

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PortalID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_portal_email,priority:1" json:"portal_id"`
	Name     string    `gorm:"type:text;not null" json:"name"`
	Email    string    `gorm:"type:text;not null;uniqueIndex:idx_portal_email,priority:2" json:"email"`

	// AccessToken is the sole bearer credential for the client-facing
	// surface. Returned once on creation, never in list responses.
	AccessToken string `gorm:"type:text;not null;uniqueIndex" json:"-"`

	LastSeenAt *time.Time `json:"last_seen_at"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Client <-> Portal
	Portal *Portal `gorm:"foreignKey:PortalID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Client <-> Project
	Projects []Project `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Client <-> ClientView
	Views []ClientView `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Client) TableName() string { return "clients" }
