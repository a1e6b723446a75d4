package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuthorFreelancer = "freelancer"
	AuthorClient     = "client"
)

// Update is an append-only message on a project timeline. AuthorID is a
// discriminated reference: it points at a freelancer or a client row
// depending on AuthorType, so no FK can bind it. The repo joins the correct
// side at query time.
type Update struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	AuthorType string    `gorm:"type:text;not null;check:author_type IN ('freelancer','client')" json:"author_type"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// Update <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Update <-> File
	Files []File `gorm:"foreignKey:UpdateID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (Update) TableName() string { return "updates" }

// UpdateWithAuthor is the list-response shape with the author reference
// resolved to a display name. Kept flat so it scans cleanly from the joined
// query.
type UpdateWithAuthor struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	AuthorType string    `json:"author_type"`
	AuthorID   uuid.UUID `json:"author_id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
