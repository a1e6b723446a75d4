package model

import (
	"time"

	"github.com/google/uuid"
)

// Pages tracked on the client portal.
const (
	PageProjects = "projects"
	PageProject  = "project"
)

// FileDownload is an append-only event log row. Rows are never mutated or
// deleted except via cascade from the file or client.
type FileDownload struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FileID   uuid.UUID `gorm:"type:uuid;not null;index" json:"file_id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	IP       string    `gorm:"type:text;not null" json:"ip"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	File   *File   `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	Client *Client `gorm:"foreignKey:ClientID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (FileDownload) TableName() string { return "file_downloads" }

// ClientView is an append-only page-view log row for the client portal.
type ClientView struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	Page      string     `gorm:"type:text;not null;check:page IN ('projects','project')" json:"page"`
	ProjectID *uuid.UUID `gorm:"type:uuid" json:"project_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Client *Client `gorm:"foreignKey:ClientID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (ClientView) TableName() string { return "client_views" }
