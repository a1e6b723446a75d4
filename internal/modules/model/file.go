package model

import (
	"time"

	"github.com/google/uuid"
)

// File is write-once metadata for an object stored in S3.
type File struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	UpdateID  *uuid.UUID `gorm:"type:uuid" json:"update_id"`

	Name       string    `gorm:"type:text;not null" json:"name"`
	StorageKey string    `gorm:"type:text;not null" json:"-"`
	Size       int64     `gorm:"not null" json:"size"`
	MimeType   string    `gorm:"type:text;not null" json:"mime_type"`
	UploaderID uuid.UUID `gorm:"type:uuid;not null" json:"uploader_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// File <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// File <-> FileDownload
	Downloads []FileDownload `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (File) TableName() string { return "files" }
