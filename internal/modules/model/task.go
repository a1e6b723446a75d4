package model

import (
	"time"

	"github.com/google/uuid"
)

// Kanban stages. Position orders tasks within a stage only; there is no
// global ordering across stages.
const (
	StageBacklog    = "backlog"
	StageInProgress = "in_progress"
	StageReview     = "review"
	StageDone       = "done"
)

type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_task_project_id;index:ix_task_project_stage,priority:1" json:"project_id"`

	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Stage       string     `gorm:"type:text;not null;default:'backlog';check:stage IN ('backlog','in_progress','review','done');index:ix_task_project_stage,priority:2" json:"stage"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	DueDate     *time.Time `json:"due_date"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Task <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Task) TableName() string { return "tasks" }

func ValidStage(s string) bool {
	switch s {
	case StageBacklog, StageInProgress, StageReview, StageDone:
		return true
	}
	return false
}
