package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type FreelancerRepo interface {
	Create(ctx context.Context, f *model.Freelancer) error
	GetByEmail(ctx context.Context, email string) (*model.Freelancer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Freelancer, error)
}

type freelancerRepo struct{ db *gorm.DB }

func NewFreelancerRepo(db *gorm.DB) FreelancerRepo {
	return &freelancerRepo{db: db}
}

func (r *freelancerRepo) Create(ctx context.Context, f *model.Freelancer) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *freelancerRepo) GetByEmail(ctx context.Context, email string) (*model.Freelancer, error) {
	var f model.Freelancer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *freelancerRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Freelancer, error) {
	var f model.Freelancer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}
