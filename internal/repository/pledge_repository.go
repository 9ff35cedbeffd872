package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"crowdfund/internal/models"
	"crowdfund/internal/storage"
)

type PledgeRepository interface {
	Create(ctx context.Context, pledge *models.Pledge) error
	FindByID(ctx context.Context, id uint) (*models.Pledge, error)
	FindAll(ctx context.Context) ([]models.Pledge, error)
	FindBySupporter(ctx context.Context, supporterID uint) ([]models.Pledge, error)
	Update(ctx context.Context, pledge *models.Pledge) error
}

type pledgeRepository struct {
	db *storage.DB
}

func NewPledgeRepository(db *storage.DB) PledgeRepository {
	return &pledgeRepository{db: db}
}

func (r *pledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(pledge).Error
}

// FindByID loads the pledge with its fundraiser, whose owner gates comment
// visibility and hiding.
func (r *pledgeRepository) FindByID(ctx context.Context, id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	if err := r.db.WithContext(ctx).Preload("Fundraiser").First(&pledge, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pledge, nil
}

func (r *pledgeRepository) FindAll(ctx context.Context) ([]models.Pledge, error) {
	pledges := []models.Pledge{}
	err := r.db.WithContext(ctx).Preload("Fundraiser").Order("id asc").Find(&pledges).Error
	return pledges, err
}

func (r *pledgeRepository) FindBySupporter(ctx context.Context, supporterID uint) ([]models.Pledge, error) {
	pledges := []models.Pledge{}
	err := r.db.WithContext(ctx).Preload("Fundraiser").
		Where("supporter_id = ?", supporterID).Order("id asc").Find(&pledges).Error
	return pledges, err
}

// Update writes the editable columns: comment, anonymity and the owner's
// hidden flag.
func (r *pledgeRepository) Update(ctx context.Context, pledge *models.Pledge) error {
	return r.db.WithContext(ctx).Model(pledge).Omit(clause.Associations).
		Select("comment", "anonymous", "is_hidden_by_owner").
		Updates(pledge).Error
}
