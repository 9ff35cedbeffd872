package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crowdfund/internal/models"
	"crowdfund/internal/storage"
)

type FundraiserRepository interface {
	Create(ctx context.Context, fundraiser *models.Fundraiser) error
	FindByID(ctx context.Context, id uint) (*models.Fundraiser, error)
	FindAll(ctx context.Context) ([]models.Fundraiser, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]models.Fundraiser, error)
	Update(ctx context.Context, fundraiser *models.Fundraiser) error
	Delete(ctx context.Context, id uint) error
}

type fundraiserRepository struct {
	db *storage.DB
}

func NewFundraiserRepository(db *storage.DB) FundraiserRepository {
	return &fundraiserRepository{db: db}
}

func (r *fundraiserRepository) Create(ctx context.Context, fundraiser *models.Fundraiser) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(fundraiser).Error
}

// FindByID loads the fundraiser with its pledges, oldest first.
func (r *fundraiserRepository) FindByID(ctx context.Context, id uint) (*models.Fundraiser, error) {
	var fundraiser models.Fundraiser
	err := r.db.WithContext(ctx).
		Preload("Pledges", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&fundraiser, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &fundraiser, nil
}

func (r *fundraiserRepository) FindAll(ctx context.Context) ([]models.Fundraiser, error) {
	fundraisers := []models.Fundraiser{}
	err := r.db.WithContext(ctx).Order("id asc").Find(&fundraisers).Error
	return fundraisers, err
}

func (r *fundraiserRepository) FindByOwner(ctx context.Context, ownerID uint) ([]models.Fundraiser, error) {
	fundraisers := []models.Fundraiser{}
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id asc").Find(&fundraisers).Error
	return fundraisers, err
}

// Update writes the mutable columns only; owner and creation time stay as stored.
func (r *fundraiserRepository) Update(ctx context.Context, fundraiser *models.Fundraiser) error {
	return r.db.WithContext(ctx).Model(fundraiser).Omit(clause.Associations).
		Select("title", "description", "goal", "image", "is_open", "slug").
		Updates(fundraiser).Error
}

// Delete removes the fundraiser and its pledges in one transaction.
func (r *fundraiserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fundraiser_id = ?", id).Delete(&models.Pledge{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Fundraiser{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
