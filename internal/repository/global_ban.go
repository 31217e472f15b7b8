package repository

import (
	"context"
	"errors"

	"clubhouse/internal/models"

	"gorm.io/gorm"
)

// GlobalBanRepository is the platform-wide ban registry.
type GlobalBanRepository interface {
	Get(ctx context.Context, userID uint) (*models.GlobalBan, error)
	Create(ctx context.Context, ban *models.GlobalBan) error
	Delete(ctx context.Context, userID uint) (deleted bool, err error)
	List(ctx context.Context) ([]*models.GlobalBan, error)
}

// globalBanRepository implements GlobalBanRepository
type globalBanRepository struct {
	db *gorm.DB
}

// NewGlobalBanRepository creates a new global ban repository
func NewGlobalBanRepository(db *gorm.DB) GlobalBanRepository {
	return &globalBanRepository{db: db}
}

func (r *globalBanRepository) Get(ctx context.Context, userID uint) (*models.GlobalBan, error) {
	var ban models.GlobalBan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&ban).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ban, nil
}

func (r *globalBanRepository) Create(ctx context.Context, ban *models.GlobalBan) error {
	return r.db.WithContext(ctx).Create(ban).Error
}

func (r *globalBanRepository) Delete(ctx context.Context, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.GlobalBan{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *globalBanRepository) List(ctx context.Context) ([]*models.GlobalBan, error) {
	var bans []*models.GlobalBan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("BannedByUser").
		Order("created_at DESC").
		Find(&bans).Error
	return bans, err
}
