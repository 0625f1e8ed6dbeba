package repository

import (
	"errors"

	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/gorm"
)

type CropRateRepository struct {
	db *gorm.DB
}

func NewCropRateRepository(db *gorm.DB) *CropRateRepository {
	return &CropRateRepository{db: db}
}

func (r *CropRateRepository) FindByCropType(cropType string) (*models.CropRate, error) {
	var rate models.CropRate
	err := r.db.Where("crop_type = ?", cropType).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *CropRateRepository) FindAll() ([]models.CropRate, error) {
	var rates []models.CropRate
	err := r.db.Order("crop_type ASC").Find(&rates).Error
	return rates, err
}
