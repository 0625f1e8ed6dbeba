package repository

import (
	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(tx *gorm.DB, payout *models.Payout) error {
	return tx.Create(payout).Error
}

func (r *PayoutRepository) FindByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.Preload("Bookings").First(&payout, id).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Payout, error) {
	var payout models.Payout
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payout, id).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepository) UpdateInTx(tx *gorm.DB, payout *models.Payout) error {
	return tx.Save(payout).Error
}

func (r *PayoutRepository) FindByFarmer(farmerID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Preload("Bookings").Where("farmer_id = ?", farmerID).
		Order("created_at DESC").Find(&payouts).Error
	return payouts, err
}
