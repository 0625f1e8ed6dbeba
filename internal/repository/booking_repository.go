package repository

import (
	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *BookingRepository) FindByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) Update(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

func (r *BookingRepository) UpdateInTx(tx *gorm.DB, booking *models.Booking) error {
	return tx.Save(booking).Error
}

func (r *BookingRepository) FindByFarmer(farmerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("farmer_id = ?", farmerID).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) FindByStatus(status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("status = ?", status).Order("created_at ASC").Find(&bookings).Error
	return bookings, err
}

// FindPayableForUpdate locks the candidate bookings of a payout run so the
// paid-guard check and the payout write see the same rows.
func (r *BookingRepository) FindPayableForUpdate(tx *gorm.DB, farmerID uint, ids []uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("farmer_id = ? AND id IN ?", farmerID, ids).
		Find(&bookings).Error
	return bookings, err
}
