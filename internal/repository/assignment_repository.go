package repository

import (
	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(tx *gorm.DB, assignment *models.Assignment) error {
	return tx.Create(assignment).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.Preload("Booking").Preload("BalerVehicle").Preload("TruckVehicle").
		First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) UpdateInTx(tx *gorm.DB, assignment *models.Assignment) error {
	return tx.Save(assignment).Error
}

// CountActiveForBooking enforces at most one live assignment per booking.
func (r *AssignmentRepository) CountActiveForBooking(tx *gorm.DB, bookingID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Assignment{}).
		Where("booking_id = ? AND status <> ? AND operator_status <> ?",
			bookingID, models.AssignmentCompleted, models.OperatorRejected).
		Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) FindByHub(hubID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Preload("Booking").Preload("BalerVehicle").Preload("TruckVehicle").
		Where("hub_id = ?", hubID).Order("assigned_at DESC").Find(&assignments).Error
	return assignments, err
}

// FindByOperator lists assignments whose baler or truck belongs to the
// operator, newest first.
func (r *AssignmentRepository) FindByOperator(operatorID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Preload("Booking").Preload("BalerVehicle").Preload("TruckVehicle").
		Joins("JOIN vehicles ON vehicles.id = assignments.baler_vehicle_id OR vehicles.id = assignments.truck_vehicle_id").
		Where("vehicles.operator_id = ?", operatorID).
		Distinct().
		Order("assignments.assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}
