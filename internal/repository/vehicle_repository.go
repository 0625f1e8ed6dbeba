package repository

import (
	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(vehicle *models.Vehicle) error {
	return r.db.Create(vehicle).Error
}

func (r *VehicleRepository) FindByID(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) UpdateInTx(tx *gorm.DB, vehicle *models.Vehicle) error {
	return tx.Save(vehicle).Error
}

func (r *VehicleRepository) FindByHub(hubID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.Where("hub_id = ?", hubID).Order("registration_no ASC").Find(&vehicles).Error
	return vehicles, err
}

func (r *VehicleRepository) FindAvailableByHub(hubID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.Where("hub_id = ? AND availability = ?", hubID, models.VehicleAvailable).
		Order("registration_no ASC").Find(&vehicles).Error
	return vehicles, err
}

// CountActiveAssignments counts live assignments referencing the vehicle as
// baler or truck. The availability flag is denormalized; this recount is
// what dispatch trusts at commit time.
func (r *VehicleRepository) CountActiveAssignments(tx *gorm.DB, vehicleID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Assignment{}).
		Where("(baler_vehicle_id = ? OR truck_vehicle_id = ?) AND status <> ? AND operator_status <> ?",
			vehicleID, vehicleID, models.AssignmentCompleted, models.OperatorRejected).
		Count(&count).Error
	return count, err
}
