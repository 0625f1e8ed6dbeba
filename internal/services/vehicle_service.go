package services

import (
	"errors"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidVehicleType = errors.New("invalid vehicle type")
	ErrDuplicateVehicle   = errors.New("registration number already registered")
)

type VehicleService struct {
	vehicleRepo *repository.VehicleRepository
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

func (s *VehicleService) Register(hubID uint, registrationNo string, vehicleType models.VehicleType, operatorID uint, timePerTonneMinutes, capacityTonnes float64) (*models.Vehicle, error) {
	switch vehicleType {
	case models.VehicleBaler, models.VehicleTruck, models.VehicleBoth:
	default:
		return nil, ErrInvalidVehicleType
	}

	vehicle := &models.Vehicle{
		HubID:               hubID,
		RegistrationNo:      registrationNo,
		Type:                vehicleType,
		OperatorID:          operatorID,
		Availability:        models.VehicleAvailable,
		TimePerTonneMinutes: timePerTonneMinutes,
		CapacityTonnes:      capacityTonnes,
	}

	if err := s.vehicleRepo.Create(vehicle); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateVehicle
		}
		return nil, err
	}

	return vehicle, nil
}

func (s *VehicleService) Get(vehicleID uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) ListByHub(hubID uint, availableOnly bool) ([]models.Vehicle, error) {
	if availableOnly {
		return s.vehicleRepo.FindAvailableByHub(hubID)
	}
	return s.vehicleRepo.FindByHub(hubID)
}
