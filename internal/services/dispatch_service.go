package services

import (
	"errors"
	"time"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleUnavailable   = errors.New("vehicle no longer available")
	ErrBookingNotAssignable = errors.New("booking is not in an assignable status")
	ErrNoCapability         = errors.New("vehicle type cannot perform this role")
	ErrBookingAlreadyTaken  = errors.New("booking already has an active assignment")
	ErrAssignmentFinished   = errors.New("assignment is already finished")
)

// DispatchResult carries the created assignment plus the informational
// time estimate; the estimate is surfaced to the hub but never persisted.
type DispatchResult struct {
	Assignment       *models.Assignment `json:"assignment"`
	EstimatedMinutes float64            `json:"estimated_minutes"`
}

type DispatchService struct {
	bookingRepo    *repository.BookingRepository
	vehicleRepo    *repository.VehicleRepository
	assignmentRepo *repository.AssignmentRepository
	db             *gorm.DB
}

func NewDispatchService(
	bookingRepo *repository.BookingRepository,
	vehicleRepo *repository.VehicleRepository,
	assignmentRepo *repository.AssignmentRepository,
	db *gorm.DB,
) *DispatchService {
	return &DispatchService{
		bookingRepo:    bookingRepo,
		vehicleRepo:    vehicleRepo,
		assignmentRepo: assignmentRepo,
		db:             db,
	}
}

// Assign matches a booking to a baler and optionally a truck. The booking
// and both vehicles are locked and re-checked inside one transaction, so
// two hub managers racing for the same baler cannot both win.
func (s *DispatchService) Assign(bookingID, balerVehicleID uint, truckVehicleID *uint) (*DispatchResult, error) {
	var result DispatchResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !booking.Assignable() {
			return ErrBookingNotAssignable
		}

		active, err := s.assignmentRepo.CountActiveForBooking(tx, booking.ID)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrBookingAlreadyTaken
		}

		baler, err := s.lockVehicle(tx, balerVehicleID)
		if err != nil {
			return err
		}
		if !baler.CanBale() {
			return ErrNoCapability
		}

		var truck *models.Vehicle
		if truckVehicleID != nil {
			truck, err = s.lockVehicle(tx, *truckVehicleID)
			if err != nil {
				return err
			}
			if !truck.CanHaul() {
				return ErrNoCapability
			}
		}

		assignment := &models.Assignment{
			BookingID:      booking.ID,
			BalerVehicleID: baler.ID,
			TruckVehicleID: truckVehicleID,
			HubID:          baler.HubID,
			Status:         models.AssignmentAssigned,
			OperatorStatus: models.OperatorPending,
			AssignedAt:     time.Now(),
		}
		if err := s.assignmentRepo.Create(tx, assignment); err != nil {
			return err
		}

		booking.Status = models.BookingScheduled
		if err := s.bookingRepo.UpdateInTx(tx, booking); err != nil {
			return err
		}

		baler.Availability = models.VehicleBusy
		if err := s.vehicleRepo.UpdateInTx(tx, baler); err != nil {
			return err
		}
		if truck != nil {
			truck.Availability = models.VehicleBusy
			if err := s.vehicleRepo.UpdateInTx(tx, truck); err != nil {
				return err
			}
		}

		result.Assignment = assignment
		result.EstimatedMinutes = baler.TimePerTonneMinutes * booking.EstimatedTonnes
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &result, nil
}

// lockVehicle re-checks availability at commit time. The denormalized flag
// is not trusted on its own; the active-assignment recount catches drift.
func (s *DispatchService) lockVehicle(tx *gorm.DB, vehicleID uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByIDForUpdate(tx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	if vehicle.Availability != models.VehicleAvailable {
		return nil, ErrVehicleUnavailable
	}

	active, err := s.vehicleRepo.CountActiveAssignments(tx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrVehicleUnavailable
	}

	return vehicle, nil
}

// Unassign releases a stuck assignment before the operator has finished
// work: the assignment goes terminal, the booking returns to the pending
// pool and the vehicles are freed for redispatch.
func (s *DispatchService) Unassign(assignmentID uint, reason string) (*models.Assignment, error) {
	var assignment *models.Assignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		assignment, err = s.assignmentRepo.FindByIDForUpdate(tx, assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		if assignment.Status == models.AssignmentCompleted ||
			assignment.OperatorStatus == models.OperatorWorkComplete ||
			assignment.OperatorStatus.Terminal() {
			return ErrAssignmentFinished
		}

		assignment.OperatorStatus = models.OperatorRejected
		if reason != "" {
			assignment.OperatorRemarks = &reason
		}
		if err := s.assignmentRepo.UpdateInTx(tx, assignment); err != nil {
			return err
		}

		return releaseAssignment(tx, s.bookingRepo, s.vehicleRepo, assignment)
	})

	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// releaseAssignment reverts the booking to pending and frees the vehicles.
// Callers must hold the assignment row lock.
func releaseAssignment(tx *gorm.DB, bookingRepo *repository.BookingRepository, vehicleRepo *repository.VehicleRepository, assignment *models.Assignment) error {
	booking, err := bookingRepo.FindByIDForUpdate(tx, assignment.BookingID)
	if err != nil {
		return err
	}
	booking.Status = models.BookingPending
	if err := bookingRepo.UpdateInTx(tx, booking); err != nil {
		return err
	}

	return freeVehicles(tx, vehicleRepo, assignment)
}

func freeVehicles(tx *gorm.DB, vehicleRepo *repository.VehicleRepository, assignment *models.Assignment) error {
	for _, vehicleID := range assignment.VehicleIDs() {
		vehicle, err := vehicleRepo.FindByIDForUpdate(tx, vehicleID)
		if err != nil {
			return err
		}

		// Another live assignment may still hold the vehicle if it was
		// force-released outside the normal flow.
		active, err := vehicleRepo.CountActiveAssignments(tx, vehicleID)
		if err != nil {
			return err
		}
		if active == 0 {
			vehicle.Availability = models.VehicleAvailable
			if err := vehicleRepo.UpdateInTx(tx, vehicle); err != nil {
				return err
			}
		}
	}
	return nil
}
