package services

import (
	"errors"
	"time"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotWorkComplete = errors.New("operator has not completed work yet")
	ErrAlreadyApproved = errors.New("assignment already approved")
	ErrRateMissing     = errors.New("no price rate for booking crop type")
)

// CompletionService is the hub-side authority that turns an operator's
// self-report into the system-of-record quantity.
type CompletionService struct {
	assignmentRepo *repository.AssignmentRepository
	bookingRepo    *repository.BookingRepository
	vehicleRepo    *repository.VehicleRepository
	cropRateRepo   *repository.CropRateRepository
	db             *gorm.DB
}

func NewCompletionService(
	assignmentRepo *repository.AssignmentRepository,
	bookingRepo *repository.BookingRepository,
	vehicleRepo *repository.VehicleRepository,
	cropRateRepo *repository.CropRateRepository,
	db *gorm.DB,
) *CompletionService {
	return &CompletionService{
		assignmentRepo: assignmentRepo,
		bookingRepo:    bookingRepo,
		vehicleRepo:    vehicleRepo,
		cropRateRepo:   cropRateRepo,
		db:             db,
	}
}

// Approve locks in the final quantity, completes both the assignment and
// the booking, prices the booking, and frees the vehicles. The hub figure
// overrides whatever the operator reported. A second call is a no-op error.
func (s *CompletionService) Approve(assignmentID uint, finalQuantityTonnes float64, notes *string) (*models.Assignment, error) {
	if finalQuantityTonnes <= 0 {
		return nil, ErrInvalidQuantity
	}

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

		if assignment.Status == models.AssignmentCompleted {
			return ErrAlreadyApproved
		}
		if assignment.OperatorStatus != models.OperatorWorkComplete {
			return ErrNotWorkComplete
		}

		booking, err := s.bookingRepo.FindByIDForUpdate(tx, assignment.BookingID)
		if err != nil {
			return err
		}

		rate, err := s.cropRateRepo.FindByCropType(booking.CropType)
		if err != nil {
			return err
		}
		if rate == nil {
			return ErrRateMissing
		}

		now := time.Now()
		assignment.Status = models.AssignmentCompleted
		assignment.ActualQuantityTonnes = &finalQuantityTonnes
		assignment.CompletedAt = &now
		assignment.HubNotes = notes
		if err := s.assignmentRepo.UpdateInTx(tx, assignment); err != nil {
			return err
		}

		finalPrice := round2(finalQuantityTonnes * rate.PricePerTonne)
		booking.Status = models.BookingCompleted
		booking.ActualTonnes = &finalQuantityTonnes
		booking.FinalPrice = &finalPrice
		if err := s.bookingRepo.UpdateInTx(tx, booking); err != nil {
			return err
		}

		return freeVehicles(tx, s.vehicleRepo, assignment)
	})

	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *CompletionService) Get(assignmentID uint) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (s *CompletionService) ListByHub(hubID uint) ([]models.Assignment, error) {
	return s.assignmentRepo.FindByHub(hubID)
}
