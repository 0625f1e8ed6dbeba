package services

import (
	"errors"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidTransition   = errors.New("transition not allowed from current operator status")
	ErrNotAssignedOperator = errors.New("caller is not the assigned operator")
	ErrReportNotEditable   = errors.New("completion report can no longer be changed")
	ErrInvalidQuantity     = errors.New("actual quantity must be positive")
	ErrInvalidTime         = errors.New("time required must be positive")
	ErrNotApprovedYet      = errors.New("delivery requires hub approval first")
)

// CompletionReport is the operator's self-reported field data. It stays
// untrusted until the hub reconciles it against physical weighing.
type CompletionReport struct {
	ActualQuantityTonnes float64        `json:"actual_quantity_tonnes"`
	TimeRequiredMinutes  int            `json:"time_required_minutes"`
	MoistureContent      *float64       `json:"moisture_content,omitempty"`
	BaleCount            *int           `json:"bale_count,omitempty"`
	OperatorRemarks      *string        `json:"operator_remarks,omitempty"`
	Photos               *models.Photos `json:"photos,omitempty"`
	FarmerSignature      *string        `json:"farmer_signature,omitempty"`
}

type ExecutionService struct {
	assignmentRepo *repository.AssignmentRepository
	bookingRepo    *repository.BookingRepository
	vehicleRepo    *repository.VehicleRepository
	db             *gorm.DB
}

func NewExecutionService(
	assignmentRepo *repository.AssignmentRepository,
	bookingRepo *repository.BookingRepository,
	vehicleRepo *repository.VehicleRepository,
	db *gorm.DB,
) *ExecutionService {
	return &ExecutionService{
		assignmentRepo: assignmentRepo,
		bookingRepo:    bookingRepo,
		vehicleRepo:    vehicleRepo,
		db:             db,
	}
}

// Advance moves the operator track one step. Skips and backward moves are
// rejected; rejection from pending frees the booking and vehicles.
func (s *ExecutionService) Advance(assignmentID, operatorID uint, next models.OperatorStatus) (*models.Assignment, error) {
	var assignment *models.Assignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		assignment, err = s.lockForOperator(tx, assignmentID, operatorID)
		if err != nil {
			return err
		}

		if !models.CanTransition(assignment.OperatorStatus, next) {
			return ErrInvalidTransition
		}

		// work_complete carries the mandatory report; CompleteWork is the
		// only way in.
		if next == models.OperatorWorkComplete {
			return ErrInvalidTransition
		}

		// The truck leaves for the hub only after reconciliation.
		if next == models.OperatorDelivered && assignment.Status != models.AssignmentCompleted {
			return ErrNotApprovedYet
		}

		assignment.OperatorStatus = next

		if next == models.OperatorWorkStarted {
			assignment.Status = models.AssignmentInProgress
			booking, err := s.bookingRepo.FindByIDForUpdate(tx, assignment.BookingID)
			if err != nil {
				return err
			}
			booking.Status = models.BookingInProgress
			if err := s.bookingRepo.UpdateInTx(tx, booking); err != nil {
				return err
			}
		}

		if err := s.assignmentRepo.UpdateInTx(tx, assignment); err != nil {
			return err
		}

		if next == models.OperatorRejected {
			return releaseAssignment(tx, s.bookingRepo, s.vehicleRepo, assignment)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// SubmitReport stores or replaces the draft report while work is still in
// progress. Once work_complete is reached the figures freeze for the hub.
func (s *ExecutionService) SubmitReport(assignmentID, operatorID uint, report CompletionReport) (*models.Assignment, error) {
	var assignment *models.Assignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		assignment, err = s.lockForOperator(tx, assignmentID, operatorID)
		if err != nil {
			return err
		}

		if assignment.OperatorStatus != models.OperatorWorkStarted {
			return ErrReportNotEditable
		}

		if err := validateReport(&report); err != nil {
			return err
		}

		applyReport(assignment, &report)
		return s.assignmentRepo.UpdateInTx(tx, assignment)
	})

	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// CompleteWork validates the final report and advances work_started ->
// work_complete in one step, so a work_complete assignment always carries
// usable figures.
func (s *ExecutionService) CompleteWork(assignmentID, operatorID uint, report CompletionReport) (*models.Assignment, error) {
	var assignment *models.Assignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		assignment, err = s.lockForOperator(tx, assignmentID, operatorID)
		if err != nil {
			return err
		}

		if !models.CanTransition(assignment.OperatorStatus, models.OperatorWorkComplete) {
			return ErrInvalidTransition
		}

		if err := validateReport(&report); err != nil {
			return err
		}

		applyReport(assignment, &report)
		assignment.OperatorStatus = models.OperatorWorkComplete
		return s.assignmentRepo.UpdateInTx(tx, assignment)
	})

	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *ExecutionService) ListByOperator(operatorID uint) ([]models.Assignment, error) {
	return s.assignmentRepo.FindByOperator(operatorID)
}

func (s *ExecutionService) lockForOperator(tx *gorm.DB, assignmentID, operatorID uint) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByIDForUpdate(tx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	for _, vehicleID := range assignment.VehicleIDs() {
		vehicle, err := s.vehicleRepo.FindByID(vehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.OperatorID == operatorID {
			return assignment, nil
		}
	}

	return nil, ErrNotAssignedOperator
}

func validateReport(report *CompletionReport) error {
	if report.ActualQuantityTonnes <= 0 {
		return ErrInvalidQuantity
	}
	if report.TimeRequiredMinutes <= 0 {
		return ErrInvalidTime
	}
	return nil
}

func applyReport(assignment *models.Assignment, report *CompletionReport) {
	assignment.ActualQuantityTonnes = &report.ActualQuantityTonnes
	assignment.TimeRequiredMinutes = &report.TimeRequiredMinutes
	assignment.MoistureContent = report.MoistureContent
	assignment.BaleCount = report.BaleCount
	assignment.OperatorRemarks = report.OperatorRemarks
	assignment.Photos = report.Photos
	assignment.FarmerSignature = report.FarmerSignature
}
