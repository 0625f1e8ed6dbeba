package services

import (
	"errors"
	"fmt"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAssignmentNotApproved = errors.New("assignment has not been approved")
	ErrAlreadyRecorded       = errors.New("assignment already recorded into inventory")
	ErrNoQuantity            = errors.New("quantity must be positive")
)

type InventoryService struct {
	inventoryRepo  *repository.InventoryRepository
	assignmentRepo *repository.AssignmentRepository
	bookingRepo    *repository.BookingRepository
	db             *gorm.DB
}

func NewInventoryService(
	inventoryRepo *repository.InventoryRepository,
	assignmentRepo *repository.AssignmentRepository,
	bookingRepo *repository.BookingRepository,
	db *gorm.DB,
) *InventoryService {
	return &InventoryService{
		inventoryRepo:  inventoryRepo,
		assignmentRepo: assignmentRepo,
		bookingRepo:    bookingRepo,
		db:             db,
	}
}

// RecordInbound books one completed assignment into hub stock exactly once.
// The quantity defaults to the reconciled assignment figure; a manual
// override is allowed for weighbridge corrections.
func (s *InventoryService) RecordInbound(assignmentID uint, quantityTonnes *float64, notes string) (*models.InventoryEntry, error) {
	var entry *models.InventoryEntry

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignment, err := s.assignmentRepo.FindByIDForUpdate(tx, assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		if assignment.Status != models.AssignmentCompleted {
			return ErrAssignmentNotApproved
		}

		existing, err := s.inventoryRepo.FindBySourceAssignment(tx, assignmentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyRecorded
		}

		quantity := 0.0
		if quantityTonnes != nil {
			quantity = *quantityTonnes
		} else if assignment.ActualQuantityTonnes != nil {
			quantity = *assignment.ActualQuantityTonnes
		}
		if quantity <= 0 {
			return ErrNoQuantity
		}

		booking, err := s.bookingRepo.FindByID(assignment.BookingID)
		if err != nil {
			return err
		}

		sourceID := assignment.ID
		entry = &models.InventoryEntry{
			HubID:              assignment.HubID,
			Direction:          models.InventoryInbound,
			QuantityTonnes:     quantity,
			SourceAssignmentID: &sourceID,
			CounterpartyName:   fmt.Sprintf("farmer-%d", booking.FarmerID),
			Notes:              notes,
		}
		return s.inventoryRepo.Create(tx, entry)
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

// RecordManual covers stock movements with no tracked pickup behind them:
// walk-in deliveries and outbound sales. No idempotency key applies.
func (s *InventoryService) RecordManual(hubID uint, direction models.InventoryDirection, quantityTonnes float64, counterpartyName string, vehicleNumber *string, notes string) (*models.InventoryEntry, error) {
	if quantityTonnes <= 0 {
		return nil, ErrNoQuantity
	}

	entry := &models.InventoryEntry{
		HubID:            hubID,
		Direction:        direction,
		QuantityTonnes:   quantityTonnes,
		CounterpartyName: counterpartyName,
		VehicleNumber:    vehicleNumber,
		Notes:            notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.inventoryRepo.Create(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *InventoryService) CurrentStock(hubID uint) (float64, error) {
	return s.inventoryRepo.CurrentStock(hubID)
}

func (s *InventoryService) ListByHub(hubID uint) ([]models.InventoryEntry, error) {
	return s.inventoryRepo.FindByHub(hubID)
}
