package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrUnknownCrop       = errors.New("unknown crop type")
	ErrInvalidArea       = errors.New("area must be positive")
	ErrNotBookingOwner   = errors.New("booking belongs to another farmer")
	ErrBookingNotPending = errors.New("booking is not awaiting confirmation")
	ErrNotCancellable    = errors.New("booking can no longer be cancelled")
)

type BookingService struct {
	bookingRepo  *repository.BookingRepository
	cropRateRepo *repository.CropRateRepository
	db           *gorm.DB
}

func NewBookingService(bookingRepo *repository.BookingRepository, cropRateRepo *repository.CropRateRepository, db *gorm.DB) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		cropRateRepo: cropRateRepo,
		db:           db,
	}
}

// Create registers a pickup request. Tonnage and price are estimated from
// the crop rate table; the final figures come later from hub reconciliation.
func (s *BookingService) Create(farmerID, farmPlotID uint, cropType string, areaAcres float64, harvestEnd, windowStart, windowEnd time.Time) (*models.Booking, error) {
	if areaAcres <= 0 {
		return nil, ErrInvalidArea
	}

	rate, err := s.cropRateRepo.FindByCropType(cropType)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrUnknownCrop
	}

	estimatedTonnes := round2(rate.EstimateTonnes(areaAcres))
	estimatedPrice := round2(estimatedTonnes * rate.PricePerTonne)

	booking := &models.Booking{
		Reference:         newReference("BK"),
		FarmerID:          farmerID,
		FarmPlotID:        farmPlotID,
		CropType:          cropType,
		AreaAcres:         areaAcres,
		EstimatedTonnes:   estimatedTonnes,
		EstimatedPrice:    estimatedPrice,
		HarvestEndDate:    harvestEnd,
		PickupWindowStart: windowStart,
		PickupWindowEnd:   windowEnd,
		Status:            models.BookingPending,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// Confirm moves a pending booking to confirmed after hub review.
func (s *BookingService) Confirm(bookingID uint) (*models.Booking, error) {
	var booking *models.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status != models.BookingPending {
			return ErrBookingNotPending
		}

		booking.Status = models.BookingConfirmed
		return s.bookingRepo.UpdateInTx(tx, booking)
	})

	if err != nil {
		return nil, err
	}

	return booking, nil
}

// Cancel is allowed only before any assignment exists. Once scheduled, the
// booking can only come back through operator rejection or a hub unassign.
func (s *BookingService) Cancel(bookingID, farmerID uint) (*models.Booking, error) {
	var booking *models.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.FarmerID != farmerID {
			return ErrNotBookingOwner
		}

		if !booking.Cancellable() {
			return ErrNotCancellable
		}

		booking.Status = models.BookingCancelled
		return s.bookingRepo.UpdateInTx(tx, booking)
	})

	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *BookingService) Get(bookingID uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListByFarmer(farmerID uint) ([]models.Booking, error) {
	return s.bookingRepo.FindByFarmer(farmerID)
}

func (s *BookingService) ListByStatus(status models.BookingStatus) ([]models.Booking, error) {
	return s.bookingRepo.FindByStatus(status)
}

func newReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
