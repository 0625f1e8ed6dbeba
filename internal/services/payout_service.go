package services

import (
	"errors"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNoBookings          = errors.New("no bookings selected")
	ErrBookingNotCompleted = errors.New("booking is not completed")
	ErrAlreadyPaid         = errors.New("booking already covered by a payout")
	ErrNonPositiveNet      = errors.New("net payable is not positive")
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrPayoutNotPending    = errors.New("payout is not pending")
)

// PayoutRates are rupees per tonne.
type PayoutRates struct {
	BasePrice      float64 `json:"base_price"`
	SubsidyRate    float64 `json:"subsidy_rate"`
	BalingCostRate float64 `json:"baling_cost_rate"`
	LogisticsRate  float64 `json:"logistics_rate"`
}

type PayoutBreakdown struct {
	FarmerID            uint        `json:"farmer_id"`
	BookingIDs          []uint      `json:"booking_ids"`
	Rates               PayoutRates `json:"rates"`
	TotalQuantityTonnes float64     `json:"total_quantity_tonnes"`
	BaseAmount          float64     `json:"base_amount"`
	Subsidy             float64     `json:"subsidy"`
	BalingCost          float64     `json:"baling_cost"`
	LogisticsDeduction  float64     `json:"logistics_deduction"`
	NetPayable          float64     `json:"net_payable"`
}

type PayoutService struct {
	payoutRepo  *repository.PayoutRepository
	bookingRepo *repository.BookingRepository
	db          *gorm.DB
}

func NewPayoutService(payoutRepo *repository.PayoutRepository, bookingRepo *repository.BookingRepository, db *gorm.DB) *PayoutService {
	return &PayoutService{
		payoutRepo:  payoutRepo,
		bookingRepo: bookingRepo,
		db:          db,
	}
}

// Calculate previews the breakdown without persisting anything. The same
// checks run again under locks at commit time.
func (s *PayoutService) Calculate(farmerID uint, bookingIDs []uint, rates PayoutRates) (*PayoutBreakdown, error) {
	var breakdown *PayoutBreakdown

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		breakdown, err = s.computeInTx(tx, farmerID, bookingIDs, rates)
		return err
	})
	if err != nil {
		return nil, err
	}

	return breakdown, nil
}

// Commit recomputes under row locks, persists the payout as pending, and
// stamps every covered booking with the payout id in the same transaction
// so a later Calculate cannot select them again.
func (s *PayoutService) Commit(farmerID uint, bookingIDs []uint, rates PayoutRates) (*models.Payout, error) {
	var payout *models.Payout

	err := s.db.Transaction(func(tx *gorm.DB) error {
		bookings, err := s.bookingRepo.FindPayableForUpdate(tx, farmerID, bookingIDs)
		if err != nil {
			return err
		}

		breakdown, err := s.compute(farmerID, bookingIDs, bookings, rates)
		if err != nil {
			return err
		}

		if breakdown.NetPayable <= 0 {
			return ErrNonPositiveNet
		}

		payout = &models.Payout{
			Reference:           newReference("PO"),
			FarmerID:            farmerID,
			TotalQuantityTonnes: breakdown.TotalQuantityTonnes,
			BaseAmount:          breakdown.BaseAmount,
			Subsidy:             breakdown.Subsidy,
			BalingCost:          breakdown.BalingCost,
			LogisticsDeduction:  breakdown.LogisticsDeduction,
			NetPayable:          breakdown.NetPayable,
			Status:              models.PayoutPending,
		}
		if err := s.payoutRepo.Create(tx, payout); err != nil {
			return err
		}

		for i := range bookings {
			bookings[i].PayoutID = &payout.ID
			if err := s.bookingRepo.UpdateInTx(tx, &bookings[i]); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return payout, nil
}

// MarkCompleted records that the external disbursement settled.
func (s *PayoutService) MarkCompleted(payoutID uint) (*models.Payout, error) {
	var payout *models.Payout

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		payout, err = s.payoutRepo.FindByIDForUpdate(tx, payoutID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPayoutNotFound
			}
			return err
		}

		if payout.Status != models.PayoutPending {
			return ErrPayoutNotPending
		}

		payout.Status = models.PayoutCompleted
		return s.payoutRepo.UpdateInTx(tx, payout)
	})

	if err != nil {
		return nil, err
	}

	return payout, nil
}

func (s *PayoutService) Get(payoutID uint) (*models.Payout, error) {
	payout, err := s.payoutRepo.FindByID(payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return payout, nil
}

func (s *PayoutService) ListByFarmer(farmerID uint) ([]models.Payout, error) {
	return s.payoutRepo.FindByFarmer(farmerID)
}

func (s *PayoutService) computeInTx(tx *gorm.DB, farmerID uint, bookingIDs []uint, rates PayoutRates) (*PayoutBreakdown, error) {
	bookings, err := s.bookingRepo.FindPayableForUpdate(tx, farmerID, bookingIDs)
	if err != nil {
		return nil, err
	}
	return s.compute(farmerID, bookingIDs, bookings, rates)
}

// compute validates the booking set and applies the deterministic formula.
// Tonnage uses the reconciled actual figure, falling back to the estimate
// for bookings approved before actuals were tracked.
func (s *PayoutService) compute(farmerID uint, requestedIDs []uint, bookings []models.Booking, rates PayoutRates) (*PayoutBreakdown, error) {
	if len(requestedIDs) == 0 {
		return nil, ErrNoBookings
	}

	// FindPayableForUpdate already filters by farmer, so a missing row is
	// either an unknown id or someone else's booking.
	if len(bookings) != len(requestedIDs) {
		return nil, ErrNotBookingOwner
	}

	var total float64
	ids := make([]uint, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		if b.Status != models.BookingCompleted {
			return nil, ErrBookingNotCompleted
		}
		if b.PayoutID != nil {
			return nil, ErrAlreadyPaid
		}
		if b.ActualTonnes != nil {
			total += *b.ActualTonnes
		} else {
			total += b.EstimatedTonnes
		}
		ids = append(ids, b.ID)
	}

	breakdown := &PayoutBreakdown{
		FarmerID:            farmerID,
		BookingIDs:          ids,
		Rates:               rates,
		TotalQuantityTonnes: round2(total),
	}
	breakdown.BaseAmount = round2(breakdown.TotalQuantityTonnes * rates.BasePrice)
	breakdown.Subsidy = round2(breakdown.TotalQuantityTonnes * rates.SubsidyRate)
	breakdown.BalingCost = round2(breakdown.TotalQuantityTonnes * rates.BalingCostRate)
	breakdown.LogisticsDeduction = round2(breakdown.TotalQuantityTonnes * rates.LogisticsRate)
	breakdown.NetPayable = round2(breakdown.BaseAmount + breakdown.Subsidy - breakdown.BalingCost - breakdown.LogisticsDeduction)

	return breakdown, nil
}
