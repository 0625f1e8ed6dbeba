package services

import (
	"testing"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRates = PayoutRates{
	BasePrice:      2000,
	SubsidyRate:    500,
	BalingCostRate: 300,
	LogisticsRate:  150,
}

func TestPayoutService_DeterministicBreakdown(t *testing.T) {
	env := setupTestEnv(t)

	booking, _ := env.completePickup(t, 1, 1, 10, 5.8)

	breakdown, err := env.payouts.Calculate(1, []uint{booking.ID}, testRates)
	require.NoError(t, err)

	assert.Equal(t, 5.8, breakdown.TotalQuantityTonnes)
	assert.Equal(t, 11600.0, breakdown.BaseAmount)
	assert.Equal(t, 2900.0, breakdown.Subsidy)
	assert.Equal(t, 1740.0, breakdown.BalingCost)
	assert.Equal(t, 870.0, breakdown.LogisticsDeduction)
	assert.Equal(t, 11890.0, breakdown.NetPayable)
}

func TestPayoutService_CalculatePersistsNothing(t *testing.T) {
	env := setupTestEnv(t)

	booking, _ := env.completePickup(t, 1, 1, 10, 5.8)

	_, err := env.payouts.Calculate(1, []uint{booking.ID}, testRates)
	require.NoError(t, err)

	payouts, err := env.payouts.ListByFarmer(1)
	require.NoError(t, err)
	assert.Empty(t, payouts)

	updated, _ := env.bookings.Get(booking.ID)
	assert.Nil(t, updated.PayoutID)
}

func TestPayoutService_CommitMarksBookingsPaid(t *testing.T) {
	env := setupTestEnv(t)

	booking, _ := env.completePickup(t, 1, 1, 10, 5.8)

	payout, err := env.payouts.Commit(1, []uint{booking.ID}, testRates)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutPending, payout.Status)
	assert.Equal(t, 11890.0, payout.NetPayable)
	assert.NotEmpty(t, payout.Reference)

	updated, _ := env.bookings.Get(booking.ID)
	require.NotNil(t, updated.PayoutID)
	assert.Equal(t, payout.ID, *updated.PayoutID)

	// A later run cannot select the booking again.
	_, err = env.payouts.Calculate(1, []uint{booking.ID}, testRates)
	assert.Equal(t, ErrAlreadyPaid, err)

	_, err = env.payouts.Commit(1, []uint{booking.ID}, testRates)
	assert.Equal(t, ErrAlreadyPaid, err)
}

func TestPayoutService_MultipleBookings(t *testing.T) {
	env := setupTestEnv(t)

	first, _ := env.completePickup(t, 1, 1, 10, 5.8)
	second, _ := env.completePickup(t, 1, 1, 10, 4.2)

	breakdown, err := env.payouts.Calculate(1, []uint{first.ID, second.ID}, testRates)
	require.NoError(t, err)
	assert.Equal(t, 10.0, breakdown.TotalQuantityTonnes)
	assert.Equal(t, 20500.0, breakdown.NetPayable)
}

func TestPayoutService_RejectsForeignBooking(t *testing.T) {
	env := setupTestEnv(t)

	booking, _ := env.completePickup(t, 2, 1, 10, 5.8)

	_, err := env.payouts.Calculate(1, []uint{booking.ID}, testRates)
	assert.Equal(t, ErrNotBookingOwner, err)
}

func TestPayoutService_RejectsIncompleteBooking(t *testing.T) {
	env := setupTestEnv(t)

	booking := env.createBooking(t, 1, "paddy", 5)

	_, err := env.payouts.Calculate(1, []uint{booking.ID}, testRates)
	assert.Equal(t, ErrBookingNotCompleted, err)
}

func TestPayoutService_RejectsEmptySelection(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.payouts.Calculate(1, nil, testRates)
	assert.Equal(t, ErrNoBookings, err)
}

func TestPayoutService_NonPositiveNetRefused(t *testing.T) {
	env := setupTestEnv(t)

	booking, _ := env.completePickup(t, 1, 1, 10, 5.8)

	// Deductions swallow the entire payment.
	upsideDown := PayoutRates{BasePrice: 100, SubsidyRate: 0, BalingCostRate: 300, LogisticsRate: 150}

	_, err := env.payouts.Commit(1, []uint{booking.ID}, upsideDown)
	assert.Equal(t, ErrNonPositiveNet, err)

	// Nothing was persisted and the booking stays payable.
	updated, _ := env.bookings.Get(booking.ID)
	assert.Nil(t, updated.PayoutID)
}

func TestPayoutService_MarkCompleted(t *testing.T) {
	env := setupTestEnv(t)

	booking, _ := env.completePickup(t, 1, 1, 10, 5.8)

	payout, err := env.payouts.Commit(1, []uint{booking.ID}, testRates)
	require.NoError(t, err)

	settled, err := env.payouts.MarkCompleted(payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutCompleted, settled.Status)

	_, err = env.payouts.MarkCompleted(payout.ID)
	assert.Equal(t, ErrPayoutNotPending, err)
}

func TestPayoutService_NoBookingInTwoPayouts(t *testing.T) {
	env := setupTestEnv(t)

	first, _ := env.completePickup(t, 1, 1, 10, 5.8)
	second, _ := env.completePickup(t, 1, 1, 10, 4.2)

	_, err := env.payouts.Commit(1, []uint{first.ID}, testRates)
	require.NoError(t, err)

	// A selection overlapping an earlier payout is rejected whole.
	_, err = env.payouts.Commit(1, []uint{first.ID, second.ID}, testRates)
	assert.Equal(t, ErrAlreadyPaid, err)

	// The untouched booking still pays out on its own.
	_, err = env.payouts.Commit(1, []uint{second.ID}, testRates)
	require.NoError(t, err)

	payouts, err := env.payouts.ListByFarmer(1)
	require.NoError(t, err)
	require.Len(t, payouts, 2)

	seen := map[uint]int{}
	for _, p := range payouts {
		for _, b := range p.Bookings {
			seen[b.ID]++
		}
	}
	assert.Equal(t, 1, seen[first.ID])
	assert.Equal(t, 1, seen[second.ID])
}
