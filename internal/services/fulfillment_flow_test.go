package services

import (
	"testing"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFulfillmentFlow walks one booking through the whole pipeline:
// creation, dispatch, field execution, hub reconciliation, inventory
// ingestion and payout.
func TestFulfillmentFlow(t *testing.T) {
	env := setupTestEnv(t)

	const (
		farmerID   = 1
		hubID      = 1
		operatorID = 10
	)

	booking := env.createBooking(t, farmerID, "paddy", 5)
	assert.Equal(t, 6.00, booking.EstimatedTonnes)
	assert.Equal(t, 12000.0, booking.EstimatedPrice)

	baler := env.createBaler(t, hubID, operatorID, 30)
	truck := env.createTruck(t, hubID, operatorID, 8)

	result, err := env.dispatch.Assign(booking.ID, baler.ID, &truck.ID)
	require.NoError(t, err)
	assert.Equal(t, 180.0, result.EstimatedMinutes)

	env.runToWorkComplete(t, result.Assignment.ID, operatorID, 5.8, 150)

	approved, err := env.completion.Approve(result.Assignment.ID, 5.8, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentCompleted, approved.Status)

	completedBooking, err := env.bookings.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, completedBooking.Status)
	assert.Equal(t, 11600.0, *completedBooking.FinalPrice)

	entry, err := env.inventory.RecordInbound(approved.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 5.8, entry.QuantityTonnes)

	stock, err := env.inventory.CurrentStock(hubID)
	require.NoError(t, err)
	assert.InDelta(t, 5.8, stock, 1e-9)

	payout, err := env.payouts.Commit(farmerID, []uint{booking.ID}, PayoutRates{
		BasePrice: 2000, SubsidyRate: 500, BalingCostRate: 300, LogisticsRate: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, 11600.0, payout.BaseAmount)
	assert.Equal(t, 2900.0, payout.Subsidy)
	assert.Equal(t, 1740.0, payout.BalingCost)
	assert.Equal(t, 870.0, payout.LogisticsDeduction)
	assert.Equal(t, 11890.0, payout.NetPayable)

	// Both vehicles back in the pool.
	for _, id := range []uint{baler.ID, truck.ID} {
		vehicle, err := env.vehicles.Get(id)
		require.NoError(t, err)
		assert.Equal(t, models.VehicleAvailable, vehicle.Availability)
	}
}

// TestVehicleExclusivity covers the racing-hub-managers case at the level
// the store enforces it: whoever commits second sees the recount and loses.
func TestVehicleExclusivity(t *testing.T) {
	env := setupTestEnv(t)

	baler := env.createBaler(t, 1, 10, 30)
	bookings := []*models.Booking{
		env.createBooking(t, 1, "paddy", 5),
		env.createBooking(t, 2, "wheat", 4),
		env.createBooking(t, 3, "maize", 3),
	}

	won := 0
	for _, booking := range bookings {
		if _, err := env.dispatch.Assign(booking.ID, baler.ID, nil); err == nil {
			won++
		} else {
			assert.Equal(t, ErrVehicleUnavailable, err)
		}
	}
	assert.Equal(t, 1, won)

	active, err := env.vehicleRepo.CountActiveAssignments(env.db, baler.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, active, int64(1))
}
