package services

import (
	"testing"

	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionService_ApproveLocksInFinalFigures(t *testing.T) {
	env := setupTestEnv(t)

	booking := env.createBooking(t, 1, "paddy", 5)
	baler := env.createBaler(t, 1, 10, 30)

	result, err := env.dispatch.Assign(booking.ID, baler.ID, nil)
	require.NoError(t, err)

	// Operator reports 6.1; the hub weighbridge says 5.8.
	env.runToWorkComplete(t, result.Assignment.ID, 10, 6.1, 150)

	approved, err := env.completion.Approve(result.Assignment.ID, 5.8, nil)
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentCompleted, approved.Status)
	assert.Equal(t, 5.8, *approved.ActualQuantityTonnes)
	assert.NotNil(t, approved.CompletedAt)

	updatedBooking, _ := env.bookings.Get(booking.ID)
	assert.Equal(t, models.BookingCompleted, updatedBooking.Status)
	assert.Equal(t, 5.8, *updatedBooking.ActualTonnes)
	// 5.8 tonnes * 2000 per tonne for paddy
	assert.Equal(t, 11600.0, *updatedBooking.FinalPrice)

	updatedBaler, _ := env.vehicles.Get(baler.ID)
	assert.Equal(t, models.VehicleAvailable, updatedBaler.Availability)
}

func TestCompletionService_SecondApprovalIsRefused(t *testing.T) {
	env := setupTestEnv(t)

	booking := env.createBooking(t, 1, "paddy", 5)
	baler := env.createBaler(t, 1, 10, 30)

	result, err := env.dispatch.Assign(booking.ID, baler.ID, nil)
	require.NoError(t, err)
	env.runToWorkComplete(t, result.Assignment.ID, 10, 5.8, 150)

	_, err = env.completion.Approve(result.Assignment.ID, 5.8, nil)
	require.NoError(t, err)

	// Double-submit from a flaky connection: refused, not re-applied.
	_, err = env.completion.Approve(result.Assignment.ID, 7.0, nil)
	assert.Equal(t, ErrAlreadyApproved, err)

	assignment, _ := env.completion.Get(result.Assignment.ID)
	assert.Equal(t, 5.8, *assignment.ActualQuantityTonnes)
}

func TestCompletionService_RequiresWorkComplete(t *testing.T) {
	env := setupTestEnv(t)

	booking := env.createBooking(t, 1, "paddy", 5)
	baler := env.createBaler(t, 1, 10, 30)

	result, err := env.dispatch.Assign(booking.ID, baler.ID, nil)
	require.NoError(t, err)

	_, err = env.completion.Approve(result.Assignment.ID, 5.8, nil)
	assert.Equal(t, ErrNotWorkComplete, err)
}

func TestCompletionService_RejectsNonPositiveQuantity(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.completion.Approve(1, 0, nil)
	assert.Equal(t, ErrInvalidQuantity, err)
}
