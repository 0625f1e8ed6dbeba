package services

import (
	"testing"
	"time"

	"github.com/khetsetu/stubble-hub/internal/database"
	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db *gorm.DB

	bookingRepo    *repository.BookingRepository
	vehicleRepo    *repository.VehicleRepository
	assignmentRepo *repository.AssignmentRepository
	inventoryRepo  *repository.InventoryRepository
	payoutRepo     *repository.PayoutRepository
	cropRateRepo   *repository.CropRateRepository

	bookings   *BookingService
	vehicles   *VehicleService
	dispatch   *DispatchService
	execution  *ExecutionService
	completion *CompletionService
	inventory  *InventoryService
	payouts    *PayoutService
}

func setupTestEnv(t *testing.T) *testEnv {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	err = database.SeedCropRates(db)
	require.NoError(t, err)

	env := &testEnv{
		db:             db,
		bookingRepo:    repository.NewBookingRepository(db),
		vehicleRepo:    repository.NewVehicleRepository(db),
		assignmentRepo: repository.NewAssignmentRepository(db),
		inventoryRepo:  repository.NewInventoryRepository(db),
		payoutRepo:     repository.NewPayoutRepository(db),
		cropRateRepo:   repository.NewCropRateRepository(db),
	}

	env.bookings = NewBookingService(env.bookingRepo, env.cropRateRepo, db)
	env.vehicles = NewVehicleService(env.vehicleRepo)
	env.dispatch = NewDispatchService(env.bookingRepo, env.vehicleRepo, env.assignmentRepo, db)
	env.execution = NewExecutionService(env.assignmentRepo, env.bookingRepo, env.vehicleRepo, db)
	env.completion = NewCompletionService(env.assignmentRepo, env.bookingRepo, env.vehicleRepo, env.cropRateRepo, db)
	env.inventory = NewInventoryService(env.inventoryRepo, env.assignmentRepo, env.bookingRepo, db)
	env.payouts = NewPayoutService(env.payoutRepo, env.bookingRepo, db)

	return env
}

func (env *testEnv) createBooking(t *testing.T, farmerID uint, cropType string, areaAcres float64) *models.Booking {
	booking, err := env.bookings.Create(farmerID, 1, cropType, areaAcres,
		time.Now(), time.Now().Add(24*time.Hour), time.Now().Add(72*time.Hour))
	require.NoError(t, err)
	return booking
}

func (env *testEnv) createBaler(t *testing.T, hubID, operatorID uint, timePerTonne float64) *models.Vehicle {
	vehicle, err := env.vehicles.Register(hubID, regNo(t), models.VehicleBaler, operatorID, timePerTonne, 0)
	require.NoError(t, err)
	return vehicle
}

func (env *testEnv) createTruck(t *testing.T, hubID, operatorID uint, capacity float64) *models.Vehicle {
	vehicle, err := env.vehicles.Register(hubID, regNo(t), models.VehicleTruck, operatorID, 0, capacity)
	require.NoError(t, err)
	return vehicle
}

var regCounter int

func regNo(t *testing.T) string {
	regCounter++
	return "PB-" + t.Name() + "-" + string(rune('A'+regCounter%26)) + string(rune('0'+regCounter%10))
}

// runToWorkComplete drives a fresh assignment through the operator track up
// to work_complete with the given reported quantity.
func (env *testEnv) runToWorkComplete(t *testing.T, assignmentID, operatorID uint, tonnes float64, minutes int) *models.Assignment {
	for _, status := range []models.OperatorStatus{
		models.OperatorAccepted,
		models.OperatorEnRoute,
		models.OperatorArrived,
		models.OperatorWorkStarted,
	} {
		_, err := env.execution.Advance(assignmentID, operatorID, status)
		require.NoError(t, err)
	}

	assignment, err := env.execution.CompleteWork(assignmentID, operatorID, CompletionReport{
		ActualQuantityTonnes: tonnes,
		TimeRequiredMinutes:  minutes,
	})
	require.NoError(t, err)
	return assignment
}

// completePickup runs booking -> assignment -> approval and returns the
// approved assignment. finalTonnes is what the hub signs off.
func (env *testEnv) completePickup(t *testing.T, farmerID, hubID, operatorID uint, finalTonnes float64) (*models.Booking, *models.Assignment) {
	booking := env.createBooking(t, farmerID, "paddy", 5)
	baler := env.createBaler(t, hubID, operatorID, 30)

	result, err := env.dispatch.Assign(booking.ID, baler.ID, nil)
	require.NoError(t, err)

	env.runToWorkComplete(t, result.Assignment.ID, operatorID, finalTonnes, 150)

	assignment, err := env.completion.Approve(result.Assignment.ID, finalTonnes, nil)
	require.NoError(t, err)

	updated, err := env.bookings.Get(booking.ID)
	require.NoError(t, err)
	return updated, assignment
}
