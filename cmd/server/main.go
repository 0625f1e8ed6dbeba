package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/config"
	"github.com/khetsetu/stubble-hub/internal/database"
	"github.com/khetsetu/stubble-hub/internal/handlers"
	"github.com/khetsetu/stubble-hub/internal/middleware"
	"github.com/khetsetu/stubble-hub/internal/repository"
	"github.com/khetsetu/stubble-hub/internal/services"

	_ "github.com/khetsetu/stubble-hub/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Stubble Hub API
// @version         1.0
// @description     Pickup fulfillment service for crop residue collection
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := database.SeedCropRates(db); err != nil {
		log.Fatal("Failed to seed crop rates:", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	cropRateRepo := repository.NewCropRateRepository(db)

	tokenService := services.NewTokenService(cfg.JWT.Secret)
	bookingService := services.NewBookingService(bookingRepo, cropRateRepo, db)
	vehicleService := services.NewVehicleService(vehicleRepo)
	dispatchService := services.NewDispatchService(bookingRepo, vehicleRepo, assignmentRepo, db)
	executionService := services.NewExecutionService(assignmentRepo, bookingRepo, vehicleRepo, db)
	completionService := services.NewCompletionService(assignmentRepo, bookingRepo, vehicleRepo, cropRateRepo, db)
	inventoryService := services.NewInventoryService(inventoryRepo, assignmentRepo, bookingRepo, db)
	payoutService := services.NewPayoutService(payoutRepo, bookingRepo, db)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, cfg.TestMode)
	roleMiddleware := middleware.NewRoleMiddleware()

	bookingHandler := handlers.NewBookingHandler(bookingService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	dispatchHandler := handlers.NewDispatchHandler(dispatchService)
	executionHandler := handlers.NewExecutionHandler(executionService)
	completionHandler := handlers.NewCompletionHandler(completionService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	payoutHandler := handlers.NewPayoutHandler(payoutService, cfg.Payout)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Test-User", "X-Test-Role")
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())
	{
		farmer := api.Group("")
		farmer.Use(roleMiddleware.RequireRole(services.RoleFarmer))
		{
			farmer.POST("/bookings", bookingHandler.Create)
			farmer.GET("/bookings", bookingHandler.ListMine)
			farmer.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			farmer.GET("/payouts", payoutHandler.ListMine)
		}

		// Booking detail is shared: farmers poll their own, hubs review all.
		api.GET("/bookings/:id", bookingHandler.Get)

		operator := api.Group("/operator")
		operator.Use(roleMiddleware.RequireRole(services.RoleOperator))
		{
			operator.GET("/assignments", executionHandler.ListMine)
			operator.POST("/assignments/:id/advance", executionHandler.Advance)
			operator.PUT("/assignments/:id/report", executionHandler.SubmitReport)
			operator.POST("/assignments/:id/complete", executionHandler.CompleteWork)
		}

		hub := api.Group("/hub")
		hub.Use(roleMiddleware.RequireRole(services.RoleHub))
		{
			hub.GET("/bookings", bookingHandler.ListPending)
			hub.POST("/bookings/:id/confirm", bookingHandler.Confirm)

			hub.POST("/vehicles", vehicleHandler.Register)
			hub.GET("/hubs/:hub_id/vehicles", vehicleHandler.ListByHub)

			hub.POST("/assignments", dispatchHandler.Assign)
			hub.GET("/assignments/:id", completionHandler.Get)
			hub.POST("/assignments/:id/unassign", dispatchHandler.Unassign)
			hub.POST("/assignments/:id/approve", completionHandler.Approve)
			hub.GET("/hubs/:hub_id/assignments", completionHandler.ListByHub)

			hub.POST("/inventory/inbound", inventoryHandler.RecordInbound)
			hub.POST("/inventory/manual", inventoryHandler.RecordManual)
			hub.GET("/hubs/:hub_id/inventory", inventoryHandler.List)
			hub.GET("/hubs/:hub_id/inventory/stock", inventoryHandler.Stock)

			hub.POST("/payouts/calculate", payoutHandler.Calculate)
			hub.POST("/payouts", payoutHandler.Commit)
			hub.POST("/payouts/:id/complete", payoutHandler.MarkCompleted)
		}
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting stubble-hub server on %s", addr)
	if cfg.TestMode {
		log.Println("TEST MODE ENABLED - Authentication bypassed")
	}
	log.Fatal(router.Run(addr))
}
