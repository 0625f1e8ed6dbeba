package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

type RegisterVehicleRequest struct {
	HubID               uint               `json:"hub_id" binding:"required"`
	RegistrationNo      string             `json:"registration_no" binding:"required"`
	Type                models.VehicleType `json:"type" binding:"required,oneof=baler truck both"`
	OperatorID          uint               `json:"operator_id" binding:"required"`
	TimePerTonneMinutes float64            `json:"time_per_tonne_minutes"`
	CapacityTonnes      float64            `json:"capacity_tonnes"`
}

// Register godoc
// @Summary Register a vehicle
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterVehicleRequest true "Vehicle details"
// @Success 201 {object} models.Vehicle
// @Failure 400 {object} ErrorResponse
// @Router /hub/vehicles [post]
func (h *VehicleHandler) Register(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	vehicle, err := h.vehicleService.Register(req.HubID, req.RegistrationNo, req.Type,
		req.OperatorID, req.TimePerTonneMinutes, req.CapacityTonnes)
	if err != nil {
		switch err {
		case services.ErrInvalidVehicleType:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid vehicle type"})
		case services.ErrDuplicateVehicle:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "registration number already registered"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// ListByHub godoc
// @Summary List a hub's vehicles
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param hub_id path int true "Hub ID"
// @Param available query bool false "Only available vehicles"
// @Success 200 {array} models.Vehicle
// @Router /hub/hubs/{hub_id}/vehicles [get]
func (h *VehicleHandler) ListByHub(c *gin.Context) {
	hubID, err := parseID(c, "hub_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hub id"})
		return
	}

	availableOnly := c.Query("available") == "true"

	vehicles, err := h.vehicleService.ListByHub(hubID, availableOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}
