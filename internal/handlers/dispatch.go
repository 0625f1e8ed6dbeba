package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type DispatchHandler struct {
	dispatchService *services.DispatchService
}

func NewDispatchHandler(dispatchService *services.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatchService: dispatchService}
}

type AssignRequest struct {
	BookingID      uint  `json:"booking_id" binding:"required"`
	BalerVehicleID uint  `json:"baler_vehicle_id" binding:"required"`
	TruckVehicleID *uint `json:"truck_vehicle_id"`
}

type UnassignRequest struct {
	Reason string `json:"reason"`
}

// Assign godoc
// @Summary Assign equipment to a booking
// @Description Creates an assignment, schedules the booking and marks the vehicles busy in one atomic step
// @Tags dispatch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignRequest true "Assignment details"
// @Success 201 {object} services.DispatchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hub/assignments [post]
func (h *DispatchHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	result, err := h.dispatchService.Assign(req.BookingID, req.BalerVehicleID, req.TruckVehicleID)
	if err != nil {
		switch err {
		case services.ErrBookingNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		case services.ErrVehicleNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "vehicle not found"})
		case services.ErrBookingNotAssignable:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking is not in an assignable status"})
		case services.ErrBookingAlreadyTaken:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "booking already has an active assignment"})
		case services.ErrVehicleUnavailable:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "vehicle no longer available"})
		case services.ErrNoCapability:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "vehicle type cannot perform this role"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Unassign godoc
// @Summary Release a stuck assignment
// @Description Frees the booking and vehicles when an operator is unresponsive; not allowed once work is complete
// @Tags dispatch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body UnassignRequest false "Reason"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /hub/assignments/{id}/unassign [post]
func (h *DispatchHandler) Unassign(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	var req UnassignRequest
	c.ShouldBindJSON(&req)

	assignment, err := h.dispatchService.Unassign(id, req.Reason)
	if err != nil {
		switch err {
		case services.ErrAssignmentNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "assignment not found"})
		case services.ErrAssignmentFinished:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "assignment is already finished"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, assignment)
}
