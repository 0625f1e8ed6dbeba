package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/middleware"
	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

type CreateBookingRequest struct {
	FarmPlotID        uint      `json:"farm_plot_id" binding:"required"`
	CropType          string    `json:"crop_type" binding:"required"`
	AreaAcres         float64   `json:"area_acres" binding:"required,gt=0"`
	HarvestEndDate    time.Time `json:"harvest_end_date"`
	PickupWindowStart time.Time `json:"pickup_window_start"`
	PickupWindowEnd   time.Time `json:"pickup_window_end"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Create godoc
// @Summary Create a pickup booking
// @Description Register a stubble pickup request; tonnage and price are estimated from the crop rate table
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking details"
// @Success 201 {object} models.Booking
// @Failure 400 {object} ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	farmerID := middleware.GetUserID(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	booking, err := h.bookingService.Create(farmerID, req.FarmPlotID, req.CropType, req.AreaAcres,
		req.HarvestEndDate, req.PickupWindowStart, req.PickupWindowEnd)
	if err != nil {
		switch err {
		case services.ErrUnknownCrop:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown crop type"})
		case services.ErrInvalidArea:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "area must be positive"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Get godoc
// @Summary Get one booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid booking id"})
		return
	}

	booking, err := h.bookingService.Get(id)
	if err != nil {
		if err == services.ErrBookingNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListMine godoc
// @Summary List the caller's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Booking
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	farmerID := middleware.GetUserID(c)

	bookings, err := h.bookingService.ListByFarmer(farmerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListPending godoc
// @Summary List bookings awaiting dispatch
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status filter" default(pending)
// @Success 200 {array} models.Booking
// @Router /hub/bookings [get]
func (h *BookingHandler) ListPending(c *gin.Context) {
	status := models.BookingStatus(c.DefaultQuery("status", string(models.BookingPending)))

	bookings, err := h.bookingService.ListByStatus(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// Confirm godoc
// @Summary Confirm a pending booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /hub/bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid booking id"})
		return
	}

	booking, err := h.bookingService.Confirm(id)
	if err != nil {
		switch err {
		case services.ErrBookingNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		case services.ErrBookingNotPending:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking is not awaiting confirmation"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// Cancel godoc
// @Summary Cancel a booking before dispatch
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	farmerID := middleware.GetUserID(c)

	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid booking id"})
		return
	}

	booking, err := h.bookingService.Cancel(id, farmerID)
	if err != nil {
		switch err {
		case services.ErrBookingNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		case services.ErrNotBookingOwner:
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "booking belongs to another farmer"})
		case services.ErrNotCancellable:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking is already scheduled; ask the hub to unassign"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
