package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/config"
	"github.com/khetsetu/stubble-hub/internal/middleware"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type PayoutHandler struct {
	payoutService *services.PayoutService
	defaults      config.PayoutConfig
}

func NewPayoutHandler(payoutService *services.PayoutService, defaults config.PayoutConfig) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService, defaults: defaults}
}

type PayoutRequest struct {
	FarmerID   uint                  `json:"farmer_id" binding:"required"`
	BookingIDs []uint                `json:"booking_ids" binding:"required,min=1"`
	Rates      *services.PayoutRates `json:"rates"`
}

func (h *PayoutHandler) rates(req *PayoutRequest) services.PayoutRates {
	if req.Rates != nil {
		return *req.Rates
	}
	return services.PayoutRates{
		BasePrice:      h.defaults.BasePrice,
		SubsidyRate:    h.defaults.SubsidyRate,
		BalingCostRate: h.defaults.BalingCostRate,
		LogisticsRate:  h.defaults.LogisticsRate,
	}
}

// Calculate godoc
// @Summary Preview a payout breakdown
// @Description Deterministic per-tonne computation over completed, unpaid bookings; persists nothing
// @Tags payouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PayoutRequest true "Farmer and bookings"
// @Success 200 {object} services.PayoutBreakdown
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hub/payouts/calculate [post]
func (h *PayoutHandler) Calculate(c *gin.Context) {
	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	breakdown, err := h.payoutService.Calculate(req.FarmerID, req.BookingIDs, h.rates(&req))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// Commit godoc
// @Summary Commit a payout
// @Description Persists the payout as pending and marks the bookings paid in the same transaction
// @Tags payouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PayoutRequest true "Farmer and bookings"
// @Success 201 {object} models.Payout
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hub/payouts [post]
func (h *PayoutHandler) Commit(c *gin.Context) {
	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	payout, err := h.payoutService.Commit(req.FarmerID, req.BookingIDs, h.rates(&req))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

// MarkCompleted godoc
// @Summary Mark a payout as disbursed
// @Tags payouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payout ID"
// @Success 200 {object} models.Payout
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /hub/payouts/{id}/complete [post]
func (h *PayoutHandler) MarkCompleted(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payout id"})
		return
	}

	payout, err := h.payoutService.MarkCompleted(id)
	if err != nil {
		switch err {
		case services.ErrPayoutNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "payout not found"})
		case services.ErrPayoutNotPending:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "payout is not pending"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, payout)
}

// ListMine godoc
// @Summary List the caller's payouts
// @Tags payouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Payout
// @Router /payouts [get]
func (h *PayoutHandler) ListMine(c *gin.Context) {
	farmerID := middleware.GetUserID(c)

	payouts, err := h.payoutService.ListByFarmer(farmerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, payouts)
}

func (h *PayoutHandler) respondError(c *gin.Context, err error) {
	switch err {
	case services.ErrNoBookings:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no bookings selected"})
	case services.ErrNotBookingOwner:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a selected booking does not belong to the farmer"})
	case services.ErrBookingNotCompleted:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a selected booking is not completed"})
	case services.ErrAlreadyPaid:
		c.JSON(http.StatusConflict, ErrorResponse{Error: "a selected booking is already covered by a payout"})
	case services.ErrNonPositiveNet:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "net payable is not positive"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
