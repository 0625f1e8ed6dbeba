package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type CompletionHandler struct {
	completionService *services.CompletionService
}

func NewCompletionHandler(completionService *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

type ApproveRequest struct {
	FinalQuantityTonnes float64 `json:"final_quantity_tonnes" binding:"required,gt=0"`
	Notes               *string `json:"notes"`
}

// Approve godoc
// @Summary Approve a completed pickup
// @Description Locks in the final quantity, completes assignment and booking, prices the booking and frees the vehicles
// @Tags completion
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body ApproveRequest true "Final figures"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hub/assignments/{id}/approve [post]
func (h *CompletionHandler) Approve(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	assignment, err := h.completionService.Approve(id, req.FinalQuantityTonnes, req.Notes)
	if err != nil {
		switch err {
		case services.ErrAssignmentNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "assignment not found"})
		case services.ErrAlreadyApproved:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "assignment already approved"})
		case services.ErrNotWorkComplete:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "operator has not completed work yet"})
		case services.ErrInvalidQuantity:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "final quantity must be positive"})
		case services.ErrRateMissing:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no price rate for booking crop type"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// Get godoc
// @Summary Get one assignment
// @Tags completion
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} models.Assignment
// @Failure 404 {object} ErrorResponse
// @Router /hub/assignments/{id} [get]
func (h *CompletionHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	assignment, err := h.completionService.Get(id)
	if err != nil {
		if err == services.ErrAssignmentNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "assignment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListByHub godoc
// @Summary List a hub's assignments
// @Tags completion
// @Produce json
// @Security BearerAuth
// @Param hub_id path int true "Hub ID"
// @Success 200 {array} models.Assignment
// @Router /hub/hubs/{hub_id}/assignments [get]
func (h *CompletionHandler) ListByHub(c *gin.Context) {
	hubID, err := parseID(c, "hub_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hub id"})
		return
	}

	assignments, err := h.completionService.ListByHub(hubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignments)
}
