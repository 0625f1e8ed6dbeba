package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/middleware"
	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type ExecutionHandler struct {
	executionService *services.ExecutionService
}

func NewExecutionHandler(executionService *services.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{executionService: executionService}
}

type AdvanceRequest struct {
	Status models.OperatorStatus `json:"status" binding:"required"`
}

// ListMine godoc
// @Summary List the caller's assignments
// @Tags execution
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Assignment
// @Router /operator/assignments [get]
func (h *ExecutionHandler) ListMine(c *gin.Context) {
	operatorID := middleware.GetUserID(c)

	assignments, err := h.executionService.ListByOperator(operatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// Advance godoc
// @Summary Advance the operator status track
// @Description Moves the assignment one step along the pending, accepted, en_route, arrived, work_started, work_complete, delivered track; rejected only from pending
// @Tags execution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body AdvanceRequest true "Next status"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /operator/assignments/{id}/advance [post]
func (h *ExecutionHandler) Advance(c *gin.Context) {
	operatorID := middleware.GetUserID(c)

	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	assignment, err := h.executionService.Advance(id, operatorID, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// SubmitReport godoc
// @Summary Submit or update the draft completion report
// @Tags execution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body services.CompletionReport true "Report"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Router /operator/assignments/{id}/report [put]
func (h *ExecutionHandler) SubmitReport(c *gin.Context) {
	operatorID := middleware.GetUserID(c)

	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	var report services.CompletionReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	assignment, err := h.executionService.SubmitReport(id, operatorID, report)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// CompleteWork godoc
// @Summary Finalize the report and mark work complete
// @Tags execution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body services.CompletionReport true "Final report"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Router /operator/assignments/{id}/complete [post]
func (h *ExecutionHandler) CompleteWork(c *gin.Context) {
	operatorID := middleware.GetUserID(c)

	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	var report services.CompletionReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	assignment, err := h.executionService.CompleteWork(id, operatorID, report)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *ExecutionHandler) respondError(c *gin.Context, err error) {
	switch err {
	case services.ErrAssignmentNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "assignment not found"})
	case services.ErrNotAssignedOperator:
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "caller is not the assigned operator"})
	case services.ErrInvalidTransition:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "transition not allowed from current operator status"})
	case services.ErrNotApprovedYet:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "delivery requires hub approval first"})
	case services.ErrReportNotEditable:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "completion report can no longer be changed"})
	case services.ErrInvalidQuantity:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "actual quantity must be positive"})
	case services.ErrInvalidTime:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "time required must be positive"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
