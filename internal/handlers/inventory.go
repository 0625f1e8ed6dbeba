package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/models"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type RecordInboundRequest struct {
	AssignmentID   uint     `json:"assignment_id" binding:"required"`
	QuantityTonnes *float64 `json:"quantity_tonnes"`
	Notes          string   `json:"notes"`
}

type RecordManualRequest struct {
	HubID            uint                      `json:"hub_id" binding:"required"`
	Direction        models.InventoryDirection `json:"direction" binding:"required,oneof=inbound outbound"`
	QuantityTonnes   float64                   `json:"quantity_tonnes" binding:"required,gt=0"`
	CounterpartyName string                    `json:"counterparty_name" binding:"required"`
	VehicleNumber    *string                   `json:"vehicle_number"`
	Notes            string                    `json:"notes"`
}

type StockResponse struct {
	HubID              uint    `json:"hub_id"`
	CurrentStockTonnes float64 `json:"current_stock_tonnes"`
}

// RecordInbound godoc
// @Summary Record a completed pickup into hub stock
// @Description Idempotent per assignment; a retried request fails instead of double-counting
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordInboundRequest true "Inbound details"
// @Success 201 {object} models.InventoryEntry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hub/inventory/inbound [post]
func (h *InventoryHandler) RecordInbound(c *gin.Context) {
	var req RecordInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	entry, err := h.inventoryService.RecordInbound(req.AssignmentID, req.QuantityTonnes, req.Notes)
	if err != nil {
		switch err {
		case services.ErrAssignmentNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "assignment not found"})
		case services.ErrAssignmentNotApproved:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "assignment has not been approved"})
		case services.ErrAlreadyRecorded:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "assignment already recorded into inventory"})
		case services.ErrNoQuantity:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity must be positive"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// RecordManual godoc
// @Summary Record a manual stock movement
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordManualRequest true "Entry details"
// @Success 201 {object} models.InventoryEntry
// @Failure 400 {object} ErrorResponse
// @Router /hub/inventory/manual [post]
func (h *InventoryHandler) RecordManual(c *gin.Context) {
	var req RecordManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	entry, err := h.inventoryService.RecordManual(req.HubID, req.Direction, req.QuantityTonnes,
		req.CounterpartyName, req.VehicleNumber, req.Notes)
	if err != nil {
		if err == services.ErrNoQuantity {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Stock godoc
// @Summary Current hub stock
// @Description Computed from entries, never stored
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param hub_id path int true "Hub ID"
// @Success 200 {object} StockResponse
// @Router /hub/hubs/{hub_id}/inventory/stock [get]
func (h *InventoryHandler) Stock(c *gin.Context) {
	hubID, err := parseID(c, "hub_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hub id"})
		return
	}

	stock, err := h.inventoryService.CurrentStock(hubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, StockResponse{HubID: hubID, CurrentStockTonnes: stock})
}

// List godoc
// @Summary List a hub's inventory entries
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param hub_id path int true "Hub ID"
// @Success 200 {array} models.InventoryEntry
// @Router /hub/hubs/{hub_id}/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	hubID, err := parseID(c, "hub_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hub id"})
		return
	}

	entries, err := h.inventoryService.ListByHub(hubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
