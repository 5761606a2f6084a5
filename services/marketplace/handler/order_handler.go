package handler

import (
	"context"
	"fmt"
	"net/http"

	model "bidwize/internal/models"
	"bidwize/services/marketplace/helpers"
	"bidwize/utils"

	"github.com/gin-gonic/gin"
)

type OrderServiceInterface interface {
	CreateOrderFromAuction(ctx context.Context, auctionID string, totalPaid float64) (model.Order, error)
	GetOrderByAuction(ctx context.Context, auctionID string) (model.Order, error)
}

type OrderHandler struct {
	service OrderServiceInterface
}

func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrderHandler handles POST /orders/auction/:auction_id
func (h *OrderHandler) CreateOrderHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateOrderHandler", err)
		return
	}

	order, err := h.service.CreateOrderFromAuction(c.Request.Context(), auctionID, req.TotalPaid)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateOrderHandler: failed to create order", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, order, "order created successfully")
	helpers.LogSuccess("CreateOrderHandler", "order created successfully", map[string]any{
		"order_id":   order.OrderID,
		"auction_id": order.AuctionID,
		"total_paid": order.TotalPaid,
	})
}

// GetOrderHandler handles GET /orders/auction/:auction_id
func (h *OrderHandler) GetOrderHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	order, err := h.service.GetOrderByAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetOrderHandler: error retrieving order", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, order, "order retrieved successfully")
}
