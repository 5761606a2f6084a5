package handler

import (
	"context"
	"fmt"
	"net/http"

	"bidwize/services/marketplace/helpers"
	"bidwize/utils"

	"github.com/gin-gonic/gin"
)

type PaymentServiceInterface interface {
	VerifyAndRecord(ctx context.Context, cardNumber, cardHolderName, expiryDate, securityCode string) (bool, error)
}

type PaymentHandler struct {
	service PaymentServiceInterface
}

func NewPaymentHandler(service PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// AddPaymentHandler handles POST /payments/add-payment
func (h *PaymentHandler) AddPaymentHandler(c *gin.Context) {
	var req helpers.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddPaymentHandler", err)
		return
	}

	valid, err := h.service.VerifyAndRecord(c.Request.Context(), req.CardNumber, req.CardHolderName, req.ExpiryDate, req.SecurityCode)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("AddPaymentHandler: payment verification failed", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"valid": valid}, "payment verified successfully")
	helpers.LogSuccess("AddPaymentHandler", "payment verified successfully", nil)
}
