package handler

import (
	"net/http"
	"testing"

	"bidwize/internal/auctionerrors"
	"bidwize/services/marketplace/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Test AddPaymentHandler
func TestAddPaymentHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockPaymentServiceInterface(ctrl)
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/payments/add-payment", handler.AddPaymentHandler)

	validRequest := helpers.PaymentRequest{
		CardNumber:     "4111111111111111",
		CardHolderName: "Alice Example",
		ExpiryDate:     "12/27",
		SecurityCode:   "123",
	}

	t.Run("valid_card", func(t *testing.T) {
		mockService.EXPECT().
			VerifyAndRecord(gomock.Any(), "4111111111111111", "Alice Example", "12/27", "123").
			Return(true, nil)

		resp, w := performRequest(t, router, http.MethodPost, "/payments/add-payment", validRequest)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, resp["message"], "payment verified successfully")
		data := resp["data"].(map[string]any)
		require.Equal(t, true, data["valid"])
	})

	t.Run("invalid_card", func(t *testing.T) {
		mockService.EXPECT().
			VerifyAndRecord(gomock.Any(), "4111111111111111", "Alice Example", "12/27", "123").
			Return(false, auctionerrors.ErrPaymentInvalid)

		resp, w := performRequest(t, router, http.MethodPost, "/payments/add-payment", validRequest)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, resp["message"], "payment information is invalid")
	})

	t.Run("missing_fields", func(t *testing.T) {
		resp, w := performRequest(t, router, http.MethodPost, "/payments/add-payment", helpers.PaymentRequest{
			CardNumber: "4111111111111111",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, resp["message"], "invalid request payload")
	})
}
