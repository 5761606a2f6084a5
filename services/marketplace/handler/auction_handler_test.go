package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bidwize/internal/auctionerrors"
	auction "bidwize/internal/auctionService"
	model "bidwize/internal/models"
	"bidwize/services/marketplace/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	handler := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/bids", handler.PlaceBidHandler)

	now := time.Now().UTC()

	validRequest := helpers.PlaceBidRequest{
		AuctionID:   "auction1",
		UserID:      "user1",
		Amount:      100,
		BidderName:  "Alice",
		BidderEmail: "alice@example.com",
	}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			requestBody: validRequest,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", 100.0, "Alice", "alice@example.com").
					Return(model.Bid{
						BidID:       uuid.NewString(),
						AuctionID:   "auction1",
						UserID:      "user1",
						Amount:      100.0,
						BidderName:  "Alice",
						BidderEmail: "alice@example.com",
						CreatedAt:   now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
			validateData: func(t *testing.T, data map[string]any) {
				bidID := data["bid_id"].(string)
				require.NotEmpty(t, bidID)
				_, parseErr := uuid.Parse(bidID)
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, "auction1", data["auction_id"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, 100.0, data["amount"])
				require.Equal(t, now.Format(time.RFC3339), data["created_at"])
			},
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "missing_auction_id",
			requestBody: helpers.PlaceBidRequest{
				UserID:      "user1",
				Amount:      100,
				BidderName:  "Alice",
				BidderEmail: "alice@example.com",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "zero_amount",
			requestBody: helpers.PlaceBidRequest{
				AuctionID:   "auction1",
				UserID:      "user1",
				Amount:      0,
				BidderName:  "Alice",
				BidderEmail: "alice@example.com",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "malformed_email",
			requestBody: helpers.PlaceBidRequest{
				AuctionID:   "auction1",
				UserID:      "user1",
				Amount:      100,
				BidderName:  "Alice",
				BidderEmail: "not-an-email",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_bid_too_low",
			requestBody: validRequest,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", 100.0, "Alice", "alice@example.com").
					Return(model.Bid{}, auctionerrors.ErrBidTooLow)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bid below minimum",
		},
		{
			name:        "service_auction_not_found",
			requestBody: validRequest,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", 100.0, "Alice", "alice@example.com").
					Return(model.Bid{}, auctionerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:        "service_auction_closed",
			requestBody: validRequest,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", 100.0, "Alice", "alice@example.com").
					Return(model.Bid{}, auctionerrors.ErrAuctionNotActive)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "auction not active",
		},
		{
			name:        "service_generic_error",
			requestBody: validRequest,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", 100.0, "Alice", "alice@example.com").
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			resp, w := performRequest(t, router, http.MethodPost, "/bids", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				tc.validateData(t, data)
			}
		})
	}
}

// Test CreateAuctionHandler
func TestCreateAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	handler := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions", handler.CreateAuctionHandler)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			requestBody: helpers.CreateAuctionRequest{
				ItemID:          "item1",
				SellerID:        "seller1",
				StartDate:       start,
				EndDate:         end,
				MinBidIncrement: 10,
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateAuction(gomock.Any(), "item1", "seller1", start, end, 10.0).
					Return(model.Auction{
						AuctionID:       uuid.NewString(),
						ItemID:          "item1",
						SellerID:        "seller1",
						StartDate:       start,
						EndDate:         end,
						MinBidIncrement: 10,
						IsActive:        true,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{"item_id": }`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "missing_increment",
			requestBody: helpers.CreateAuctionRequest{
				ItemID:    "item1",
				SellerID:  "seller1",
				StartDate: start,
				EndDate:   end,
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "service_rejects_dates",
			requestBody: helpers.CreateAuctionRequest{
				ItemID:          "item1",
				SellerID:        "seller1",
				StartDate:       end,
				EndDate:         start,
				MinBidIncrement: 10,
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateAuction(gomock.Any(), "item1", "seller1", end, start, 10.0).
					Return(model.Auction{}, auctionerrors.ErrInvalidInput)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid input",
		},
		{
			name: "item_not_found",
			requestBody: helpers.CreateAuctionRequest{
				ItemID:          "missing",
				SellerID:        "seller1",
				StartDate:       start,
				EndDate:         end,
				MinBidIncrement: 10,
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateAuction(gomock.Any(), "missing", "seller1", start, end, 10.0).
					Return(model.Auction{}, auctionerrors.ErrItemNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "item not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			resp, w := performRequest(t, router, http.MethodPost, "/auctions", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test EndAuctionHandler
func TestEndAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	handler := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:auction_id/end", handler.EndAuctionHandler)

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data any)
	}{
		{
			name:      "winner",
			auctionID: "auction1",
			mockSetup: func() {
				mockService.EXPECT().
					CloseNow(gomock.Any(), "auction1").
					Return(auction.CloseResult{
						Outcome: auction.OutcomeWinner,
						Winner: &model.WinnerResult{
							AuctionID:     "auction1",
							ItemID:        "item1",
							WinningBidID:  "bid-win",
							WinningAmount: 250,
							WinnerName:    "Alice",
							WinnerEmail:   "alice@example.com",
						},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction ended with a winner",
			validateData: func(t *testing.T, data any) {
				winner := data.(map[string]any)
				require.Equal(t, "bid-win", winner["winning_bid_id"])
				require.Equal(t, 250.0, winner["winning_amount"])
				require.Equal(t, "Alice", winner["winner_name"])
			},
		},
		{
			name:      "no_bids",
			auctionID: "auction1",
			mockSetup: func() {
				mockService.EXPECT().
					CloseNow(gomock.Any(), "auction1").
					Return(auction.CloseResult{Outcome: auction.OutcomeNoWinner}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction ended, no bids were placed",
			validateData: func(t *testing.T, data any) {
				require.Nil(t, data)
			},
		},
		{
			name:      "idempotent_repeat_end",
			auctionID: "auction1",
			mockSetup: func() {
				mockService.EXPECT().
					CloseNow(gomock.Any(), "auction1").
					Return(auction.CloseResult{
						Outcome: auction.OutcomeWinner,
						Winner:  &model.WinnerResult{WinningBidID: "bid-win", WinningAmount: 250},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction ended with a winner",
		},
		{
			name:      "not_found",
			auctionID: "missing",
			mockSetup: func() {
				mockService.EXPECT().
					CloseNow(gomock.Any(), "missing").
					Return(auction.CloseResult{}, auctionerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			resp, w := performRequest(t, router, http.MethodPost, "/auctions/"+tc.auctionID+"/end", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.validateData != nil {
				tc.validateData(t, resp["data"])
			}
		})
	}
}

// Test ProcessEndedAuctionsHandler
func TestProcessEndedAuctionsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	handler := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/process-ended", handler.ProcessEndedAuctionsHandler)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().SweepOnce(gomock.Any()).Return(3, nil)

		resp, w := performRequest(t, router, http.MethodPost, "/auctions/process-ended", nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, resp["message"], "processed ended auctions")
		data := resp["data"].(map[string]any)
		require.Equal(t, 3.0, data["winner_count"])
	})

	t.Run("sweep_failure", func(t *testing.T) {
		mockService.EXPECT().SweepOnce(gomock.Any()).Return(0, errors.New("db down"))

		resp, w := performRequest(t, router, http.MethodPost, "/auctions/process-ended", nil)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, resp["message"], "internal server error")
	})
}

// Test GetAuctionStatusHandler
func TestGetAuctionStatusHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	handler := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id/status", handler.GetAuctionStatusHandler)

	t.Run("ended_with_winner", func(t *testing.T) {
		view := model.AuctionView{
			Auction: model.Auction{
				AuctionID:    "auction1",
				ItemID:       "item1",
				IsActive:     false,
				WinningBidID: "bid-win",
			},
			Item:         model.Item{ItemID: "item1", Name: "Lamp", InitialPrice: 50},
			HasEnded:     true,
			CurrentPrice: 250,
			Bids:         []model.Bid{{BidID: "bid-win", Amount: 250}},
			Winner:       &model.WinnerResult{WinningBidID: "bid-win", WinningAmount: 250},
		}
		mockService.EXPECT().GetAuctionView(gomock.Any(), "auction1").Return(view, nil)

		resp, w := performRequest(t, router, http.MethodGet, "/auctions/auction1/status", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, true, data["has_ended"])
		require.Equal(t, 250.0, data["current_price"])
		winner := data["winner"].(map[string]any)
		require.Equal(t, "bid-win", winner["winning_bid_id"])
	})

	t.Run("open_auction_has_no_winner_field", func(t *testing.T) {
		view := model.AuctionView{
			Auction:      model.Auction{AuctionID: "auction1", ItemID: "item1", IsActive: true},
			Item:         model.Item{ItemID: "item1", InitialPrice: 50},
			CurrentPrice: 50,
			Bids:         []model.Bid{},
		}
		mockService.EXPECT().GetAuctionView(gomock.Any(), "auction1").Return(view, nil)

		resp, w := performRequest(t, router, http.MethodGet, "/auctions/auction1/status", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, false, data["has_ended"])
		require.NotContains(t, data, "winner")
	})

	t.Run("not_found", func(t *testing.T) {
		mockService.EXPECT().GetAuctionView(gomock.Any(), "missing").Return(model.AuctionView{}, auctionerrors.ErrAuctionNotFound)

		resp, w := performRequest(t, router, http.MethodGet, "/auctions/missing/status", nil)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Contains(t, resp["message"], "auction not found")
	})
}

// Test ListBidsHandler
func TestListBidsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	handler := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/bids", handler.ListBidsHandler)

	t.Run("returns_bids_highest_first", func(t *testing.T) {
		mockService.EXPECT().
			GetBidsForAuction(gomock.Any(), "auction1").
			Return([]model.Bid{{BidID: "bid2", Amount: 200}, {BidID: "bid1", Amount: 100}}, nil)

		resp, w := performRequest(t, router, http.MethodGet, "/bids?auction_id=auction1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		bids := resp["data"].([]any)
		require.Len(t, bids, 2)
		first := bids[0].(map[string]any)
		require.Equal(t, 200.0, first["amount"])
	})

	t.Run("no_bids_yields_empty_list", func(t *testing.T) {
		mockService.EXPECT().
			GetBidsForAuction(gomock.Any(), "auction1").
			Return(nil, auctionerrors.ErrNoBids)

		resp, w := performRequest(t, router, http.MethodGet, "/bids?auction_id=auction1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		bids := resp["data"].([]any)
		require.Empty(t, bids)
	})

	t.Run("invalid_input", func(t *testing.T) {
		mockService.EXPECT().
			GetBidsForAuction(gomock.Any(), "").
			Return(nil, auctionerrors.ErrInvalidInput)

		resp, w := performRequest(t, router, http.MethodGet, "/bids", nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, resp["message"], "invalid input")
	})
}

// Test GetAuctionHandler and GetBidHandler
func TestGetAuctionAndBidHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	handler := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions", handler.ListAuctionsHandler)
	router.GET("/auctions/:auction_id", handler.GetAuctionHandler)
	router.GET("/bids/:bid_id", handler.GetBidHandler)

	t.Run("get_auction_found", func(t *testing.T) {
		mockService.EXPECT().
			GetAuction(gomock.Any(), "auction1").
			Return(model.Auction{AuctionID: "auction1", IsActive: true}, nil)

		resp, w := performRequest(t, router, http.MethodGet, "/auctions/auction1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "auction1", data["auction_id"])
		require.Equal(t, true, data["is_active"])
	})

	t.Run("get_auction_not_found", func(t *testing.T) {
		mockService.EXPECT().
			GetAuction(gomock.Any(), "missing").
			Return(model.Auction{}, auctionerrors.ErrAuctionNotFound)

		_, w := performRequest(t, router, http.MethodGet, "/auctions/missing", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list_auctions_active_only", func(t *testing.T) {
		mockService.EXPECT().
			ListAuctions(gomock.Any(), true).
			Return([]model.Auction{{AuctionID: "auction1", IsActive: true}}, nil)

		resp, w := performRequest(t, router, http.MethodGet, "/auctions?active_only=true", nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp["data"].([]any), 1)
	})

	t.Run("list_auctions_nil_becomes_empty", func(t *testing.T) {
		mockService.EXPECT().
			ListAuctions(gomock.Any(), false).
			Return(nil, nil)

		resp, w := performRequest(t, router, http.MethodGet, "/auctions", nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, resp["data"].([]any))
	})

	t.Run("get_bid_found", func(t *testing.T) {
		mockService.EXPECT().
			GetBid(gomock.Any(), "bid1").
			Return(model.Bid{BidID: "bid1", Amount: 100}, nil)

		resp, w := performRequest(t, router, http.MethodGet, "/bids/bid1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "bid1", data["bid_id"])
	})

	t.Run("get_bid_not_found", func(t *testing.T) {
		mockService.EXPECT().
			GetBid(gomock.Any(), "missing").
			Return(model.Bid{}, auctionerrors.ErrBidNotFound)

		_, w := performRequest(t, router, http.MethodGet, "/bids/missing", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
