package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bidwize/internal/auctionerrors"
	auction "bidwize/internal/auctionService"
	model "bidwize/internal/models"
	"bidwize/services/marketplace/helpers"
	"bidwize/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	CreateAuction(ctx context.Context, itemID, sellerID string, startDate, endDate time.Time, minIncrement float64) (model.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctions(ctx context.Context, activeOnly bool) ([]model.Auction, error)
	PlaceBid(ctx context.Context, auctionID, userID string, amount float64, bidderName, bidderEmail string) (model.Bid, error)
	GetBidsForAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	CloseNow(ctx context.Context, auctionID string) (auction.CloseResult, error)
	SweepOnce(ctx context.Context) (int, error)
	GetAuctionView(ctx context.Context, auctionID string) (model.AuctionView, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	created, err := h.service.CreateAuction(c.Request.Context(), req.ItemID, req.SellerID, req.StartDate, req.EndDate, req.MinBidIncrement)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"item_id":   req.ItemID,
			"seller_id": req.SellerID,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, created, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": created.AuctionID,
		"item_id":    created.ItemID,
		"seller_id":  created.SellerID,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	auctions, err := h.service.ListAuctions(c.Request.Context(), activeOnly)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAuctionsHandler: error listing auctions", map[string]any{"error": err.Error()})
		return
	}

	if auctions == nil {
		auctions = []model.Auction{}
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"count":       len(auctions),
		"active_only": activeOnly,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	found, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, found, "auction retrieved successfully")
}

// GetAuctionStatusHandler handles GET /auctions/:auction_id/status. It serves
// the full auction view; an expired-but-open auction is closed before the
// view is built, so callers never see a stale open auction.
func (h *AuctionHandler) GetAuctionStatusHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	view, err := h.service.GetAuctionView(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionStatusHandler: error building auction view", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, view, "auction status retrieved successfully")
	helpers.LogSuccess("GetAuctionStatusHandler", "auction status retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"is_active":  view.Auction.IsActive,
		"bid_count":  len(view.Bids),
	})
}

// EndAuctionHandler handles POST /auctions/:auction_id/end. Ending an
// already-ended auction is not an error; the recorded result comes back.
func (h *AuctionHandler) EndAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	result, err := h.service.CloseNow(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("EndAuctionHandler: failed to end auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	if result.Outcome == auction.OutcomeWinner {
		utils.JSONResponse(c, http.StatusOK, result.Winner, "auction ended with a winner")
		helpers.LogSuccess("EndAuctionHandler", "auction ended with a winner", map[string]any{
			"auction_id":     auctionID,
			"winning_bid_id": result.Winner.WinningBidID,
			"amount":         result.Winner.WinningAmount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "auction ended, no bids were placed")
	helpers.LogSuccess("EndAuctionHandler", "auction ended, no bids were placed", map[string]any{
		"auction_id": auctionID,
	})
}

// ProcessEndedAuctionsHandler handles POST /auctions/process-ended: one
// administrative sweep pass.
func (h *AuctionHandler) ProcessEndedAuctionsHandler(c *gin.Context) {
	count, err := h.service.SweepOnce(c.Request.Context())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("ProcessEndedAuctionsHandler: sweep failed", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"winner_count": count}, "processed ended auctions")
	helpers.LogSuccess("ProcessEndedAuctionsHandler", "processed ended auctions", map[string]any{
		"winner_count": count,
	})
}

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), req.AuctionID, req.UserID, req.Amount, req.BidderName, req.BidderEmail)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to record bid", map[string]any{
			"auction_id": req.AuctionID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.BidResponse{
		BidID:       bid.BidID,
		AuctionID:   bid.AuctionID,
		UserID:      bid.UserID,
		Amount:      bid.Amount,
		BidderName:  bid.BidderName,
		BidderEmail: bid.BidderEmail,
		CreatedAt:   bid.CreatedAt.UTC().Format(time.RFC3339),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"user_id":    req.UserID,
		"amount":     bid.Amount,
	})
}

// ListBidsHandler handles GET /bids?auction_id=
func (h *AuctionHandler) ListBidsHandler(c *gin.Context) {
	auctionID := c.Query("auction_id")

	bids, err := h.service.GetBidsForAuction(c.Request.Context(), auctionID)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBidsHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("ListBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(bids),
	})
}

// GetBidHandler handles GET /bids/:bid_id
func (h *AuctionHandler) GetBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")

	bid, err := h.service.GetBid(c.Request.Context(), bidID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidHandler: error retrieving bid", map[string]any{"bid_id": bidID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, bid, "bid retrieved successfully")
}
