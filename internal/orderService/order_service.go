// Package order creates and reads fulfillment records for closed auctions.
// It runs entirely downstream of the auction engine: it consumes a recorded
// winner, it never drives a close.
package order

import (
	"context"
	"fmt"
	"time"

	"bidwize/internal/auctionerrors"
	model "bidwize/internal/models"
	"bidwize/internal/repository"
	"bidwize/utils"
)

// OrderService builds orders from auction winners
type OrderService struct {
	repo repository.Store
	now  func() time.Time
}

// NewOrderService creates a new OrderService instance
func NewOrderService(repo repository.Store) *OrderService {
	return &OrderService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrderFromAuction creates a fulfillment record for the winner of a
// closed auction, copying the winner's shipping details from the directory.
func (s *OrderService) CreateOrderFromAuction(ctx context.Context, auctionID string, totalPaid float64) (model.Order, error) {
	if auctionID == "" {
		return model.Order{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}
	if totalPaid <= 0 {
		return model.Order{}, fmt.Errorf("service: %w - non-positive total paid", auctionerrors.ErrInvalidInput)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Order{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	if auction.IsActive || auction.WinningBidID == "" {
		return model.Order{}, fmt.Errorf("service: %w - auction %s", auctionerrors.ErrNoWinner, auctionID)
	}

	winningBid, err := s.repo.GetBid(ctx, auction.WinningBidID)
	if err != nil {
		return model.Order{}, fmt.Errorf("service: failed to get winning bid %s: %w", auction.WinningBidID, err)
	}
	winner, err := s.repo.GetUser(ctx, winningBid.UserID)
	if err != nil {
		return model.Order{}, fmt.Errorf("service: failed to get winner %s: %w", winningBid.UserID, err)
	}

	order := model.Order{
		OrderID:       utils.GenerateID(),
		AuctionID:     auctionID,
		ItemID:        auction.ItemID,
		UserID:        winner.UserID,
		UserName:      winner.Username,
		StreetAddress: winner.Street,
		City:          winner.City,
		Country:       winner.Country,
		PostalCode:    winner.PostalCode,
		TotalPaid:     totalPaid,
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("service: failed to create order for auction %s: %w", auctionID, err)
	}
	return order, nil
}

// GetOrderByAuction returns the fulfillment record created for an auction
func (s *OrderService) GetOrderByAuction(ctx context.Context, auctionID string) (model.Order, error) {
	if auctionID == "" {
		return model.Order{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}
	order, err := s.repo.GetOrderByAuction(ctx, auctionID)
	if err != nil {
		return model.Order{}, fmt.Errorf("service: failed to get order for auction %s: %w", auctionID, err)
	}
	return order, nil
}
