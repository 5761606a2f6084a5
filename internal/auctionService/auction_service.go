// Package auction implements the auction lifecycle engine: bid admission,
// the open-to-closed transition with winner determination, the sweep over
// due auctions and the consistent read projection.
package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bidwize/internal/auctionerrors"
	model "bidwize/internal/models"
	"bidwize/internal/notifier"
	"bidwize/internal/repository"
	"bidwize/utils"
)

// CloseOutcome describes what a close attempt produced.
type CloseOutcome int

const (
	// OutcomeNotDue means the auction is open and its end date has not
	// passed; nothing was mutated. A normal outcome, not an error.
	OutcomeNotDue CloseOutcome = iota
	// OutcomeNoWinner means the auction is closed and had no bids.
	OutcomeNoWinner
	// OutcomeWinner means the auction is closed with a winning bid.
	OutcomeWinner
)

// CloseResult is the outcome of CloseIfDue/CloseNow. Winner is set only for
// OutcomeWinner.
type CloseResult struct {
	Outcome CloseOutcome
	Winner  *model.WinnerResult
}

// AuctionService owns auction and bid business logic. The open-to-closed
// transition itself is delegated to the repository's atomic CloseAuction;
// this service decides when that transition may happen.
type AuctionService struct {
	repo  repository.Store
	notif notifier.Notifier
	now   func() time.Time
}

// Option configures an AuctionService
type Option func(*AuctionService)

// WithClock replaces the service's time source, used by tests to control "now"
func WithClock(now func() time.Time) Option {
	return func(s *AuctionService) {
		s.now = now
	}
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.Store, notif notifier.Notifier, opts ...Option) *AuctionService {
	s := &AuctionService{
		repo:  repo,
		notif: notif,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAuction validates and stores a new open auction for an existing item.
// The listing user must exist and have the seller role.
func (s *AuctionService) CreateAuction(ctx context.Context, itemID, sellerID string, startDate, endDate time.Time, minIncrement float64) (model.Auction, error) {
	if itemID == "" || sellerID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - missing itemID or sellerID", auctionerrors.ErrInvalidInput)
	}
	if !endDate.After(startDate) {
		return model.Auction{}, fmt.Errorf("service: %w - end date must be after start date", auctionerrors.ErrInvalidInput)
	}
	if minIncrement <= 0 {
		return model.Auction{}, fmt.Errorf("service: %w - min bid increment must be positive", auctionerrors.ErrInvalidInput)
	}

	seller, err := s.repo.GetUser(ctx, sellerID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return model.Auction{}, fmt.Errorf("service: %w - seller does not exist", auctionerrors.ErrInvalidInput)
		}
		return model.Auction{}, fmt.Errorf("service: failed to look up seller %s: %w", sellerID, err)
	}
	if seller.Role != model.RoleSeller {
		return model.Auction{}, fmt.Errorf("service: %w - user must be a seller", auctionerrors.ErrInvalidInput)
	}

	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to look up item %s: %w", itemID, err)
	}

	auction := model.Auction{
		AuctionID:       utils.GenerateID(),
		ItemID:          itemID,
		SellerID:        sellerID,
		StartDate:       startDate,
		EndDate:         endDate,
		MinBidIncrement: minIncrement,
		IsActive:        true,
		CreatedAt:       s.now(),
	}
	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction for item %s: %w", itemID, err)
	}
	return auction, nil
}

// GetAuction returns a single auction record
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}
	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns all auctions, optionally only open ones
func (s *AuctionService) ListAuctions(ctx context.Context, activeOnly bool) ([]model.Auction, error) {
	auctions, err := s.repo.ListAuctions(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// PlaceBid validates and records a bid against an auction's current state.
// Preconditions, first failure wins: auction exists, auction open, bidder is
// an existing buyer (and not the seller), amount at or above the floor. The
// floor reads the highest bid optimistically: two bids racing past the same
// floor both persist, and the closer's tie-break ranks them at close time.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, userID string, amount float64, bidderName, bidderEmail string) (model.Bid, error) {
	if auctionID == "" || userID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - missing auctionID or userID", auctionerrors.ErrInvalidInput)
	}
	if amount <= 0 {
		return model.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidInput)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	if !auction.IsActive {
		return model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionNotActive)
	}

	bidder, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return model.Bid{}, fmt.Errorf("service: %w - bidder does not exist", auctionerrors.ErrInvalidInput)
		}
		return model.Bid{}, fmt.Errorf("service: failed to look up bidder %s: %w", userID, err)
	}
	if bidder.Role != model.RoleBuyer {
		return model.Bid{}, fmt.Errorf("service: %w - user must be a buyer", auctionerrors.ErrInvalidInput)
	}
	if userID == auction.SellerID {
		return model.Bid{}, fmt.Errorf("service: %w - seller cannot bid on own auction", auctionerrors.ErrInvalidInput)
	}

	floor, err := s.bidFloor(ctx, auction)
	if err != nil {
		return model.Bid{}, err
	}
	if amount < floor {
		return model.Bid{}, fmt.Errorf("service: %w - bid must be at least %.2f", auctionerrors.ErrBidTooLow, floor)
	}

	bid := model.Bid{
		BidID:       utils.GenerateID(),
		AuctionID:   auctionID,
		UserID:      userID,
		Amount:      amount,
		BidderName:  bidderName,
		BidderEmail: bidderEmail,
		CreatedAt:   s.now(),
	}
	if err := s.repo.RecordBid(ctx, bid); err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", auctionID, userID, err)
	}
	return bid, nil
}

// bidFloor computes the minimum acceptable next bid: highest bid plus the
// auction's increment, or the item's initial price when no bids exist.
func (s *AuctionService) bidFloor(ctx context.Context, auction model.Auction) (float64, error) {
	highest, err := s.repo.GetHighestBid(ctx, auction.AuctionID)
	if err == nil {
		return highest.Amount + auction.MinBidIncrement, nil
	}
	if !errors.Is(err, auctionerrors.ErrNoBids) {
		return 0, fmt.Errorf("service: failed to check highest bid: %w", err)
	}

	item, err := s.repo.GetItem(ctx, auction.ItemID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to get item %s: %w", auction.ItemID, err)
	}
	return item.InitialPrice, nil
}

// GetBidsForAuction returns all bids for an auction, highest first
func (s *AuctionService) GetBidsForAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}
	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetBid returns a single bid
func (s *AuctionService) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	if bidID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - empty bid ID", auctionerrors.ErrInvalidInput)
	}
	bid, err := s.repo.GetBid(ctx, bidID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get bid %s: %w", bidID, err)
	}
	return bid, nil
}

// CloseIfDue closes the auction if its end date has passed. Closed auctions
// return their recorded result unchanged; open auctions that are not yet due
// return OutcomeNotDue without mutation.
func (s *AuctionService) CloseIfDue(ctx context.Context, auctionID string) (CloseResult, error) {
	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return CloseResult{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}

	if !auction.IsActive {
		return s.recordedResult(ctx, auction)
	}
	if s.now().Before(auction.EndDate) {
		return CloseResult{Outcome: OutcomeNotDue}, nil
	}
	return s.close(ctx, auctionID)
}

// CloseNow force-closes an auction regardless of its end date. A no-op on an
// already-closed auction: the existing result is returned untouched.
func (s *AuctionService) CloseNow(ctx context.Context, auctionID string) (CloseResult, error) {
	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return CloseResult{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	if !auction.IsActive {
		return s.recordedResult(ctx, auction)
	}
	return s.close(ctx, auctionID)
}

// close drives the repository's atomic transition and, when this call
// performed it and produced a winner, notifies winner and seller. Losing the
// close race is not an error: the repository hands back the state the winning
// closer committed.
func (s *AuctionService) close(ctx context.Context, auctionID string) (CloseResult, error) {
	auction, performed, err := s.repo.CloseAuction(ctx, auctionID)
	if err != nil {
		return CloseResult{}, fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
	}

	result, err := s.recordedResult(ctx, auction)
	if err != nil {
		return CloseResult{}, err
	}

	if performed && result.Outcome == OutcomeWinner {
		s.notifyClosed(ctx, auction, result.Winner)
	}
	return result, nil
}

// recordedResult builds the CloseResult for an already-closed auction from
// its stored winning-bid reference, never recomputing the winner.
func (s *AuctionService) recordedResult(ctx context.Context, auction model.Auction) (CloseResult, error) {
	if auction.WinningBidID == "" {
		return CloseResult{Outcome: OutcomeNoWinner}, nil
	}

	bid, err := s.repo.GetBid(ctx, auction.WinningBidID)
	if err != nil {
		return CloseResult{}, fmt.Errorf("service: failed to get winning bid %s: %w", auction.WinningBidID, err)
	}
	return CloseResult{
		Outcome: OutcomeWinner,
		Winner: &model.WinnerResult{
			AuctionID:     auction.AuctionID,
			ItemID:        auction.ItemID,
			WinningBidID:  bid.BidID,
			WinningAmount: bid.Amount,
			WinnerName:    bid.BidderName,
			WinnerEmail:   bid.BidderEmail,
		},
	}, nil
}

// notifyClosed delivers the auction-ended notification. Failures are logged
// and never surface into the close result.
func (s *AuctionService) notifyClosed(ctx context.Context, auction model.Auction, winner *model.WinnerResult) {
	itemName := ""
	if item, err := s.repo.GetItem(ctx, auction.ItemID); err == nil {
		itemName = item.Name
	}
	sellerEmail := ""
	if seller, err := s.repo.GetUser(ctx, auction.SellerID); err == nil {
		sellerEmail = seller.Email
	}

	if err := s.notif.NotifyAuctionEnded(ctx, winner.WinnerEmail, sellerEmail, itemName, winner.WinningAmount); err != nil {
		utils.Error("failed to send auction ended notification", map[string]any{
			"auction_id": auction.AuctionID,
			"error":      err.Error(),
		})
	}
}

// SweepOnce runs one pass over all due-but-open auctions and closes each,
// returning how many produced a winner. A failing auction is logged and
// skipped; it does not abort the rest of the batch.
func (s *AuctionService) SweepOnce(ctx context.Context) (int, error) {
	due, err := s.repo.ListDueOpenAuctions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service: failed to list due auctions: %w", err)
	}

	winners := 0
	for _, auction := range due {
		result, err := s.CloseIfDue(ctx, auction.AuctionID)
		if err != nil {
			utils.Error("sweep: failed to close auction", map[string]any{
				"auction_id": auction.AuctionID,
				"error":      err.Error(),
			})
			continue
		}
		if result.Outcome == OutcomeWinner {
			winners++
		}
	}
	return winners, nil
}

// GetAuctionView assembles the point-in-time view of an auction. It closes
// the auction first if it is due, so a reader never observes an expired
// auction still marked open.
func (s *AuctionService) GetAuctionView(ctx context.Context, auctionID string) (model.AuctionView, error) {
	if auctionID == "" {
		return model.AuctionView{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}

	if _, err := s.CloseIfDue(ctx, auctionID); err != nil {
		return model.AuctionView{}, err
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.AuctionView{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	item, err := s.repo.GetItem(ctx, auction.ItemID)
	if err != nil {
		return model.AuctionView{}, fmt.Errorf("service: failed to get item %s: %w", auction.ItemID, err)
	}
	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return model.AuctionView{}, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}

	view := model.AuctionView{
		Auction:      auction,
		Item:         item,
		HasEnded:     !auction.EndDate.After(s.now()),
		CurrentPrice: item.InitialPrice,
		Bids:         bids,
	}
	if len(bids) > 0 {
		view.CurrentPrice = bids[0].Amount
	}

	if auction.WinningBidID != "" {
		result, err := s.recordedResult(ctx, auction)
		if err != nil {
			return model.AuctionView{}, err
		}
		view.Winner = result.Winner
	}
	return view, nil
}
