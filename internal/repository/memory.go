package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bidwize/internal/auctionerrors"
	model "bidwize/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of Store.
// It is the default backend and the one used by unit and integration tests.
type MemoryRepo struct {
	mu            sync.RWMutex
	auctions      map[string]model.Auction
	bids          map[string][]model.Bid // key: auctionID
	bidsByID      map[string]model.Bid
	items         map[string]model.Item
	users         map[string]model.User
	orders        map[string]model.Order // key: auctionID
	validPayments []model.ValidPayment
	methods       []model.PaymentMethod
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]model.Auction),
		bids:     make(map[string][]model.Bid),
		bidsByID: make(map[string]model.Bid),
		items:    make(map[string]model.Item),
		users:    make(map[string]model.User),
		orders:   make(map[string]model.Order),
	}
}

// CreateAuction stores a new open auction
func (r *MemoryRepo) CreateAuction(_ context.Context, auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[auction.ItemID]; !ok {
		return fmt.Errorf("create auction for item %s: %w", auction.ItemID, auctionerrors.ErrItemNotFound)
	}
	r.auctions[auction.AuctionID] = auction
	return nil
}

// GetAuction returns an auction by ID
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// ListAuctions returns all auctions, optionally only open ones
func (r *MemoryRepo) ListAuctions(_ context.Context, activeOnly bool) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctions := make([]model.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		if activeOnly && !a.IsActive {
			continue
		}
		auctions = append(auctions, a)
	}
	return auctions, nil
}

// ListDueOpenAuctions returns auctions that are still open but whose end date
// is at or before now.
func (r *MemoryRepo) ListDueOpenAuctions(_ context.Context, now time.Time) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []model.Auction
	for _, a := range r.auctions {
		if a.IsActive && !a.EndDate.After(now) {
			due = append(due, a)
		}
	}
	return due, nil
}

// CloseAuction atomically transitions an open auction to closed, selecting the
// winning bid (highest amount, ties earliest-created) inside the same critical
// section. If the auction is already closed it reports performed=false and
// returns the stored state untouched: the winner is never recomputed.
func (r *MemoryRepo) CloseAuction(_ context.Context, auctionID string) (model.Auction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, false, fmt.Errorf("close auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if !auction.IsActive {
		return auction, false, nil
	}

	auction.IsActive = false
	if bids := r.bids[auctionID]; len(bids) > 0 {
		sorted := append([]model.Bid(nil), bids...)
		sortBids(sorted)
		auction.WinningBidID = sorted[0].BidID
	}
	r.auctions[auctionID] = auction
	return auction, true, nil
}

// RecordBid stores a bid. The open check and the append share one lock so a
// bid can never land on an auction after it closed.
func (r *MemoryRepo) RecordBid(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[bid.AuctionID]
	if !ok {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if !auction.IsActive {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotActive)
	}

	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)
	r.bidsByID[bid.BidID] = bid
	return nil
}

// GetBid returns a single bid by ID
func (r *MemoryRepo) GetBid(_ context.Context, bidID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bidsByID[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, auctionerrors.ErrBidNotFound)
	}
	return bid, nil
}

// GetBidsByAuction returns all bids for an auction ordered by amount
// descending, equal amounts oldest first. An auction with no bids yields an
// empty slice, not an error.
func (r *MemoryRepo) GetBidsByAuction(_ context.Context, auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := append([]model.Bid(nil), r.bids[auctionID]...)
	sortBids(bids)
	return bids, nil
}

// GetHighestBid returns the current highest bid for an auction
func (r *MemoryRepo) GetHighestBid(_ context.Context, auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.bids[auctionID]
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > highest.Amount || (b.Amount == highest.Amount && b.CreatedAt.Before(highest.CreatedAt)) {
			highest = b
		}
	}
	return highest, nil
}

// CreateItem adds an item to the catalog
func (r *MemoryRepo) CreateItem(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ItemID] = item
	return nil
}

// GetItem returns an item by ID
func (r *MemoryRepo) GetItem(_ context.Context, itemID string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	return item, nil
}

// ListItems returns all catalog items
func (r *MemoryRepo) ListItems(_ context.Context) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	return items, nil
}

// CreateUser adds a user to the directory
func (r *MemoryRepo) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = user
	return nil
}

// GetUser returns a user by ID
func (r *MemoryRepo) GetUser(_ context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// CreateOrder stores a fulfillment record keyed by its auction
func (r *MemoryRepo) CreateOrder(_ context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.AuctionID] = order
	return nil
}

// GetOrderByAuction returns the order created for an auction
func (r *MemoryRepo) GetOrderByAuction(_ context.Context, auctionID string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[auctionID]
	if !ok {
		return model.Order{}, fmt.Errorf("get order for auction %s: %w", auctionID, auctionerrors.ErrOrderNotFound)
	}
	return order, nil
}

// AddValidPayment seeds the static valid-card table
func (r *MemoryRepo) AddValidPayment(_ context.Context, payment model.ValidPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validPayments = append(r.validPayments, payment)
	return nil
}

// FindValidPayment reports whether the exact card tuple exists in the table
func (r *MemoryRepo) FindValidPayment(_ context.Context, payment model.ValidPayment) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.validPayments {
		if v == payment {
			return true, nil
		}
	}
	return false, nil
}

// AddPaymentMethod records a masked verification attempt
func (r *MemoryRepo) AddPaymentMethod(_ context.Context, method model.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods = append(r.methods, method)
	return nil
}
