package repository

import (
	"context"
	"sort"
	"time"

	model "bidwize/internal/models"
)

// AuctionDB defines auction and bid storage for the lifecycle engine.
//
// CloseAuction is the only operation that flips an auction from open to
// closed. It must be atomic: winner selection and the flag transition happen
// in one serialized step, and at most one caller observes performed=true.
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction model.Auction) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctions(ctx context.Context, activeOnly bool) ([]model.Auction, error)
	ListDueOpenAuctions(ctx context.Context, now time.Time) ([]model.Auction, error)
	CloseAuction(ctx context.Context, auctionID string) (auction model.Auction, performed bool, err error)

	RecordBid(ctx context.Context, bid model.Bid) error
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetHighestBid(ctx context.Context, auctionID string) (model.Bid, error)
}

// ItemDB defines item catalog storage
type ItemDB interface {
	CreateItem(ctx context.Context, item model.Item) error
	GetItem(ctx context.Context, itemID string) (model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
}

// UserDB is the user directory the core reads; the core never mutates users
type UserDB interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// OrderDB stores fulfillment records created downstream of a close
type OrderDB interface {
	CreateOrder(ctx context.Context, order model.Order) error
	GetOrderByAuction(ctx context.Context, auctionID string) (model.Order, error)
}

// PaymentDB stores the static valid-card table and masked verification records
type PaymentDB interface {
	AddValidPayment(ctx context.Context, payment model.ValidPayment) error
	FindValidPayment(ctx context.Context, payment model.ValidPayment) (bool, error)
	AddPaymentMethod(ctx context.Context, method model.PaymentMethod) error
}

// Store is the full storage surface of the marketplace
type Store interface {
	AuctionDB
	ItemDB
	UserDB
	OrderDB
	PaymentDB
}

// sortBids orders bids by amount descending, ties earliest-created first.
// The winner is therefore always bids[0].
func sortBids(bids []model.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].Amount != bids[j].Amount {
			return bids[i].Amount > bids[j].Amount
		}
		return bids[i].CreatedAt.Before(bids[j].CreatedAt)
	})
}
