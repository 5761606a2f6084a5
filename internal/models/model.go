package models

import "time"

// Role of a marketplace user.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// User represents a participant in the marketplace
type User struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Item represents a listed good that auctions can reference
type Item struct {
	ItemID       string    `json:"item_id"`
	SellerID     string    `json:"seller_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	InitialPrice float64   `json:"initial_price"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Auction is the sole owner of the open/closed lifecycle. WinningBidID is a
// plain back-reference to one of the auction's own bids, set exactly once
// when the auction closes with at least one bid.
type Auction struct {
	AuctionID       string    `json:"auction_id"`
	ItemID          string    `json:"item_id"`
	SellerID        string    `json:"seller_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MinBidIncrement float64   `json:"min_bid_increment"`
	IsActive        bool      `json:"is_active"`
	WinningBidID    string    `json:"winning_bid_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Bid represents a user's bid on an auction. Immutable after creation.
type Bid struct {
	BidID       string    `json:"bid_id"`
	AuctionID   string    `json:"auction_id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	BidderName  string    `json:"bidder_name"`
	BidderEmail string    `json:"bidder_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// WinnerResult is the computed outcome of closing an auction that had bids.
type WinnerResult struct {
	AuctionID     string  `json:"auction_id"`
	ItemID        string  `json:"item_id"`
	WinningBidID  string  `json:"winning_bid_id"`
	WinningAmount float64 `json:"winning_amount"`
	WinnerName    string  `json:"winner_name"`
	WinnerEmail   string  `json:"winner_email"`
}

// AuctionView is the consistent point-in-time read projection of an auction.
type AuctionView struct {
	Auction      Auction       `json:"auction"`
	Item         Item          `json:"item"`
	HasEnded     bool          `json:"has_ended"`
	CurrentPrice float64       `json:"current_price"`
	Bids         []Bid         `json:"bids"`
	Winner       *WinnerResult `json:"winner,omitempty"`
}

// Order is the fulfillment record created for an auction winner
type Order struct {
	OrderID       string    `json:"order_id"`
	AuctionID     string    `json:"auction_id"`
	ItemID        string    `json:"item_id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	PostalCode    string    `json:"postal_code"`
	TotalPaid     float64   `json:"total_paid"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentMethod is the masked record kept after a card verification attempt
type PaymentMethod struct {
	TransactionID  string `json:"transaction_id"`
	LastFourDigits string `json:"last_four_digits"`
	CardBrand      string `json:"card_brand"`
	PaymentStatus  string `json:"payment_status"`
}

// ValidPayment is a row in the static table the verification gate checks against
type ValidPayment struct {
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	ExpiryDate     string `json:"expiry_date"`
	SecurityCode   string `json:"security_code"`
}
