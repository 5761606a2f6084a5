package helpers

import "time"

// Request/Response DTOs

type CreateAuctionRequest struct {
	ItemID          string    `json:"item_id" binding:"required"`
	SellerID        string    `json:"seller_id" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	MinBidIncrement float64   `json:"min_bid_increment" binding:"required,gt=0"`
}

type PlaceBidRequest struct {
	AuctionID   string  `json:"auction_id" binding:"required"`
	UserID      string  `json:"user_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	BidderName  string  `json:"bidder_name" binding:"required"`
	BidderEmail string  `json:"bidder_email" binding:"required,email"`
}

type BidResponse struct {
	BidID       string  `json:"bid_id"`
	AuctionID   string  `json:"auction_id"`
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount"`
	BidderName  string  `json:"bidder_name"`
	BidderEmail string  `json:"bidder_email"`
	CreatedAt   string  `json:"created_at"`
}

type CreateItemRequest struct {
	SellerID     string  `json:"seller_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	InitialPrice float64 `json:"initial_price" binding:"gte=0"`
	ImageURL     string  `json:"image_url"`
}

type CreateUserRequest struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"required,oneof=buyer seller"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type CreateOrderRequest struct {
	TotalPaid float64 `json:"total_paid" binding:"required,gt=0"`
}

type PaymentRequest struct {
	CardNumber     string `json:"card_number" binding:"required"`
	CardHolderName string `json:"card_holder_name" binding:"required"`
	ExpiryDate     string `json:"expiry_date" binding:"required"`
	SecurityCode   string `json:"security_code" binding:"required"`
}
