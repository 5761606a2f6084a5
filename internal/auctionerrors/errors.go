package auctionerrors

import "errors"

// Not-found errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNoBids          = errors.New("no bids found for auction")
	ErrNoWinner        = errors.New("no winner found for auction")
)

// Business logic errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrBidTooLow        = errors.New("bid below minimum")
	ErrAuctionNotActive = errors.New("auction not active")
	ErrPaymentInvalid   = errors.New("payment information is invalid")
)

// Storage errors
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
)
