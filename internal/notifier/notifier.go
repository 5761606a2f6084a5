// Package notifier delivers auction-ended notifications to the winning bidder
// and the seller. Delivery is best effort: callers log failures and never let
// them affect the close itself.
package notifier

import (
	"context"

	"bidwize/utils"
)

// Notifier is the collaborator the closer hands a finished auction to.
type Notifier interface {
	NotifyAuctionEnded(ctx context.Context, winnerEmail, sellerEmail, itemName string, amount float64) error
}

// LogNotifier is the default implementation; it only writes a structured log
// line. Useful for development and tests.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// NotifyAuctionEnded logs the notification instead of delivering it
func (n *LogNotifier) NotifyAuctionEnded(_ context.Context, winnerEmail, sellerEmail, itemName string, amount float64) error {
	utils.Info("auction ended notification", map[string]any{
		"winner_email": winnerEmail,
		"seller_email": sellerEmail,
		"item_name":    itemName,
		"amount":       amount,
	})
	return nil
}
