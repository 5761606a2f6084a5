package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const auctionEndedSubject = "auction.ended"

// AuctionEndedEvent is the JSON payload published for downstream consumers
// (mailers, analytics, archival workers).
type AuctionEndedEvent struct {
	WinnerEmail string    `json:"winner_email"`
	SellerEmail string    `json:"seller_email"`
	ItemName    string    `json:"item_name"`
	Amount      float64   `json:"amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NATSNotifier publishes auction-ended events to a NATS subject instead of
// delivering notifications itself.
type NATSNotifier struct {
	nc *nats.Conn
}

// NewNATSNotifier connects to the NATS server at url
func NewNATSNotifier(url string) (*NATSNotifier, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSNotifier{nc: nc}, nil
}

// NotifyAuctionEnded publishes an AuctionEndedEvent
func (n *NATSNotifier) NotifyAuctionEnded(_ context.Context, winnerEmail, sellerEmail, itemName string, amount float64) error {
	event := AuctionEndedEvent{
		WinnerEmail: winnerEmail,
		SellerEmail: sellerEmail,
		ItemName:    itemName,
		Amount:      amount,
		OccurredAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal auction ended event: %w", err)
	}
	if err := n.nc.Publish(auctionEndedSubject, payload); err != nil {
		return fmt.Errorf("publish auction ended event: %w", err)
	}
	return nil
}

// Close drains the connection
func (n *NATSNotifier) Close() {
	n.nc.Close()
}
