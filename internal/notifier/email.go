package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailNotifier sends auction-ended emails through the Resend REST API.
// The winner and the seller each get their own message.
type EmailNotifier struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

// NewEmailNotifier creates an EmailNotifier with the given API key and sender
func NewEmailNotifier(apiKey, from string) *EmailNotifier {
	return &EmailNotifier{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// NotifyAuctionEnded emails the winner and the seller. The first failed send
// aborts and reports the error; the caller treats it as best effort.
func (n *EmailNotifier) NotifyAuctionEnded(ctx context.Context, winnerEmail, sellerEmail, itemName string, amount float64) error {
	winnerMsg := resendEmail{
		From:    n.from,
		To:      []string{winnerEmail},
		Subject: "Congratulations! You won the auction",
		HTML: fmt.Sprintf(
			"<h1>Congratulations!</h1><p>You won the auction for %s.</p><p>Winning amount: $%.2f</p><p>Please proceed to complete your purchase.</p>",
			itemName, amount),
	}
	if err := n.send(ctx, winnerMsg); err != nil {
		return fmt.Errorf("notify winner: %w", err)
	}

	sellerMsg := resendEmail{
		From:    n.from,
		To:      []string{sellerEmail},
		Subject: "Your auction has ended",
		HTML: fmt.Sprintf(
			"<h1>Your auction has ended</h1><p>The auction for %s has ended.</p><p>Final price: $%.2f</p><p>We'll notify you once the buyer completes their purchase.</p>",
			itemName, amount),
	}
	if err := n.send(ctx, sellerMsg); err != nil {
		return fmt.Errorf("notify seller: %w", err)
	}
	return nil
}

func (n *EmailNotifier) send(ctx context.Context, msg resendEmail) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email: unexpected status %d", resp.StatusCode)
	}
	return nil
}
