// Package payment implements the out-of-core payment gate: card details are
// checked against a static table of known-valid cards and a masked record of
// the attempt is kept. The auction engine has no dependency on this package.
package payment

import (
	"context"
	"fmt"
	"strings"

	"bidwize/internal/auctionerrors"
	model "bidwize/internal/models"
	"bidwize/internal/repository"
	"bidwize/utils"
)

// PaymentService verifies card details against the valid-payment table
type PaymentService struct {
	repo repository.PaymentDB
}

// NewPaymentService creates a new PaymentService instance
func NewPaymentService(repo repository.PaymentDB) *PaymentService {
	return &PaymentService{repo: repo}
}

// VerifyAndRecord checks the card tuple against the static table, stores a
// masked PaymentMethod row with the outcome, and returns whether the card was
// valid. An invalid card is reported as ErrPaymentInvalid after the record is
// written, matching the original flow.
func (s *PaymentService) VerifyAndRecord(ctx context.Context, cardNumber, cardHolderName, expiryDate, securityCode string) (bool, error) {
	if cardNumber == "" || cardHolderName == "" || expiryDate == "" || securityCode == "" {
		return false, fmt.Errorf("service: %w - missing card details", auctionerrors.ErrInvalidInput)
	}
	if len(cardNumber) < 4 {
		return false, fmt.Errorf("service: %w - card number too short", auctionerrors.ErrInvalidInput)
	}

	valid, err := s.repo.FindValidPayment(ctx, model.ValidPayment{
		CardNumber:     cardNumber,
		CardHolderName: cardHolderName,
		ExpiryDate:     expiryDate,
		SecurityCode:   securityCode,
	})
	if err != nil {
		return false, fmt.Errorf("service: failed to verify payment: %w", err)
	}

	status := "Completed"
	if !valid {
		status = "Failed"
	}
	method := model.PaymentMethod{
		TransactionID:  utils.GenerateID(),
		LastFourDigits: cardNumber[len(cardNumber)-4:],
		CardBrand:      cardBrand(cardNumber),
		PaymentStatus:  status,
	}
	if err := s.repo.AddPaymentMethod(ctx, method); err != nil {
		return false, fmt.Errorf("service: failed to record payment method: %w", err)
	}

	if !valid {
		return false, fmt.Errorf("service: %w", auctionerrors.ErrPaymentInvalid)
	}
	return true, nil
}

func cardBrand(cardNumber string) string {
	if strings.HasPrefix(cardNumber, "4") {
		return "Visa"
	}
	return "MasterCard"
}
