// Package catalog covers the CRUD collaborators around the auction engine:
// the item catalog and the user directory.
package catalog

import (
	"context"
	"fmt"
	"time"

	"bidwize/internal/auctionerrors"
	model "bidwize/internal/models"
	"bidwize/internal/repository"
	"bidwize/utils"
)

// CatalogService manages items and users
type CatalogService struct {
	items repository.ItemDB
	users repository.UserDB
	now   func() time.Time
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(items repository.ItemDB, users repository.UserDB) *CatalogService {
	return &CatalogService{
		items: items,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateItem validates and stores a new catalog item owned by a seller
func (s *CatalogService) CreateItem(ctx context.Context, sellerID, name, description string, initialPrice float64, imageURL string) (model.Item, error) {
	if sellerID == "" || name == "" {
		return model.Item{}, fmt.Errorf("service: %w - missing sellerID or name", auctionerrors.ErrInvalidInput)
	}
	if initialPrice < 0 {
		return model.Item{}, fmt.Errorf("service: %w - negative initial price", auctionerrors.ErrInvalidInput)
	}

	seller, err := s.users.GetUser(ctx, sellerID)
	if err != nil {
		return model.Item{}, fmt.Errorf("service: failed to look up seller %s: %w", sellerID, err)
	}
	if seller.Role != model.RoleSeller {
		return model.Item{}, fmt.Errorf("service: %w - user must be a seller", auctionerrors.ErrInvalidInput)
	}

	item := model.Item{
		ItemID:       utils.GenerateID(),
		SellerID:     sellerID,
		Name:         name,
		Description:  description,
		InitialPrice: initialPrice,
		ImageURL:     imageURL,
		CreatedAt:    s.now(),
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return model.Item{}, fmt.Errorf("service: failed to create item: %w", err)
	}
	return item, nil
}

// GetItem returns a catalog item by ID
func (s *CatalogService) GetItem(ctx context.Context, itemID string) (model.Item, error) {
	if itemID == "" {
		return model.Item{}, fmt.Errorf("service: %w - empty item ID", auctionerrors.ErrInvalidInput)
	}
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return model.Item{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

// ListItems returns all catalog items
func (s *CatalogService) ListItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	return items, nil
}

// CreateUser registers a user in the directory. No credentials are kept;
// authentication is outside this system.
func (s *CatalogService) CreateUser(ctx context.Context, username, email string, role model.Role, street, city, country, postalCode string) (model.User, error) {
	if username == "" || email == "" {
		return model.User{}, fmt.Errorf("service: %w - missing username or email", auctionerrors.ErrInvalidInput)
	}
	if role != model.RoleBuyer && role != model.RoleSeller {
		return model.User{}, fmt.Errorf("service: %w - role must be buyer or seller", auctionerrors.ErrInvalidInput)
	}

	user := model.User{
		UserID:     utils.GenerateID(),
		Username:   username,
		Email:      email,
		Role:       role,
		Street:     street,
		City:       city,
		Country:    country,
		PostalCode: postalCode,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("service: failed to create user: %w", err)
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *CatalogService) GetUser(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidInput)
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	return user, nil
}
