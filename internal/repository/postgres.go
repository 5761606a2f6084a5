package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bidwize/internal/auctionerrors"
	model "bidwize/internal/models"
	"bidwize/internal/repository/migrations"
)

// PostgresRepo implements Store over PostgreSQL via database/sql and the pgx
// stdlib driver.
type PostgresRepo struct {
	db *sql.DB
}

// NewPostgresRepo opens a connection pool, verifies connectivity and runs the
// embedded goose migrations.
func NewPostgresRepo(ctx context.Context, dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping error: %w: %v", auctionerrors.ErrStorageUnavailable, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	r := &PostgresRepo{db: db}
	if err := r.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return r, nil
}

// Close releases the connection pool
func (r *PostgresRepo) Close() error {
	return r.db.Close()
}

func (r *PostgresRepo) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, r.db, ".")
}

// CreateAuction inserts a new open auction
func (r *PostgresRepo) CreateAuction(ctx context.Context, auction model.Auction) error {
	query := `
		INSERT INTO auctions (id, item_id, seller_id, start_date, end_date, min_bid_increment, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		auction.AuctionID, auction.ItemID, auction.SellerID, auction.StartDate,
		auction.EndDate, auction.MinBidIncrement, auction.IsActive, auction.CreatedAt)
	if err != nil {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, err)
	}
	return nil
}

func scanAuction(row interface{ Scan(...any) error }) (model.Auction, error) {
	var a model.Auction
	var winning sql.NullString
	err := row.Scan(&a.AuctionID, &a.ItemID, &a.SellerID, &a.StartDate, &a.EndDate,
		&a.MinBidIncrement, &a.IsActive, &winning, &a.CreatedAt)
	if err != nil {
		return model.Auction{}, err
	}
	a.WinningBidID = winning.String
	return a, nil
}

const auctionColumns = `id, item_id, seller_id, start_date, end_date, min_bid_increment, is_active, winning_bid_id, created_at`

// GetAuction returns an auction by ID
func (r *PostgresRepo) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, auctionID)
	a, err := scanAuction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return a, nil
}

func (r *PostgresRepo) queryAuctions(ctx context.Context, query string, args ...any) ([]model.Auction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// ListAuctions returns all auctions, optionally only open ones
func (r *PostgresRepo) ListAuctions(ctx context.Context, activeOnly bool) ([]model.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions ORDER BY created_at`
	if activeOnly {
		query = `SELECT ` + auctionColumns + ` FROM auctions WHERE is_active ORDER BY created_at`
	}
	auctions, err := r.queryAuctions(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, nil
}

// ListDueOpenAuctions returns open auctions whose end date is at or before now
func (r *PostgresRepo) ListDueOpenAuctions(ctx context.Context, now time.Time) ([]model.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE is_active AND end_date <= $1`
	auctions, err := r.queryAuctions(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list due auctions: %w", err)
	}
	return auctions, nil
}

// CloseAuction performs the open-to-closed transition as a single conditional
// UPDATE: the winning-bid subselect and the is_active flip are one statement,
// so concurrent closers cannot pick different winners or double-apply the
// transition. A caller that finds the auction already closed gets the stored
// row back with performed=false.
func (r *PostgresRepo) CloseAuction(ctx context.Context, auctionID string) (model.Auction, bool, error) {
	query := `
		UPDATE auctions
		SET is_active = FALSE,
		    winning_bid_id = (
		        SELECT id FROM bids
		        WHERE auction_id = $1
		        ORDER BY amount DESC, created_at ASC
		        LIMIT 1
		    )
		WHERE id = $1 AND is_active
	`
	res, err := r.db.ExecContext(ctx, query, auctionID)
	if err != nil {
		return model.Auction{}, false, fmt.Errorf("close auction %s: %w", auctionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Auction{}, false, fmt.Errorf("close auction %s: rows affected: %w", auctionID, err)
	}

	auction, err := r.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, false, err
	}
	return auction, n == 1, nil
}

// RecordBid inserts a bid only while its auction is still open. The existence
// check is part of the INSERT so a bid can never land after the close commits.
func (r *PostgresRepo) RecordBid(ctx context.Context, bid model.Bid) error {
	query := `
		INSERT INTO bids (id, auction_id, user_id, amount, bidder_name, bidder_email, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (SELECT 1 FROM auctions WHERE id = $2 AND is_active)
	`
	res, err := r.db.ExecContext(ctx, query,
		bid.BidID, bid.AuctionID, bid.UserID, bid.Amount, bid.BidderName, bid.BidderEmail, bid.CreatedAt)
	if err != nil {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record bid for auction %s: rows affected: %w", bid.AuctionID, err)
	}
	if n == 0 {
		if _, err := r.GetAuction(ctx, bid.AuctionID); err != nil {
			return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
		}
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotActive)
	}
	return nil
}

const bidColumns = `id, auction_id, user_id, amount, bidder_name, bidder_email, created_at`

func scanBid(row interface{ Scan(...any) error }) (model.Bid, error) {
	var b model.Bid
	err := row.Scan(&b.BidID, &b.AuctionID, &b.UserID, &b.Amount, &b.BidderName, &b.BidderEmail, &b.CreatedAt)
	return b, err
}

// GetBid returns a single bid by ID
func (r *PostgresRepo) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID)
	b, err := scanBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, auctionerrors.ErrBidNotFound)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, err)
	}
	return b, nil
}

// GetBidsByAuction returns all bids for an auction ordered by amount
// descending, equal amounts oldest first
func (r *PostgresRepo) GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE auction_id = $1 ORDER BY amount DESC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, err)
	}
	defer rows.Close()

	bids := []model.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// GetHighestBid returns the current highest bid for an auction
func (r *PostgresRepo) GetHighestBid(ctx context.Context, auctionID string) (model.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE auction_id = $1 ORDER BY amount DESC, created_at ASC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, auctionID)
	b, err := scanBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, err)
	}
	return b, nil
}

// CreateItem adds an item to the catalog
func (r *PostgresRepo) CreateItem(ctx context.Context, item model.Item) error {
	query := `
		INSERT INTO items (id, seller_id, name, description, initial_price, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ItemID, item.SellerID, item.Name, item.Description, item.InitialPrice, item.ImageURL, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("create item %s: %w", item.ItemID, err)
	}
	return nil
}

const itemColumns = `id, seller_id, name, description, initial_price, image_url, created_at`

func scanItem(row interface{ Scan(...any) error }) (model.Item, error) {
	var i model.Item
	err := row.Scan(&i.ItemID, &i.SellerID, &i.Name, &i.Description, &i.InitialPrice, &i.ImageURL, &i.CreatedAt)
	return i, err
}

// GetItem returns an item by ID
func (r *PostgresRepo) GetItem(ctx context.Context, itemID string) (model.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, itemID)
	i, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, err)
	}
	return i, nil
}

// ListItems returns all catalog items
func (r *PostgresRepo) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// CreateUser adds a user to the directory
func (r *PostgresRepo) CreateUser(ctx context.Context, user model.User) error {
	query := `
		INSERT INTO users (id, username, email, role, street, city, country, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Username, user.Email, user.Role, user.Street, user.City, user.Country, user.PostalCode)
	if err != nil {
		return fmt.Errorf("create user %s: %w", user.UserID, err)
	}
	return nil
}

// GetUser returns a user by ID
func (r *PostgresRepo) GetUser(ctx context.Context, userID string) (model.User, error) {
	query := `SELECT id, username, email, role, street, city, country, postal_code FROM users WHERE id = $1`
	var u model.User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.UserID, &u.Username, &u.Email, &u.Role, &u.Street, &u.City, &u.Country, &u.PostalCode)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return u, nil
}

// CreateOrder stores a fulfillment record
func (r *PostgresRepo) CreateOrder(ctx context.Context, order model.Order) error {
	query := `
		INSERT INTO orders (id, auction_id, item_id, user_id, user_name, street_address, city, country, postal_code, total_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.OrderID, order.AuctionID, order.ItemID, order.UserID, order.UserName,
		order.StreetAddress, order.City, order.Country, order.PostalCode, order.TotalPaid, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order %s: %w", order.OrderID, err)
	}
	return nil
}

// GetOrderByAuction returns the order created for an auction
func (r *PostgresRepo) GetOrderByAuction(ctx context.Context, auctionID string) (model.Order, error) {
	query := `
		SELECT id, auction_id, item_id, user_id, user_name, street_address, city, country, postal_code, total_paid, created_at
		FROM orders WHERE auction_id = $1
	`
	var o model.Order
	err := r.db.QueryRowContext(ctx, query, auctionID).Scan(
		&o.OrderID, &o.AuctionID, &o.ItemID, &o.UserID, &o.UserName,
		&o.StreetAddress, &o.City, &o.Country, &o.PostalCode, &o.TotalPaid, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, fmt.Errorf("get order for auction %s: %w", auctionID, auctionerrors.ErrOrderNotFound)
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("get order for auction %s: %w", auctionID, err)
	}
	return o, nil
}

// AddValidPayment seeds the static valid-card table
func (r *PostgresRepo) AddValidPayment(ctx context.Context, payment model.ValidPayment) error {
	query := `
		INSERT INTO valid_payments (card_number, card_holder_name, expiry_date, security_code)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		payment.CardNumber, payment.CardHolderName, payment.ExpiryDate, payment.SecurityCode)
	if err != nil {
		return fmt.Errorf("add valid payment: %w", err)
	}
	return nil
}

// FindValidPayment reports whether the exact card tuple exists in the table
func (r *PostgresRepo) FindValidPayment(ctx context.Context, payment model.ValidPayment) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM valid_payments
			WHERE card_number = $1 AND card_holder_name = $2 AND expiry_date = $3 AND security_code = $4
		)
	`
	var found bool
	err := r.db.QueryRowContext(ctx, query,
		payment.CardNumber, payment.CardHolderName, payment.ExpiryDate, payment.SecurityCode).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("find valid payment: %w", err)
	}
	return found, nil
}

// AddPaymentMethod records a masked verification attempt
func (r *PostgresRepo) AddPaymentMethod(ctx context.Context, method model.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (transaction_id, last_four_digits, card_brand, payment_status)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		method.TransactionID, method.LastFourDigits, method.CardBrand, method.PaymentStatus)
	if err != nil {
		return fmt.Errorf("add payment method: %w", err)
	}
	return nil
}
