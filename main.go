package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	auction "bidwize/internal/auctionService"
	catalog "bidwize/internal/catalogService"
	"bidwize/internal/config"
	"bidwize/internal/notifier"
	order "bidwize/internal/orderService"
	payment "bidwize/internal/paymentService"
	"bidwize/internal/repository"
	"bidwize/internal/server"
	"bidwize/internal/sweeper"
	handler "bidwize/services/marketplace/handler"
	"bidwize/utils"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"error": err.Error()})
	}

	notif, err := buildNotifier(cfg)
	if err != nil {
		utils.Fatal("failed to build notifier", map[string]any{"error": err.Error()})
	}

	auctionSvc := auction.NewAuctionService(store, notif)
	catalogSvc := catalog.NewCatalogService(store, store)
	orderSvc := order.NewOrderService(store)
	paymentSvc := payment.NewPaymentService(store)

	sweep := sweeper.New(auctionSvc, cfg.SweepInterval)
	sweep.Start(ctx)

	router := server.SetupRouter(server.Handlers{
		Auction: handler.NewAuctionHandler(auctionSvc),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Order:   handler.NewOrderHandler(orderSvc),
		Payment: handler.NewPaymentHandler(paymentSvc),
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Fatal("server failed", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server shutdown error", map[string]any{"error": err.Error()})
	}
	sweep.Wait()
}

// openStore selects the Postgres store when a DSN is configured, otherwise
// the in-memory store.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.DatabaseDSN == "" {
		utils.Info("using in-memory store", nil)
		return repository.NewMemoryRepo(), nil
	}
	return repository.NewPostgresRepo(ctx, cfg.DatabaseDSN)
}

func buildNotifier(cfg *config.Config) (notifier.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierEmail:
		return notifier.NewEmailNotifier(cfg.ResendAPIKey, cfg.EmailFrom), nil
	case config.NotifierNATS:
		return notifier.NewNATSNotifier(cfg.NATSURL)
	default:
		return notifier.NewLogNotifier(), nil
	}
}
