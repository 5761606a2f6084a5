package server

import (
	handler "bidwize/services/marketplace/handler"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the handler set the router wires up
type Handlers struct {
	Auction *handler.AuctionHandler
	Catalog *handler.CatalogHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctions := router.Group("/auctions")
	{
		auctions.POST("", h.Auction.CreateAuctionHandler)
		auctions.GET("", h.Auction.ListAuctionsHandler)
		auctions.POST("/process-ended", h.Auction.ProcessEndedAuctionsHandler)
		auctions.GET("/:auction_id", h.Auction.GetAuctionHandler)
		auctions.GET("/:auction_id/status", h.Auction.GetAuctionStatusHandler)
		auctions.POST("/:auction_id/end", h.Auction.EndAuctionHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", h.Auction.PlaceBidHandler)
		bids.GET("", h.Auction.ListBidsHandler)
		bids.GET("/:bid_id", h.Auction.GetBidHandler)
	}

	items := router.Group("/items")
	{
		items.POST("", h.Catalog.CreateItemHandler)
		items.GET("", h.Catalog.ListItemsHandler)
		items.GET("/:item_id", h.Catalog.GetItemHandler)
	}

	users := router.Group("/users")
	{
		users.POST("", h.Catalog.CreateUserHandler)
		users.GET("/:user_id", h.Catalog.GetUserHandler)
	}

	orders := router.Group("/orders")
	{
		orders.POST("/auction/:auction_id", h.Order.CreateOrderHandler)
		orders.GET("/auction/:auction_id", h.Order.GetOrderHandler)
	}

	payments := router.Group("/payments")
	{
		payments.POST("/add-payment", h.Payment.AddPaymentHandler)
	}

	return router
}
