package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/trovemarket/storefront-client/internal/api/handlers"
	"github.com/trovemarket/storefront-client/internal/api/middleware"
	"github.com/trovemarket/storefront-client/internal/cart"
	"github.com/trovemarket/storefront-client/internal/checkout"
	"github.com/trovemarket/storefront-client/internal/config"
	"github.com/trovemarket/storefront-client/internal/gateway"
	"github.com/trovemarket/storefront-client/internal/health"
	"github.com/trovemarket/storefront-client/internal/kvstore"
	"github.com/trovemarket/storefront-client/internal/ordercache"
	"github.com/trovemarket/storefront-client/internal/orders"
	"github.com/trovemarket/storefront-client/internal/saveditems"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Redis setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Addr,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	kv := kvstore.NewInstrumentedStore(kvstore.NewRedisStore(redisClient))

	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Redis connection closed")
		}
	}()

	gatewayClient := gateway.NewClient(cfg.Backend, cfg.Breaker, logger)
	cartStore := cart.NewStore(kv, logger)
	cartHandler := handlers.NewCartHandler(cartStore)
	orderCache := ordercache.NewCache(kv, logger)
	orderRepo := orders.NewFallbackRepository(orders.NewRemoteRepository(gatewayClient), orderCache, logger)
	orderHandler := handlers.NewOrderHandler(orderRepo)
	checkoutService := checkout.NewService(cartStore, orderCache, gatewayClient, logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	savedStore := saveditems.NewStore(kv, gatewayClient, logger)
	savedHandler := handlers.NewSavedItemsHandler(savedStore)

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error building health checks", "error", err.Error())
		os.Exit(1)
	}

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items/{id}", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/v1/checkout", checkoutHandler.Checkout())
	routerMux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders())
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", orderHandler.UpdateStatus())
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", orderHandler.CancelOrder())
	routerMux.HandleFunc("GET /api/v1/saved-items", savedHandler.ListSaved())
	routerMux.HandleFunc("POST /api/v1/saved-items/toggle", savedHandler.Toggle())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", promhttp.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
