package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"chemmarket/internal/auth"
	"chemmarket/internal/config"
	"chemmarket/internal/database"
	handler "chemmarket/internal/handler/http"
	"chemmarket/internal/logger"
	"chemmarket/internal/mail"
	middleware_http "chemmarket/internal/middleware/http"
	"chemmarket/internal/repository"
	"chemmarket/internal/service"
	"chemmarket/internal/telemetry"
	"chemmarket/internal/upload"
)

func main() {
	globalCtx := context.Background()
	log := logger.Instance()
	cfg := config.Instance()

	// Initialize telemetry (OpenTelemetry + Pyroscope)
	shutdown, _ := telemetry.Instance(globalCtx)
	defer shutdown()

	// Connect to MongoDB
	db, err := database.Instance(globalCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	productRepo := repository.NewProductRepository(db.Database)
	userRepo := repository.NewUserRepository(db.Database)
	orderRepo := repository.NewOrderRepository(db.Database)
	requestRepo := repository.NewRequestRepository(db.Database)
	ratingRepo := repository.NewRatingRepository(db.Database)
	settingsRepo := repository.NewSettingsRepository(db.Database)
	verificationRepo := repository.NewVerificationRepository(db.Database)

	if err := settingsRepo.EnsureDefault(globalCtx); err != nil {
		log.Error("Failed to seed settings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := verificationRepo.EnsureIndexes(globalCtx); err != nil {
		log.Error("Failed to ensure indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	uploader, err := upload.NewUploader(globalCtx, cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Error("Failed to initialize S3 uploader", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	mailer := mail.NewMailer(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromEmail)

	// Services
	catalogService := service.NewCatalogService(productRepo, userRepo, settingsRepo)
	productService := service.NewProductService(productRepo, userRepo, ratingRepo, settingsRepo)
	authService := service.NewAuthService(userRepo, verificationRepo, tokens, mailer, cfg.PublicBaseURL)
	sellerService := service.NewSellerService(productRepo, orderRepo, requestRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, settingsRepo)
	requestService := service.NewRequestService(requestRepo)
	ratingService := service.NewRatingService(ratingRepo, productRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	adminService := service.NewAdminService(userRepo, productRepo, orderRepo, requestRepo)
	healthService := service.NewHealthService(db.Client)

	// Handlers
	catalogHandler := handler.NewCatalogHandler(catalogService)
	productHandler := handler.NewProductHandler(productService)
	authHandler := handler.NewAuthHandler(authService)
	sellerHandler := handler.NewSellerHandler(sellerService, uploader)
	orderHandler := handler.NewOrderHandler(orderService)
	requestHandler := handler.NewRequestHandler(requestService, uploader)
	ratingHandler := handler.NewRatingHandler(ratingService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	adminHandler := handler.NewAdminHandler(adminService)
	healthHandler := handler.NewHealthHandler(healthService)

	requireAuth := middleware_http.RequireAuth(authService)
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return requireAuth(middleware_http.RequireAdmin(h)) }

	// Routing
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"data": cfg.AppName}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("GET /healthz", healthHandler.Check)

	// Public catalog
	mux.HandleFunc("GET /products", catalogHandler.Browse)
	mux.HandleFunc("GET /products/featured", productHandler.Featured)
	mux.HandleFunc("GET /sellers/{id}/products", productHandler.BySeller)
	mux.HandleFunc("GET /sellers/{id}/contact", productHandler.Contact)
	mux.HandleFunc("GET /products/{id}", productHandler.Detail)
	mux.HandleFunc("POST /products/{id}/ratings", ratingHandler.Create)
	mux.HandleFunc("GET /search/{term}", productHandler.Search)
	mux.HandleFunc("GET /settings/rate", settingsHandler.Rate)

	// Public orders and sourcing requests
	mux.HandleFunc("POST /orders", orderHandler.Create)
	mux.HandleFunc("POST /requests", requestHandler.Create)
	mux.HandleFunc("GET /requests", requestHandler.ListPublic)

	// Auth
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/verify-otp", authHandler.VerifyOTP)
	mux.HandleFunc("POST /auth/resend-otp", authHandler.ResendOTP)
	mux.HandleFunc("POST /auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", authHandler.ResetPassword)
	mux.Handle("POST /auth/logout", authed(authHandler.Logout))
	mux.Handle("GET /auth/me", authed(authHandler.Me))
	mux.Handle("PUT /auth/login-verification", authed(authHandler.SetLoginVerification))

	// Seller portal
	mux.Handle("POST /seller/products", authed(sellerHandler.CreateProduct))
	mux.Handle("GET /seller/products", authed(sellerHandler.ListProducts))
	mux.Handle("GET /seller/products/{id}", authed(sellerHandler.GetProduct))
	mux.Handle("PUT /seller/products/{id}", authed(sellerHandler.UpdateProduct))
	mux.Handle("PATCH /seller/products/{id}/status", authed(sellerHandler.ToggleProductStatus))
	mux.Handle("DELETE /seller/products/{id}", authed(sellerHandler.DeleteProduct))
	mux.Handle("GET /seller/orders", authed(sellerHandler.ListOrders))
	mux.Handle("PATCH /seller/orders/{id}/status", authed(sellerHandler.UpdateOrderStatus))
	mux.Handle("GET /seller/requests", authed(sellerHandler.ListRequests))
	mux.Handle("PATCH /seller/requests/{id}/status", authed(sellerHandler.UpdateRequestStatus))
	mux.Handle("GET /seller/analytics", authed(sellerHandler.Analytics))
	mux.Handle("GET /seller/verification", authed(sellerHandler.VerificationStatus))

	// Admin
	mux.Handle("GET /admin/users", admin(adminHandler.ListUsers))
	mux.Handle("GET /admin/users/{id}", admin(adminHandler.GetUser))
	mux.Handle("PATCH /admin/users/{id}/active", admin(adminHandler.SetUserActive))
	mux.Handle("PATCH /admin/users/{id}/verify", admin(adminHandler.SetUserVerified))
	mux.Handle("DELETE /admin/users/{id}", admin(adminHandler.DeleteUser))
	mux.Handle("GET /admin/products", admin(adminHandler.ListProducts))
	mux.Handle("PATCH /admin/products/{id}/verify", admin(adminHandler.SetProductVerified))
	mux.Handle("PATCH /admin/products/{id}/featured", admin(adminHandler.SetProductFeatured))
	mux.Handle("PATCH /admin/products/{id}/visibility", admin(adminHandler.SetProductVisible))
	mux.Handle("PATCH /admin/products/{id}/status", admin(adminHandler.SetProductStatus))
	mux.Handle("DELETE /admin/products/{id}", admin(adminHandler.DeleteProduct))
	mux.Handle("GET /admin/requests", admin(adminHandler.ListRequests))
	mux.Handle("GET /admin/requests/{id}", admin(adminHandler.GetRequest))
	mux.Handle("PATCH /admin/requests/{id}/verify", admin(adminHandler.SetRequestVerified))
	mux.Handle("PATCH /admin/requests/{id}/assign", admin(adminHandler.AssignRequest))
	mux.Handle("DELETE /admin/requests/{id}", admin(adminHandler.DeleteRequest))
	mux.Handle("GET /admin/stats", admin(adminHandler.Stats))
	mux.Handle("PUT /admin/settings/rate", admin(settingsHandler.UpdateRate))

	// HTTP server
	wrappedMux := middleware_http.TraceMiddleware(globalCtx)(mux)
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      wrappedMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("HTTP server running", slog.String("addr", server.Addr))

	if err := server.ListenAndServe(); err != nil {
		log.Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
