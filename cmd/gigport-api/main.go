package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/stefan/gigport-api/internal/config"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/handlers"
	authmw "github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/relay"
	"github.com/stefan/gigport-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	listingService := services.NewListingService(db)
	proposalService := services.NewProposalService(db, cfg.AllowMultipleProposals)
	threadService := services.NewThreadService(db)
	awardService := services.NewAwardService(db)
	freelancerService := services.NewFreelancerService(db)

	hub := relay.NewHub()
	go hub.Run()
	defer hub.Stop()

	authHandler := handlers.NewAuthHandler(userService, tokenService, jwtService)
	listingHandler := handlers.NewListingHandler(listingService)
	proposalHandler := handlers.NewProposalHandler(proposalService, listingService, awardService, hub)
	threadHandler := handlers.NewThreadHandler(threadService, hub)
	freelancerHandler := handlers.NewFreelancerHandler(freelancerService)
	eventsHandler := handlers.NewEventsHandler(hub, threadService)
	wsHandler := handlers.NewWebSocketHandler(hub, threadService, jwtService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", authHandler.Me)
	protected.Get("/users/me/listings", listingHandler.ListMine)
	protected.Get("/users/me/assignments", listingHandler.ListAssigned)
	protected.Get("/users/me/proposals", proposalHandler.ListMine)
	protected.Post("/users/me/profile", freelancerHandler.UpsertMe)

	protected.Get("/explore", listingHandler.Explore)

	protected.Get("/listings", listingHandler.Search)
	protected.Post("/listings", listingHandler.Create)
	protected.Get("/listings/:listingId", listingHandler.Get)
	protected.Patch("/listings/:listingId/status", listingHandler.UpdateStatus)
	protected.Post("/listings/:listingId/proposals", proposalHandler.Submit)
	protected.Get("/listings/:listingId/proposals", proposalHandler.ListForListing)

	protected.Get("/proposals/:proposalId", proposalHandler.Get)
	protected.Post("/proposals/:proposalId/award", proposalHandler.Award)
	protected.Post("/proposals/:proposalId/thread", threadHandler.Start)

	protected.Get("/threads", threadHandler.List)
	protected.Get("/threads/:threadId", threadHandler.Get)
	protected.Post("/threads/:threadId/messages", threadHandler.PostMessage)

	protected.Get("/threads/:threadId/events", eventsHandler.Connect)
	protected.Post("/events/:clientId/join/:threadId", eventsHandler.Join)
	protected.Post("/events/:clientId/leave/:threadId", eventsHandler.Leave)

	protected.Get("/freelancers", freelancerHandler.List)
	protected.Get("/freelancers/:freelancerId", freelancerHandler.Get)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	api.Get("/ws", wsHandler.Connect)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
