package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rtodea/hubspot-booking-api/internal/app"
	"github.com/rtodea/hubspot-booking-api/internal/config"
	"github.com/rtodea/hubspot-booking-api/internal/logging"
	"github.com/rtodea/hubspot-booking-api/internal/server"
)

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.HubSpotAPIKey == "" {
		logger.Warn("HUBSPOT_API_KEY is not set; availability and booking requests will fail")
	}

	appInstance := &app.App{
		Logger:  logger,
		HubSpot: app.NewHubSpotClient(cfg.HubSpotBaseURL, cfg.HubSpotAPIKey, cfg.HTTPTimeout(), logger),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(app.ErrorHandler(logger))
	router.Use(gin.Logger())
	router.Use(app.AuthMiddleware(cfg.StaticTokenList(), cfg.JWTSecret))

	router.GET("/availability", appInstance.GetAvailabilityHandler)
	router.POST("/book", appInstance.CreateBookingHandler)
	router.POST("/echo", appInstance.EchoHandler)

	server.Run(logger, router, ":"+cfg.AppPort)
}
