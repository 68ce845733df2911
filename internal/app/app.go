package app

import "go.uber.org/zap"

// App bundles the dependencies shared by all handlers.
type App struct {
	Logger  *zap.Logger
	HubSpot *HubSpotClient
}
