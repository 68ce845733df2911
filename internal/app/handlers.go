package app

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultTimezone = "America/Mexico_City"

// GET /availability?slug=...&timezone=...&apply_business_hours_filter=...
func (a *App) GetAvailabilityHandler(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug required"})
		return
	}
	timezone := c.DefaultQuery("timezone", defaultTimezone)
	applyFilter, _ := strconv.ParseBool(c.DefaultQuery("apply_business_hours_filter", "false"))

	// Validate the timezone before going upstream.
	if _, err := time.LoadLocation(timezone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid timezone provided: %q. Please use a valid IANA timezone name.", timezone),
		})
		return
	}

	doc, err := a.HubSpot.FetchAvailability(c.Request.Context(), slug, timezone)
	if err != nil {
		a.respondError(c, slug, err)
		return
	}

	transformed, err := a.TransformAvailability(doc, timezone, TransformOptions{
		ApplyBusinessHoursFilter: applyFilter,
		Hours:                    DefaultBusinessHours(),
	})
	if err != nil {
		a.respondError(c, slug, err)
		return
	}

	c.JSON(http.StatusOK, transformed)
}

// POST /book
func (a *App) CreateBookingHandler(c *gin.Context) {
	var req BookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := req.ToPayload()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmation, err := a.HubSpot.SubmitBooking(c.Request.Context(), payload)
	if err != nil {
		a.respondError(c, req.Slug, err)
		return
	}

	a.Logger.Info("booking forwarded",
		zap.String("slug", req.Slug), zap.Int64("start_time", payload.StartTime))
	c.JSON(http.StatusOK, confirmation)
}

// POST /echo
// Debug passthrough: returns the received JSON body unchanged.
func (a *App) EchoHandler(c *gin.Context) {
	var body map[string]any
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, body)
}
