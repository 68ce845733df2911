package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BookingRequest is the inbound body of POST /book. Slot carries the
// formatted local time exactly as returned by GET /availability.
type BookingRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Slot      string `json:"slot" binding:"required"`
	Duration  string `json:"duration" binding:"required"`
	Timezone  string `json:"timezone" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Country   string `json:"country"`
	Company   string `json:"company"`
}

// FormField is a named extra field forwarded with a booking.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BookingPayload is the outbound HubSpot booking body.
type BookingPayload struct {
	Slug       string      `json:"slug"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	Timezone   string      `json:"timezone"`
	StartTime  int64       `json:"startTime"`
	Duration   int64       `json:"duration"`
	FormFields []FormField `json:"formFields"`
}

// ToPayload remaps the client request into the upstream shape: the slot
// string becomes epoch milliseconds interpreted in the caller's timezone
// and the duration label becomes milliseconds.
func (r BookingRequest) ToPayload() (BookingPayload, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return BookingPayload{}, fmt.Errorf("invalid timezone %q, expected an IANA timezone name", r.Timezone)
	}
	start, err := time.ParseInLocation(slotTimeLayout, r.Slot, loc)
	if err != nil {
		return BookingPayload{}, fmt.Errorf("invalid slot %q, expected format %q", r.Slot, slotTimeLayout)
	}
	durationMS, err := durationLabelToMillis(r.Duration)
	if err != nil {
		return BookingPayload{}, err
	}
	return BookingPayload{
		Slug:      r.Slug,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Timezone:  r.Timezone,
		StartTime: start.UnixMilli(),
		Duration:  durationMS,
		FormFields: []FormField{
			{Name: "country", Value: r.Country},
			{Name: "company", Value: r.Company},
		},
	}, nil
}

func durationLabelToMillis(label string) (int64, error) {
	if !strings.HasSuffix(label, "min") {
		return 0, fmt.Errorf("invalid duration %q, expected format %q", label, "30min")
	}
	n, err := strconv.ParseInt(strings.TrimSuffix(label, "min"), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration %q, expected format %q", label, "30min")
	}
	return n * millisPerMinute, nil
}
