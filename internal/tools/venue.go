package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RichardoC/venue-assistant/internal/db"
	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	CheckDateAvailabilityName = "check_date_availability"
	CalculateBookingCostName  = "calculate_booking_cost"

	BaseCostPerGuest = 150.0
)

// Multipliers per wedding type; unlisted types use DefaultMultiplier.
var weddingTypeMultipliers = map[string]float64{
	"hindu":     1.2,
	"muslim":    1.1,
	"christian": 1.0,
}

const DefaultMultiplier = 1.0

// DateFinder is the part of the store the availability check needs.
type DateFinder interface {
	FindAvailableDate(ctx context.Context, day time.Time) (*models.AvailableDate, error)
}

type AvailabilityResult struct {
	IsAvailable bool   `json:"is_available"`
	Message     string `json:"message"`
}

type BookingEstimate struct {
	GuestCount    float64 `json:"guest_count"`
	WeddingType   string  `json:"wedding_type"`
	EstimatedCost string  `json:"estimated_cost"`
	Message       string  `json:"message"`
}

var checkDateAvailabilityTool = llms.Tool{
	Type: "function",
	Function: &llms.FunctionDefinition{
		Name:        CheckDateAvailabilityName,
		Description: "Check if a specific date is available for a wedding booking. The date must be in YYYY-MM-DD format.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"date": map[string]any{
					"type":        "string",
					"description": "The date to check for availability, e.g., 2025-12-25",
				},
			},
			"required": []string{"date"},
		},
	},
}

var calculateBookingCostTool = llms.Tool{
	Type: "function",
	Function: &llms.FunctionDefinition{
		Name:        CalculateBookingCostName,
		Description: "Calculates the estimated cost of a wedding booking.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"guest_count": map[string]any{
					"type":        "number",
					"description": "The total number of guests attending the wedding.",
				},
				"wedding_type": map[string]any{
					"type":        "string",
					"enum":        []string{"Hindu", "Muslim", "Christian", "Other"},
					"description": "The type of wedding ceremony.",
				},
			},
			"required": []string{"guest_count", "wedding_type"},
		},
	},
}

// NewVenueRegistry returns a registry holding the date-availability check and
// the booking-cost estimate.
func NewVenueRegistry(finder DateFinder, logger *zap.Logger) *Registry {
	r := NewRegistry()

	r.MustRegister(checkDateAvailabilityTool, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var in struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return errorPayload("Invalid date format provided."), nil
		}
		return CheckDateAvailability(ctx, finder, logger, in.Date), nil
	})

	r.MustRegister(calculateBookingCostTool, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var in struct {
			GuestCount  float64 `json:"guest_count"`
			WeddingType string  `json:"wedding_type"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid booking cost arguments: %w", err)
		}
		return json.Marshal(CalculateBookingCost(in.GuestCount, in.WeddingType))
	})

	return r
}

// CheckDateAvailability reports whether date is marked available. Bad input
// and store failures are returned as an error payload.
func CheckDateAvailability(ctx context.Context, finder DateFinder, logger *zap.Logger, date string) json.RawMessage {
	day, err := models.ParseDay(date)
	if err != nil {
		return errorPayload("Invalid date format provided.")
	}

	result := AvailabilityResult{
		IsAvailable: true,
		Message:     fmt.Sprintf("Great news! The date %s is available for booking.", date),
	}
	_, err = finder.FindAvailableDate(ctx, day)
	switch {
	case errors.Is(err, db.ErrNotFound):
		result = AvailabilityResult{
			IsAvailable: false,
			Message:     fmt.Sprintf("Unfortunately, the date %s is not available. Please try another date.", date),
		}
	case err != nil:
		logger.Error("Failed to check date availability",
			zap.Error(err),
			zap.String("date", date))
		return errorPayload("Failed to check date availability.")
	}

	out, _ := json.Marshal(result)
	return out
}

// CalculateBookingCost estimates a booking as guests x base rate x the wedding
// type multiplier. It has no failure mode.
func CalculateBookingCost(guestCount float64, weddingType string) BookingEstimate {
	multiplier, ok := weddingTypeMultipliers[strings.ToLower(strings.TrimSpace(weddingType))]
	if !ok {
		multiplier = DefaultMultiplier
	}

	cost := fmt.Sprintf("$%.2f", guestCount*BaseCostPerGuest*multiplier)
	return BookingEstimate{
		GuestCount:    guestCount,
		WeddingType:   weddingType,
		EstimatedCost: cost,
		Message: fmt.Sprintf("The estimated cost for a %s wedding with %s guests is %s.",
			weddingType, strconv.FormatFloat(guestCount, 'f', -1, 64), cost),
	}
}
