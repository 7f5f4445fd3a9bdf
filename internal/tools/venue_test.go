package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RichardoC/venue-assistant/internal/db"
	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeFinder struct {
	days map[string]bool
	err  error
}

func (f *fakeFinder) FindAvailableDate(ctx context.Context, day time.Time) (*models.AvailableDate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.days[day.Format(models.DateLayout)] {
		return &models.AvailableDate{ID: 1, Date: day}, nil
	}
	return nil, db.ErrNotFound
}

func TestCheckDateAvailability(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	stocked := &fakeFinder{days: map[string]bool{"2025-10-28": true}}
	out := CheckDateAvailability(ctx, stocked, logger, "2025-10-28")
	var res AvailabilityResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.True(t, res.IsAvailable)
	assert.Equal(t, "Great news! The date 2025-10-28 is available for booking.", res.Message)

	empty := &fakeFinder{}
	out = CheckDateAvailability(ctx, empty, logger, "2025-10-28")
	require.NoError(t, json.Unmarshal(out, &res))
	assert.False(t, res.IsAvailable)
	assert.Equal(t, "Unfortunately, the date 2025-10-28 is not available. Please try another date.", res.Message)
}

func TestCheckDateAvailabilityInvalidDate(t *testing.T) {
	out := CheckDateAvailability(context.Background(), &fakeFinder{}, zaptest.NewLogger(t), "next blue moon")
	assert.JSONEq(t, `{"error":"Invalid date format provided."}`, string(out))
}

func TestCheckDateAvailabilityStoreFailure(t *testing.T) {
	failing := &fakeFinder{err: errors.New("database is locked")}
	out := CheckDateAvailability(context.Background(), failing, zaptest.NewLogger(t), "2025-10-28")
	assert.JSONEq(t, `{"error":"Failed to check date availability."}`, string(out))
}

func TestCheckDateAvailabilityAgainstDatabase(t *testing.T) {
	ctx := context.Background()
	database, err := db.New(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer database.Close()

	out := CheckDateAvailability(ctx, database, zaptest.NewLogger(t), "2025-10-28")
	var res AvailabilityResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.False(t, res.IsAvailable)

	day, err := models.ParseDay("2025-10-28")
	require.NoError(t, err)
	_, err = database.CreateAvailableDate(ctx, day)
	require.NoError(t, err)

	out = CheckDateAvailability(ctx, database, zaptest.NewLogger(t), "2025-10-28")
	require.NoError(t, json.Unmarshal(out, &res))
	assert.True(t, res.IsAvailable)
}

func TestCalculateBookingCost(t *testing.T) {
	cases := []struct {
		guests float64
		kind   string
		want   string
	}{
		{100, "Hindu", "$18000.00"},
		{100, "hindu", "$18000.00"},
		{100, "Muslim", "$16500.00"},
		{100, "Christian", "$15000.00"},
		{50, "Other", "$7500.00"},
		{50, "Buddhist", "$7500.00"},
		{0, "Hindu", "$0.00"},
	}
	for _, tc := range cases {
		got := CalculateBookingCost(tc.guests, tc.kind)
		assert.Equal(t, tc.want, got.EstimatedCost, "%v %s", tc.guests, tc.kind)
		assert.Equal(t, tc.kind, got.WeddingType)
		assert.Equal(t, tc.guests, got.GuestCount)
	}

	got := CalculateBookingCost(100, "Hindu")
	assert.Equal(t, "The estimated cost for a Hindu wedding with 100 guests is $18000.00.", got.Message)
}

func TestVenueRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	r := NewVenueRegistry(&fakeFinder{days: map[string]bool{"2025-12-25": true}}, zaptest.NewLogger(t))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, CheckDateAvailabilityName, defs[0].Function.Name)
	assert.Equal(t, CalculateBookingCostName, defs[1].Function.Name)

	res := r.Dispatch(ctx, CheckDateAvailabilityName, `{"date":"2025-12-25"}`)
	require.True(t, res.OK)
	assert.JSONEq(t, `{"is_available":true,"message":"Great news! The date 2025-12-25 is available for booking."}`, res.Content)

	res = r.Dispatch(ctx, CheckDateAvailabilityName, `{"date":"not a date"}`)
	require.True(t, res.OK)
	assert.JSONEq(t, `{"error":"Invalid date format provided."}`, res.Content)

	res = r.Dispatch(ctx, CalculateBookingCostName, `{"guest_count":100,"wedding_type":"Hindu"}`)
	require.True(t, res.OK)
	assert.JSONEq(t, `{
		"guest_count": 100,
		"wedding_type": "Hindu",
		"estimated_cost": "$18000.00",
		"message": "The estimated cost for a Hindu wedding with 100 guests is $18000.00."
	}`, res.Content)

	res = r.Dispatch(ctx, CalculateBookingCostName, `{"guest_count":"many","wedding_type":"Hindu"}`)
	assert.False(t, res.OK)
	assert.Contains(t, res.Content, "invalid booking cost arguments")
}
