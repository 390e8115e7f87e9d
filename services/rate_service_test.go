package services

import (
	"context"
	"testing"

	"rentalsync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRate(t *testing.T, s *RateService, propertyID uint, lower, upper string, nightly float64, seasonal bool) {
	t.Helper()
	err := s.SetRate(context.Background(), &models.Rate{
		PropertyID: propertyID,
		Lower:      day(lower),
		Upper:      day(upper),
		Nightly:    nightly,
		Seasonal:   seasonal,
	})
	require.NoError(t, err)
}

func ratesOf(t *testing.T, s *RateService, propertyID uint) []models.Rate {
	t.Helper()
	rates, err := s.ListRates(context.Background(), propertyID)
	require.NoError(t, err)
	return rates
}

func TestSetRateSplitsContainer(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())
	seedRate(t, s, 1, "2026-03-10", "2026-03-20", 100, false)

	seedRate(t, s, 1, "2026-03-12", "2026-03-15", 200, false)

	rates := ratesOf(t, s, 1)
	require.Len(t, rates, 3)
	assertDay(t, "2026-03-10", rates[0].Lower)
	assertDay(t, "2026-03-12", rates[0].Upper)
	assert.Equal(t, 100.0, rates[0].Nightly)
	assertDay(t, "2026-03-12", rates[1].Lower)
	assertDay(t, "2026-03-15", rates[1].Upper)
	assert.Equal(t, 200.0, rates[1].Nightly)
	assertDay(t, "2026-03-15", rates[2].Lower)
	assertDay(t, "2026-03-20", rates[2].Upper)
	assert.Equal(t, 100.0, rates[2].Nightly)
}

func TestSetRateShrinksLeftOverlap(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())
	seedRate(t, s, 1, "2026-03-10", "2026-03-20", 100, false)

	// rate mới phủ đầu của rate cũ
	seedRate(t, s, 1, "2026-03-08", "2026-03-12", 200, false)

	rates := ratesOf(t, s, 1)
	require.Len(t, rates, 2)
	assertDay(t, "2026-03-08", rates[0].Lower)
	assertDay(t, "2026-03-12", rates[0].Upper)
	assertDay(t, "2026-03-12", rates[1].Lower)
	assertDay(t, "2026-03-20", rates[1].Upper)
}

func TestSetRateShrinksRightOverlap(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())
	seedRate(t, s, 1, "2026-03-10", "2026-03-20", 100, false)

	seedRate(t, s, 1, "2026-03-18", "2026-03-25", 200, false)

	rates := ratesOf(t, s, 1)
	require.Len(t, rates, 2)
	assertDay(t, "2026-03-10", rates[0].Lower)
	assertDay(t, "2026-03-18", rates[0].Upper)
	assertDay(t, "2026-03-18", rates[1].Lower)
	assertDay(t, "2026-03-25", rates[1].Upper)
}

func TestSetRateDeletesSwallowedRates(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())
	seedRate(t, s, 1, "2026-03-10", "2026-03-14", 100, false)
	seedRate(t, s, 1, "2026-03-16", "2026-03-20", 120, false)

	seedRate(t, s, 1, "2026-03-05", "2026-03-25", 200, false)

	rates := ratesOf(t, s, 1)
	require.Len(t, rates, 1)
	assert.Equal(t, 200.0, rates[0].Nightly)
}

func TestSetRateExactReplace(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())
	seedRate(t, s, 1, "2026-03-10", "2026-03-20", 100, false)

	seedRate(t, s, 1, "2026-03-10", "2026-03-20", 200, false)

	rates := ratesOf(t, s, 1)
	require.Len(t, rates, 1)
	assert.Equal(t, 200.0, rates[0].Nightly)
}

func TestSetRateKeepsSeasonalClassApart(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())
	seedRate(t, s, 1, "2026-03-01", "2026-04-01", 100, true)

	// rate thường chồng hoàn toàn nhưng không đụng lớp seasonal
	seedRate(t, s, 1, "2026-03-01", "2026-04-01", 200, false)

	rates := ratesOf(t, s, 1)
	require.Len(t, rates, 2)
}

func TestSetRateRejectsInvalidTimeFrame(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())

	err := s.SetRate(context.Background(), &models.Rate{
		PropertyID: 1,
		Lower:      day("2026-03-20"),
		Upper:      day("2026-03-10"),
	})
	require.Error(t, err)
}

func TestDeleteRate(t *testing.T) {
	s := NewRateService(newTestDB(t), testLogger())
	seedRate(t, s, 1, "2026-03-10", "2026-03-20", 100, false)
	rates := ratesOf(t, s, 1)
	require.Len(t, rates, 1)

	require.NoError(t, s.DeleteRate(context.Background(), 1, rates[0].ID))
	assert.Empty(t, ratesOf(t, s, 1))

	// xóa lần nữa là not found
	require.Error(t, s.DeleteRate(context.Background(), 1, rates[0].ID))
}
