package services

import (
	"testing"
	"time"

	"rentalsync/constants"
	"rentalsync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestQuoteStayNightlyMergesSamePriceNights(t *testing.T) {
	p := &models.Property{
		PricingSettings: &models.PricingSettings{Nightly: 100},
	}

	// thứ hai -> thứ sáu: 4 đêm trong tuần, cùng giá
	lines, err := QuoteStay(p, day("2026-03-02"), day("2026-03-06"))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Nightly rate", lines[0].Name)
	assert.Equal(t, 4, lines[0].Nights)
	assert.Equal(t, 100.0, lines[0].Nightly)
	assert.Equal(t, 400.0, lines[0].Amount)
}

func TestQuoteStayWeekendPrice(t *testing.T) {
	p := &models.Property{
		PricingSettings: &models.PricingSettings{Nightly: 100, Weekend: 150},
	}

	// thứ năm -> chủ nhật: đêm thứ năm giá thường, đêm thứ sáu + thứ bảy giá weekend
	lines, err := QuoteStay(p, day("2026-03-05"), day("2026-03-08"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Nights)
	assert.Equal(t, 100.0, lines[0].Amount)
	assert.Equal(t, 2, lines[1].Nights)
	assert.Equal(t, 150.0, lines[1].Nightly)
	assert.Equal(t, 300.0, lines[1].Amount)
}

func TestQuoteStayPrefersWeeklyBlock(t *testing.T) {
	p := &models.Property{
		PricingSettings: &models.PricingSettings{Nightly: 100, Weekly: 560},
	}

	// 8 đêm: block tuần 560 (80/đêm) rẻ hơn 7 đêm lẻ, đêm còn lại giá thường
	lines, err := QuoteStay(p, day("2026-03-02"), day("2026-03-10"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Weekly rate", lines[0].Name)
	assert.Equal(t, 7, lines[0].Nights)
	assert.Equal(t, 560.0, lines[0].Amount)
	assert.Equal(t, 1, lines[1].Nights)
	assert.Equal(t, 100.0, lines[1].Amount)
}

func TestQuoteStayPrefersMonthlyBlock(t *testing.T) {
	p := &models.Property{
		PricingSettings: &models.PricingSettings{Nightly: 100, Monthly: 1500},
	}

	lines, err := QuoteStay(p, day("2026-03-02"), day("2026-04-01"))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Monthly rate", lines[0].Name)
	assert.Equal(t, 30, lines[0].Nights)
	assert.Equal(t, 1500.0, lines[0].Amount)
}

func TestQuoteStayUncoveredDates(t *testing.T) {
	p := &models.Property{
		Rates: []models.Rate{{
			Lower: day("2026-03-01"), Upper: day("2026-03-05"), Nightly: 100,
		}},
	}

	_, err := QuoteStay(p, day("2026-03-03"), day("2026-03-08"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2026-03-05")
}

func TestResolveDayRateCustomBeatsSeasonal(t *testing.T) {
	p := &models.Property{
		PricingSettings: &models.PricingSettings{Nightly: 100},
		Rates: []models.Rate{
			{Lower: day("2026-06-01"), Upper: day("2026-09-01"), Nightly: 200, Seasonal: true},
			{Lower: day("2026-07-01"), Upper: day("2026-07-10"), Nightly: 300},
		},
	}

	rate := resolveDayRate(p, day("2026-07-05"))
	require.NotNil(t, rate)
	assert.Equal(t, "Custom rate", rate.Name)
	assert.Equal(t, 300.0, rate.Nightly)

	rate = resolveDayRate(p, day("2026-06-05"))
	require.NotNil(t, rate)
	assert.Equal(t, "Seasonal rate", rate.Name)

	rate = resolveDayRate(p, day("2026-10-05"))
	require.NotNil(t, rate)
	assert.Equal(t, "Nightly rate", rate.Name)
}

func TestFeeAmountFamilies(t *testing.T) {
	base, nights, guests := 1000.0, 5, 2
	plainFees, taxFees := 100.0, 50.0

	cases := []struct {
		method string
		value  float64
		want   float64
	}{
		{constants.CalcPerStay, 30, 30},
		{constants.CalcDaily, 10, 50},
		{constants.CalcPerPersonPerDay, 5, 50},
		{constants.CalcPerPersonPerStay, 20, 40},
		{constants.CalcPerStayPercent, 10, 115},
		{constants.CalcPerStayOnlyRatesPercent, 10, 100},
		{constants.CalcPerStayNoTaxesPercent, 10, 110},
	}
	for _, tc := range cases {
		fee := &models.AdditionalFee{Value: tc.value, CalculationMethod: tc.method}
		got := FeeAmount(fee, base, nights, guests, plainFees, taxFees)
		assert.Equal(t, tc.want, got, tc.method)
	}
}

func TestReservationTotalClampsAtZero(t *testing.T) {
	r := &models.Reservation{
		Rates:     []models.ReservationRate{{Amount: 100}},
		Discounts: []models.ReservationDiscount{{Amount: 300}},
	}
	assert.Equal(t, 0.0, ReservationTotal(r))
}

func TestReservationTotal(t *testing.T) {
	r := &models.Reservation{
		Rates:     []models.ReservationRate{{Amount: 500}, {Amount: 100}},
		Discounts: []models.ReservationDiscount{{Amount: 60}},
		Fees:      []models.ReservationFee{{Amount: 80}, {Amount: 25.555}},
		Refunds:   []models.ReservationRefund{{Amount: 45}},
	}
	assert.Equal(t, 600.56, ReservationTotal(r))
}
