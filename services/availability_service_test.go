package services

import (
	"context"
	"testing"
	"time"

	"rentalsync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constrainedProperty(as *models.AvailabilitySettings) *models.Property {
	return &models.Property{ID: 1, AvailabilitySettings: as}
}

func TestCheckStayConstraintsMinNights(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	p := constrainedProperty(&models.AvailabilitySettings{MinNights: 3})
	now := day("2026-03-01")

	assert.Error(t, s.CheckStayConstraints(p, day("2026-03-10"), day("2026-03-12"), now))
	assert.NoError(t, s.CheckStayConstraints(p, day("2026-03-10"), day("2026-03-13"), now))
}

func TestCheckStayConstraintsWeekdayMinNights(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	// check-in thứ sáu yêu cầu tối thiểu 3 đêm
	p := constrainedProperty(&models.AvailabilitySettings{MinNights: 1, MinNightsByWeekday: "5:3"})
	now := day("2026-03-01")

	// 2026-03-13 là thứ sáu
	assert.Error(t, s.CheckStayConstraints(p, day("2026-03-13"), day("2026-03-15"), now))
	assert.NoError(t, s.CheckStayConstraints(p, day("2026-03-13"), day("2026-03-16"), now))
	// thứ khác vẫn theo min chung
	assert.NoError(t, s.CheckStayConstraints(p, day("2026-03-11"), day("2026-03-12"), now))
}

func TestCheckStayConstraintsMaxNights(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	p := constrainedProperty(&models.AvailabilitySettings{MinNights: 1, MaxNights: 5})
	now := day("2026-03-01")

	assert.Error(t, s.CheckStayConstraints(p, day("2026-03-10"), day("2026-03-16"), now))
	assert.NoError(t, s.CheckStayConstraints(p, day("2026-03-10"), day("2026-03-15"), now))
}

func TestCheckStayConstraintsCheckInDays(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	// chỉ cho check-in thứ sáu, thứ bảy
	p := constrainedProperty(&models.AvailabilitySettings{MinNights: 1, CheckInDays: "56"})
	now := day("2026-03-01")

	// 2026-03-11 là thứ tư
	assert.Error(t, s.CheckStayConstraints(p, day("2026-03-11"), day("2026-03-14"), now))
	assert.NoError(t, s.CheckStayConstraints(p, day("2026-03-13"), day("2026-03-15"), now))
}

func TestCheckStayConstraintsAdvanceNoticeAndWindow(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	p := constrainedProperty(&models.AvailabilitySettings{
		MinNights:           1,
		AdvanceNoticeHours:  48,
		BookingWindowMonths: 6,
	})
	now := day("2026-03-01")

	// check-in ngày mai: chưa đủ 48h báo trước
	assert.Error(t, s.CheckStayConstraints(p, day("2026-03-02"), day("2026-03-05"), now))
	// check-in quá 6 tháng tới
	assert.Error(t, s.CheckStayConstraints(p, day("2026-10-01"), day("2026-10-05"), now))
	assert.NoError(t, s.CheckStayConstraints(p, day("2026-04-01"), day("2026-04-05"), now))
}

func TestCheckStayConstraintsNoSettings(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	p := &models.Property{ID: 1}

	assert.NoError(t, s.CheckStayConstraints(p, day("2026-03-10"), day("2026-03-11"), day("2026-03-01")))
}

func TestReplaceUpcomingBlockingsKeepsPast(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	ctx := context.Background()

	today := time.Now().Truncate(24 * time.Hour)
	past := models.Blocking{PropertyID: 1, Lower: today.AddDate(0, 0, -10), Upper: today.AddDate(0, 0, -5)}
	future := models.Blocking{PropertyID: 1, Lower: today.AddDate(0, 0, 5), Upper: today.AddDate(0, 0, 8)}
	other := models.Blocking{PropertyID: 2, Lower: today.AddDate(0, 0, 5), Upper: today.AddDate(0, 0, 8)}
	require.NoError(t, s.db.Create(&past).Error)
	require.NoError(t, s.db.Create(&future).Error)
	require.NoError(t, s.db.Create(&other).Error)

	replacement := []models.Blocking{
		{Lower: today.AddDate(0, 0, 20), Upper: today.AddDate(0, 0, 25), Summary: "external booking"},
	}
	require.NoError(t, s.ReplaceUpcomingBlockings(ctx, 1, replacement))

	blockings, err := s.ListBlockings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, blockings, 2)
	assertDay(t, past.Lower.Format("2006-01-02"), blockings[0].Lower)
	assert.Equal(t, "external booking", blockings[1].Summary)

	// property khác không bị đụng
	otherBlockings, err := s.ListBlockings(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, otherBlockings, 1)
}

func TestDeleteBlockingNotFound(t *testing.T) {
	s := NewAvailabilityService(newTestDB(t), testLogger())
	ctx := context.Background()

	b := models.Blocking{PropertyID: 1, Lower: day("2026-03-10"), Upper: day("2026-03-12")}
	require.NoError(t, s.CreateBlocking(ctx, &b))

	// sai property thì không xóa được
	require.Error(t, s.DeleteBlocking(ctx, 2, b.ID))
	require.NoError(t, s.DeleteBlocking(ctx, 1, b.ID))
	require.Error(t, s.DeleteBlocking(ctx, 1, b.ID))
}
