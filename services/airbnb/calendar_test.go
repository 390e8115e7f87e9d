package airbnb

import (
	"testing"
	"time"

	"rentalsync/constants"
	"rentalsync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildCalendarOperationsOpensWindowFirst(t *testing.T) {
	now := date("2026-03-01")

	ops := BuildCalendarOperations(now, nil, nil, nil)
	require.Len(t, ops, 1)
	assert.Equal(t, "available", ops[0].Availability)
	assert.Equal(t, "2026-03-01:2028-02-29", ops[0].Dates)
}

func TestBuildCalendarOperationsExportsEndMinusOne(t *testing.T) {
	now := date("2026-03-01")
	reservations := []models.Reservation{{
		StartDate: date("2026-03-10"),
		EndDate:   date("2026-03-15"), // ngày checkout không bị chặn
		Status:    constants.ReservationStatusAccepted,
	}}

	ops := BuildCalendarOperations(now, reservations, nil, nil)
	require.Len(t, ops, 2)
	assert.Equal(t, "unavailable", ops[1].Availability)
	assert.Equal(t, "2026-03-10:2026-03-14", ops[1].Dates)
	assert.Equal(t, "reservations", ops[1].Notes)
}

func TestBuildCalendarOperationsSkipsNonBlockingReservations(t *testing.T) {
	now := date("2026-03-01")
	reservations := []models.Reservation{{
		StartDate: date("2026-03-10"),
		EndDate:   date("2026-03-15"),
		Status:    constants.ReservationStatusDeclined,
	}}

	ops := BuildCalendarOperations(now, reservations, nil, nil)
	assert.Len(t, ops, 1)
}

func TestBuildCalendarOperationsCollapsesAdjacentSameNote(t *testing.T) {
	now := date("2026-03-01")
	blockings := []models.Blocking{
		{Lower: date("2026-03-10"), Upper: date("2026-03-12")},
		{Lower: date("2026-03-12"), Upper: date("2026-03-14")},
	}

	ops := BuildCalendarOperations(now, nil, blockings, nil)
	require.Len(t, ops, 2)
	assert.Equal(t, "2026-03-10:2026-03-13", ops[1].Dates)
	assert.Equal(t, "blockings", ops[1].Notes)
}

func TestBuildCalendarOperationsKeepsDifferentNotesApart(t *testing.T) {
	now := date("2026-03-01")
	blockings := []models.Blocking{{Lower: date("2026-03-10"), Upper: date("2026-03-12")}}
	events := []models.ExternalCalendarEvent{{Start: date("2026-03-12"), End: date("2026-03-14")}}

	ops := BuildCalendarOperations(now, nil, blockings, events)
	require.Len(t, ops, 3)
	assert.Equal(t, "blockings", ops[1].Notes)
	assert.Equal(t, "iCal blockings", ops[2].Notes)
}

func TestBuildCalendarOperationsClampsToWindow(t *testing.T) {
	now := date("2026-03-01")
	blockings := []models.Blocking{
		// bắt đầu trước hôm nay
		{Lower: date("2026-02-20"), Upper: date("2026-03-05")},
		// kết thúc sau horizon 730 ngày
		{Lower: date("2028-02-20"), Upper: date("2028-06-01")},
		// nằm hẳn ngoài cửa sổ
		{Lower: date("2020-01-01"), Upper: date("2020-02-01")},
	}

	ops := BuildCalendarOperations(now, nil, blockings, nil)
	require.Len(t, ops, 3)
	assert.Equal(t, "2026-03-01:2026-03-04", ops[1].Dates)
	assert.Equal(t, "2028-02-20:2028-02-29", ops[2].Dates)
}

func TestBuildCalendarOperationsSingleDayRange(t *testing.T) {
	now := date("2026-03-01")
	blockings := []models.Blocking{{Lower: date("2026-03-10"), Upper: date("2026-03-11")}}

	ops := BuildCalendarOperations(now, nil, blockings, nil)
	require.Len(t, ops, 2)
	assert.Equal(t, "2026-03-10", ops[1].Dates)
}
