package models

import (
	"testing"
	"time"

	"rentalsync/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamicStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name       string
		status     string
		expiration *time.Time
		want       string
	}{
		{"accepted", constants.ReservationStatusAccepted, nil, constants.DynamicStatusReserved},
		{"inquiry chưa hết hạn", constants.ReservationStatusInquiry, &future, constants.DynamicStatusInquiry},
		{"inquiry hết hạn", constants.ReservationStatusInquiry, &past, constants.DynamicStatusExpired},
		{"inquiry không có expiration", constants.ReservationStatusInquiry, nil, constants.DynamicStatusInquiry},
		{"inquiry blocked chưa hết hạn", constants.ReservationStatusInquiryBlocked, &future, constants.DynamicStatusPending},
		{"inquiry blocked hết hạn", constants.ReservationStatusInquiryBlocked, &past, constants.DynamicStatusExpired},
		{"cancelled", constants.ReservationStatusCancelled, nil, constants.DynamicStatusCancelled},
		{"declined", constants.ReservationStatusDeclined, nil, constants.DynamicStatusCancelled},
		{"request", constants.ReservationStatusRequest, nil, constants.DynamicStatusRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Reservation{Status: tc.status, Expiration: tc.expiration}
			assert.Equal(t, tc.want, r.DynamicStatus(now))
		})
	}
}

func TestBlocksCalendar(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	assert.True(t, (&Reservation{Status: constants.ReservationStatusAccepted}).BlocksCalendar(now))
	assert.True(t, (&Reservation{Status: constants.ReservationStatusRequest}).BlocksCalendar(now))
	assert.True(t, (&Reservation{Status: constants.ReservationStatusInquiryBlocked}).BlocksCalendar(now))
	assert.False(t, (&Reservation{Status: constants.ReservationStatusInquiry}).BlocksCalendar(now))
	assert.False(t, (&Reservation{Status: constants.ReservationStatusDeclined}).BlocksCalendar(now))
	// inquiry blocked hết hạn không còn chặn lịch
	assert.False(t, (&Reservation{Status: constants.ReservationStatusInquiryBlocked, Expiration: &past}).BlocksCalendar(now))
}

func TestInquiryStateTransitions(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	res := &Reservation{Status: constants.ReservationStatusInquiry, Expiration: &exp}
	state := GetReservationState(res.Status)

	require.NoError(t, state.Accept(res))
	assert.Equal(t, constants.ReservationStatusAccepted, res.Status)
	assert.Nil(t, res.Expiration)
}

func TestAcceptedStateTransitions(t *testing.T) {
	res := &Reservation{Status: constants.ReservationStatusAccepted}
	state := GetReservationState(res.Status)

	assert.Error(t, state.Accept(res))
	assert.Error(t, state.Decline(res))

	require.NoError(t, state.Cancel(res, "plans changed"))
	assert.Equal(t, constants.ReservationStatusCancelled, res.Status)
	assert.Equal(t, "plans changed", res.CancellationReason)
}

func TestClosedStateRejectsEverything(t *testing.T) {
	for _, status := range []string{constants.ReservationStatusCancelled, constants.ReservationStatusDeclined} {
		res := &Reservation{Status: status}
		state := GetReservationState(status)
		assert.Error(t, state.Accept(res))
		assert.Error(t, state.Decline(res))
		assert.Error(t, state.Cancel(res, "x"))
	}
}

func TestMapChannelStatus(t *testing.T) {
	cases := map[string]string{
		"new":                constants.ReservationStatusInquiry,
		"accept":             constants.ReservationStatusAccepted,
		"deny":               constants.ReservationStatusDeclined,
		"timeout":            constants.ReservationStatusDeclined,
		"pending":            constants.ReservationStatusInquiryBlocked,
		"pending_payment":    constants.ReservationStatusInquiryBlocked,
		"at_checkpoint":      constants.ReservationStatusInquiryBlocked,
		"cancelled_by_guest": constants.ReservationStatusCancelled,
		"cancelled_by_host":  constants.ReservationStatusCancelled,
		"something_else":     constants.ReservationStatusInquiry,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapChannelStatus(in), "status %q", in)
	}
}
