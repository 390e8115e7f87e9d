package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"rentalsync/constants"
	"rentalsync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservationService(t *testing.T) (*ReservationService, *models.Property) {
	t.Helper()
	db := newTestDB(t)
	availability := NewAvailabilityService(db, testLogger())
	svc := NewReservationService(db, availability, testLogger())

	p := &models.Property{
		OrganizationID:  1,
		Name:            "Seaside Cottage",
		PricingSettings: &models.PricingSettings{Nightly: 100, CleaningFee: 50, SecurityDeposit: 200},
	}
	require.NoError(t, db.Create(p).Error)
	return svc, p
}

func TestGenerateConfirmationCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{12}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateConfirmationCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		assert.False(t, seen[code], "code %s bị lặp", code)
		seen[code] = true
	}
}

func TestCreateReservationPricesAndAssignsCode(t *testing.T) {
	svc, p := newReservationService(t)

	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 30)
	res := &models.Reservation{
		PropertyID: p.ID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 4),
		Status:     constants.ReservationStatusAccepted,
		Adults:     2,
	}
	require.NoError(t, svc.CreateReservation(context.Background(), res))

	require.NotNil(t, res.ConfirmationCode)
	assert.Len(t, *res.ConfirmationCode, 12)
	assert.Equal(t, 400.0, res.BaseTotal)
	// 400 rates + 50 cleaning + 200 deposit
	assert.Equal(t, 650.0, res.Price)
	require.Len(t, res.Fees, 2)
	assert.True(t, res.Fees[1].Refundable)
}

func TestCreateReservationRejectsBlockedDates(t *testing.T) {
	svc, p := newReservationService(t)

	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 30)
	require.NoError(t, svc.availability.CreateBlocking(context.Background(), &models.Blocking{
		PropertyID: p.ID,
		Lower:      start,
		Upper:      start.AddDate(0, 0, 2),
	}))

	res := &models.Reservation{
		PropertyID: p.ID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 4),
		Adults:     1,
	}
	require.Error(t, svc.CreateReservation(context.Background(), res))
}

func TestCreateReservationRejectsOverlapWithAccepted(t *testing.T) {
	svc, p := newReservationService(t)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 30)
	first := &models.Reservation{
		PropertyID: p.ID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 4),
		Status:     constants.ReservationStatusAccepted,
		Adults:     1,
	}
	require.NoError(t, svc.CreateReservation(ctx, first))

	second := &models.Reservation{
		PropertyID: p.ID,
		StartDate:  start.AddDate(0, 0, 2),
		EndDate:    start.AddDate(0, 0, 6),
		Adults:     1,
	}
	require.Error(t, svc.CreateReservation(ctx, second))

	// sau ngày checkout thì được: khoảng nửa mở không chặn ngày end
	third := &models.Reservation{
		PropertyID: p.ID,
		StartDate:  start.AddDate(0, 0, 4),
		EndDate:    start.AddDate(0, 0, 6),
		Status:     constants.ReservationStatusAccepted,
		Adults:     1,
	}
	require.NoError(t, svc.CreateReservation(ctx, third))
}

func TestReservationTransitions(t *testing.T) {
	svc, p := newReservationService(t)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 30)
	res := &models.Reservation{
		PropertyID: p.ID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
		Status:     constants.ReservationStatusInquiry,
		Adults:     1,
	}
	require.NoError(t, svc.CreateReservation(ctx, res))

	accepted, err := svc.Accept(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusAccepted, accepted.Status)

	// accepted không decline được
	_, err = svc.Decline(ctx, res.ID)
	require.Error(t, err)

	cancelled, err := svc.Cancel(ctx, res.ID, "guest request")
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusCancelled, cancelled.Status)
	assert.Equal(t, "guest request", cancelled.CancellationReason)

	// closed là trạng thái cuối
	_, err = svc.Accept(ctx, res.ID)
	require.Error(t, err)
}

func TestAddRefundRecomputesTotal(t *testing.T) {
	svc, p := newReservationService(t)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 30)
	res := &models.Reservation{
		PropertyID: p.ID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 4),
		Status:     constants.ReservationStatusAccepted,
		Adults:     1,
	}
	require.NoError(t, svc.CreateReservation(ctx, res))
	require.Equal(t, 650.0, res.Price)

	updated, err := svc.AddRefund(ctx, res.ID, 200, "deposit return")
	require.NoError(t, err)
	assert.Equal(t, 450.0, updated.Price)
}

func channelReservation(p *models.Property, code string, start time.Time) *models.Reservation {
	c := code
	return &models.Reservation{
		PropertyID:       p.ID,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 3),
		Status:           constants.ReservationStatusAccepted,
		Source:           constants.SourceAirbnb,
		Adults:           2,
		ConfirmationCode: &c,
		Rates:            []models.ReservationRate{{Name: "Nightly rate", Nights: 3, Nightly: 90, Amount: 270}},
		Fees:             []models.ReservationFee{{Name: "Cleaning Fee", Value: 40, Amount: 40}},
		Price:            310,
	}
}

func TestUpsertFromChannelIsIdempotent(t *testing.T) {
	svc, p := newReservationService(t)
	ctx := context.Background()
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 60)

	contact := &models.Contact{OrganizationID: 1, FirstName: "Ana", Email: "ana@example.com"}
	shadow := &models.ExternalReservation{
		Channel:          constants.ChannelAirbnb,
		ConfirmationCode: "HMABCDEF1234",
		ThreadID:         "thread-1",
	}

	res, created, err := svc.UpsertFromChannel(ctx, channelReservation(p, "HMABCDEF1234", start), shadow, contact)
	require.NoError(t, err)
	assert.True(t, created)
	firstID := res.ID

	// cùng code lần hai: cập nhật tại chỗ, không tạo bản ghi mới
	incoming := channelReservation(p, "HMABCDEF1234", start)
	incoming.Rates[0].Amount = 300
	incoming.Rates[0].Nightly = 100
	res2, created2, err := svc.UpsertFromChannel(ctx, incoming,
		&models.ExternalReservation{Channel: constants.ChannelAirbnb, ConfirmationCode: "HMABCDEF1234"},
		contact)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, firstID, res2.ID)

	var count int64
	require.NoError(t, svc.db.Model(&models.Reservation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// dòng con được thay mới, không nhân đôi
	var rateCount int64
	require.NoError(t, svc.db.Model(&models.ReservationRate{}).
		Where("reservation_id = ?", firstID).Count(&rateCount).Error)
	assert.EqualValues(t, 1, rateCount)

	var shadowCount int64
	require.NoError(t, svc.db.Model(&models.ExternalReservation{}).Count(&shadowCount).Error)
	assert.EqualValues(t, 1, shadowCount)

	// contact dedup theo (org, email)
	var contactCount int64
	require.NoError(t, svc.db.Model(&models.Contact{}).Count(&contactCount).Error)
	assert.EqualValues(t, 1, contactCount)
}

func TestDepositsDue(t *testing.T) {
	svc, p := newReservationService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	code := "HMDEPOSIT001"
	past := &models.Reservation{
		PropertyID:         p.ID,
		StartDate:          now.AddDate(0, 0, -30),
		EndDate:            now.AddDate(0, 0, -20),
		Status:             constants.ReservationStatusAccepted,
		Adults:             1,
		ConfirmationCode:   &code,
		RefundDepositAfter: 14,
		Fees: []models.ReservationFee{
			{Name: "Security Deposit", Value: 200, Amount: 200, Refundable: true},
		},
	}
	require.NoError(t, svc.db.Create(past).Error)

	due, err := svc.DepositsDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, past.ID, due[0].ID)

	// checkout + 14 ngày chưa tới thì chưa đến hạn
	code2 := "HMDEPOSIT002"
	recent := &models.Reservation{
		PropertyID:         p.ID,
		StartDate:          now.AddDate(0, 0, -8),
		EndDate:            now.AddDate(0, 0, -5),
		Status:             constants.ReservationStatusAccepted,
		Adults:             1,
		ConfirmationCode:   &code2,
		RefundDepositAfter: 14,
		Fees: []models.ReservationFee{
			{Name: "Security Deposit", Value: 150, Amount: 150, Refundable: true},
		},
	}
	require.NoError(t, svc.db.Create(recent).Error)

	due, err = svc.DepositsDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
}

func TestRefundDueDepositsMarksRefunded(t *testing.T) {
	svc, p := newReservationService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	code := "HMDEPOSIT003"
	res := &models.Reservation{
		PropertyID:         p.ID,
		StartDate:          now.AddDate(0, 0, -30),
		EndDate:            now.AddDate(0, 0, -20),
		Status:             constants.ReservationStatusAccepted,
		Adults:             1,
		ConfirmationCode:   &code,
		RefundDepositAfter: 14,
		Fees: []models.ReservationFee{
			{Name: "Security Deposit", Value: 200, Amount: 200, Refundable: true},
		},
	}
	require.NoError(t, svc.db.Create(res).Error)

	svc.RefundDueDeposits(ctx, NewLoggingPaymentProvider(testLogger()), now)

	var fee models.ReservationFee
	require.NoError(t, svc.db.Where("reservation_id = ?", res.ID).First(&fee).Error)
	assert.True(t, fee.Refunded)

	due, err := svc.DepositsDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

// recordingPaymentProvider ghi lại các lệnh refund đã nhận
type recordingPaymentProvider struct {
	charges []string
	amounts []int64
}

func (p *recordingPaymentProvider) Refund(_ context.Context, chargeID string, amountMinor int64) error {
	p.charges = append(p.charges, chargeID)
	p.amounts = append(p.amounts, amountMinor)
	return nil
}

func TestRefundDueDepositsRoundsToMinorUnit(t *testing.T) {
	svc, p := newReservationService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	code := "HMDEPOSIT004"
	res := &models.Reservation{
		PropertyID:         p.ID,
		StartDate:          now.AddDate(0, 0, -30),
		EndDate:            now.AddDate(0, 0, -20),
		Status:             constants.ReservationStatusAccepted,
		Adults:             1,
		ConfirmationCode:   &code,
		RefundDepositAfter: 14,
		Fees: []models.ReservationFee{
			{Name: "Security Deposit", Value: 19.99, Amount: 19.99, Refundable: true},
		},
	}
	require.NoError(t, svc.db.Create(res).Error)

	provider := &recordingPaymentProvider{}
	svc.RefundDueDeposits(ctx, provider, now)

	// 19.99 * 100 là 1998.9999... dưới float64, phải ra đúng 1999 cent
	require.Len(t, provider.amounts, 1)
	assert.EqualValues(t, 1999, provider.amounts[0])
	assert.Equal(t, code, provider.charges[0])
}
