package airbnb

import (
	"testing"
	"time"

	"rentalsync/constants"
	"rentalsync/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inboundReservation() *dto.AirbnbReservation {
	return &dto.AirbnbReservation{
		ConfirmationCode:           "HMABC1234567",
		ListingID:                  "listing-1",
		StartDate:                  "2026-06-10",
		EndDate:                    "2026-06-13",
		Nights:                     3,
		StatusType:                 "accept",
		NumberOfAdults:             2,
		NumberOfChildren:           1,
		ListingBasePriceAccurate:   "300.00",
		NightlyBasePriceAccurate:   "100.00",
		ListingCleaningFeeAccurate: "40.00",
		TotalPaidAmountAccurate:    "340.00",
		CancellationPolicyCategory: "moderate",
		ThreadID:                   "thread-1",
	}
}

func TestListingToProperty(t *testing.T) {
	category := "villa"
	l := &dto.AirbnbListing{
		ID:                   "listing-42",
		Name:                 "Hilltop Villa",
		Bedrooms:             3,
		Bathrooms:            2.5,
		PersonCapacity:       8,
		PropertyTypeCategory: &category,
		RoomTypeCategory:     "private_room",
		City:                 "Da Nang",
		State:                "DN",
		Street:               "12 Beach Road",
		Apt:                  "4B",
		Zipcode:              "550000",
		CountryCode:          "VN",
		Lat:                  16.06,
		Lng:                  108.22,
		ListingPrice:         120,
		ListingCurrency:      "USD",
		AmenityCategories:    []string{"wifi", "kitchen", "jetpack"},
		PermitOrTaxID:        "PERMIT-9",
	}

	p := ListingToProperty(l, 7)
	assert.EqualValues(t, 7, p.OrganizationID)
	assert.Equal(t, "Hilltop Villa", p.Name)
	assert.Equal(t, "Villa", p.PropertyType)
	assert.Equal(t, constants.RentalTypePrivate, p.RentalType)
	assert.Equal(t, 3.0, p.Bedrooms)
	assert.Equal(t, 2.5, p.Bathrooms)
	assert.Equal(t, 8, p.MaxGuests)
	assert.Equal(t, "VN", p.Country)
	assert.Equal(t, "Da Nang", p.City)
	assert.Equal(t, "12 Beach Road", p.Street)
	assert.Equal(t, "4B", p.Apartment)
	assert.Equal(t, "550000", p.PostalCode)
	assert.Equal(t, constants.PropertyStatusDraft, p.Status)
	assert.Equal(t, "PERMIT-9", p.PermitID)

	// amenity lạ bị bỏ qua, tên channel-side được map về cờ canonical
	require.NotNil(t, p.BasicAmenities)
	assert.True(t, p.BasicAmenities.WirelessInternet)
	assert.True(t, p.BasicAmenities.Kitchen)
	assert.Equal(t, 2, p.BasicAmenities.CountEnabled())

	require.NotNil(t, p.PricingSettings)
	assert.Equal(t, 120.0, p.PricingSettings.Nightly)
	assert.Equal(t, "USD", p.PricingSettings.Currency)
}

func TestListingToPropertyUnknownCategory(t *testing.T) {
	p := ListingToProperty(&dto.AirbnbListing{
		Name:             "Mystery Stay",
		RoomTypeCategory: "capsule",
	}, 1)
	assert.Equal(t, "Other", p.PropertyType)
	assert.Equal(t, constants.RentalTypeOther, p.RentalType)
	// không có giá thì không dựng pricing settings
	assert.Nil(t, p.PricingSettings)
}

func TestReservationToCanonical(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	res, err := ReservationToCanonical(inboundReservation(), 7, now)
	require.NoError(t, err)

	assert.EqualValues(t, 7, res.PropertyID)
	assert.Equal(t, "2026-06-10", res.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2026-06-13", res.EndDate.Format("2006-01-02"))
	assert.Equal(t, constants.ReservationStatusAccepted, res.Status)
	assert.Equal(t, constants.SourceAirbnb, res.Source)
	assert.Equal(t, 2, res.Adults)
	assert.Equal(t, 1, res.Children)
	assert.Equal(t, constants.CancellationModerate, res.CancellationPolicy)
	require.NotNil(t, res.ConfirmationCode)
	assert.Equal(t, "HMABC1234567", *res.ConfirmationCode)
	assert.Nil(t, res.Expiration)

	require.Len(t, res.Rates, 1)
	assert.Equal(t, 3, res.Rates[0].Nights)
	assert.Equal(t, 100.0, res.Rates[0].Nightly)
	assert.Equal(t, 300.0, res.Rates[0].Amount)
	assert.Equal(t, 300.0, res.BaseTotal)

	require.Len(t, res.Fees, 1)
	assert.Equal(t, "Cleaning Fee", res.Fees[0].Name)
	assert.Equal(t, 340.0, res.Price)
	assert.Equal(t, 340.0, res.PaidAmount)
}

func TestReservationToCanonicalInquiryExpires(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := inboundReservation()
	payload.StatusType = "pending"

	res, err := ReservationToCanonical(payload, 7, now)
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusInquiryBlocked, res.Status)
	require.NotNil(t, res.Expiration)
	assert.Equal(t, now.Add(24*time.Hour), *res.Expiration)
}

func TestReservationToCanonicalDerivesEndAndNightly(t *testing.T) {
	payload := inboundReservation()
	payload.EndDate = ""
	payload.NightlyBasePriceAccurate = ""

	res, err := ReservationToCanonical(payload, 7, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "2026-06-13", res.EndDate.Format("2006-01-02"))
	// nightly suy ra từ base / số đêm
	assert.Equal(t, 100.0, res.Rates[0].Nightly)
}

func TestReservationToCanonicalGuestDetailsWin(t *testing.T) {
	payload := inboundReservation()
	payload.Guest = &dto.AirbnbGuest{NumberOfAdults: 4, NumberOfChildren: 2, NumberOfInfants: 1}

	res, err := ReservationToCanonical(payload, 7, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Adults)
	assert.Equal(t, 2, res.Children)
	assert.Equal(t, 1, res.Infants)
}

func TestReservationToCanonicalFeesAndTaxes(t *testing.T) {
	payload := inboundReservation()
	payload.ListingSecurityPriceAccurate = "200.00"
	payload.StandardFeesDetails = []dto.AirbnbFeeDetail{
		{FeeType: "PASS_THROUGH_RESORT_FEE", AmountNative: "25.00"},
		{FeeType: "PASS_THROUGH_HOT_TUB_FEE", AmountNative: "15.00"},
	}
	payload.TransientOccupancyTaxDetails = []dto.AirbnbTaxDetail{
		{Name: "City Tax", AmountAccurate: "12.50"},
	}

	res, err := ReservationToCanonical(payload, 7, time.Now())
	require.NoError(t, err)
	require.Len(t, res.Fees, 5)

	deposit := res.Fees[1]
	assert.Equal(t, "Security Deposit", deposit.Name)
	assert.True(t, deposit.Refundable)

	assert.Equal(t, "Resort Fee", res.Fees[2].Name)
	// fee_type ngoài bảng dựng tên từ chính fee_type
	assert.Equal(t, "Hot Tub Fee", res.Fees[3].Name)

	tax := res.Fees[4]
	assert.Equal(t, "City Tax", tax.Name)
	assert.True(t, tax.Taxable)
	assert.Equal(t, 12.5, tax.Amount)

	// 300 + 40 + 200 + 25 + 15 + 12.5
	assert.Equal(t, 592.5, res.Price)
}

func TestReservationToCanonicalRejectsBadDates(t *testing.T) {
	payload := inboundReservation()
	payload.StartDate = "06/10/2026"

	_, err := ReservationToCanonical(payload, 7, time.Now())
	require.Error(t, err)
}

func TestBuildExternalReservationFlipsHostFee(t *testing.T) {
	payload := inboundReservation()
	payload.HostFeeBaseAccurate = "9.00"
	payload.ExpectedPayoutAmountAccurate = "331.00"
	payload.GuestPreferredLocale = "vi"

	shadow := BuildExternalReservation(payload, 5, []byte(`{}`))
	assert.EqualValues(t, 5, shadow.ReservationID)
	assert.Equal(t, constants.ChannelAirbnb, shadow.Channel)
	assert.Equal(t, "HMABC1234567", shadow.ConfirmationCode)
	assert.Equal(t, "thread-1", shadow.ThreadID)
	assert.Equal(t, -9.0, shadow.HostFee)
	assert.Equal(t, 331.0, shadow.PayoutAmount)
	assert.Equal(t, "vi", shadow.Locale)
}

func TestGuestToContact(t *testing.T) {
	payload := inboundReservation()
	payload.GuestEmail = "  Ana.Guest@Example.COM "
	payload.GuestFirstName = "Ana"
	payload.GuestLastName = "Nguyễn"
	payload.GuestPhoneNumbers = []string{"+84 90 000 0000", "+1 555 000 0000"}

	c := GuestToContact(payload, 3)
	assert.EqualValues(t, 3, c.OrganizationID)
	assert.Equal(t, "ana.guest@example.com", c.Email)
	assert.Equal(t, "Ana", c.FirstName)
	assert.Equal(t, "Nguyễn", c.LastName)
	assert.Equal(t, "+84 90 000 0000", c.Phone)
}

func TestMessageToCanonical(t *testing.T) {
	msg := MessageToCanonical(&dto.AirbnbMessage{
		ID:        "msg-1",
		Message:   "See you Friday",
		Role:      "owner",
		CreatedAt: "2026-06-01T10:00:00Z",
	}, 9)

	assert.EqualValues(t, 9, msg.ConversationID)
	assert.Equal(t, "msg-1", msg.ExternalID)
	assert.True(t, msg.Outgoing)
	assert.Equal(t, 2026, msg.ExternalDateCreated.Year())

	guest := MessageToCanonical(&dto.AirbnbMessage{ID: "msg-2", Role: "guest"}, 9)
	assert.False(t, guest.Outgoing)
}

func TestFeeTitleFromType(t *testing.T) {
	assert.Equal(t, "Hot Tub Fee", feeTitleFromType("PASS_THROUGH_HOT_TUB_FEE"))
	assert.Equal(t, "Pet Fee", feeTitleFromType("PASS_THROUGH_PET_FEE"))
}
