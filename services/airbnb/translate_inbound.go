package airbnb

import (
	"strings"
	"time"

	"rentalsync/constants"
	"rentalsync/dto"
	apperrors "rentalsync/errors"
	"rentalsync/models"
)

const dateLayout = "2006-01-02"

// feeNameMap dịch ngược fee_type của channel về tên fee canonical
var feeNameMap = map[string]string{
	"PASS_THROUGH_LINEN_FEE":      "Linen Fee",
	"PASS_THROUGH_RESORT_FEE":     "Resort Fee",
	"PASS_THROUGH_MANAGEMENT_FEE": "Management Fee",
	"PASS_THROUGH_COMMUNITY_FEE":  "Community Fee",
	"PASS_THROUGH_UTILITY_FEE":    "Utility Fee",
}

// ListingToProperty dựng property canonical từ listing nhập về.
// Category không biết giữ type là Other; amenity lạ bị bỏ qua.
func ListingToProperty(l *dto.AirbnbListing, orgID uint) *models.Property {
	p := &models.Property{
		OrganizationID: orgID,
		Name:           l.Name,
		PropertyType:   "Other",
		RentalType:     UnmapRentalType(l.RoomTypeCategory),
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		MaxGuests:      l.PersonCapacity,
		Country:        l.CountryCode,
		State:          l.State,
		City:           l.City,
		Street:         l.Street,
		Apartment:      l.Apt,
		PostalCode:     l.Zipcode,
		Latitude:       l.Lat,
		Longitude:      l.Lng,
		Status:         constants.PropertyStatusDraft,
		PermitID:       l.PermitOrTaxID,
	}
	if l.PropertyTypeCategory != nil {
		p.PropertyType = UnmapPropertyType(*l.PropertyTypeCategory)
	}

	amenities := &models.BasicAmenities{}
	for _, name := range l.AmenityCategories {
		amenities.SetByName(name)
	}
	p.BasicAmenities = amenities

	if l.ListingPrice > 0 {
		p.PricingSettings = &models.PricingSettings{
			Nightly:  l.ListingPrice,
			Currency: l.ListingCurrency,
		}
	}
	return p
}

// PricingSettingsToCanonical merge pricing settings nhập về vào PricingSettings canonical
func PricingSettingsToCanonical(ps *dto.AirbnbPricingSettings, out *models.PricingSettings) {
	out.Nightly = ps.DefaultDailyPrice
	out.Weekend = ps.WeekendPrice
	if ps.PriceCurrency != "" {
		out.Currency = ps.PriceCurrency
	}
	out.CleaningFee = ps.CleaningFee
	out.ExtraPersonFee = ps.GuestFee
	out.SecurityDeposit = ps.SecurityDeposit
	if ps.WeeklyPriceFactor > 0 {
		out.Weekly = round2(ps.DefaultDailyPrice * 7 * ps.WeeklyPriceFactor)
	}
	if ps.MonthlyPriceFactor > 0 {
		out.Monthly = round2(ps.DefaultDailyPrice * 30 * ps.MonthlyPriceFactor)
	}
}

func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int(v*100+0.5)) / 100
}

// DescriptionToCanonical merge mô tả nhập về vào Descriptions canonical
func DescriptionToCanonical(d *dto.AirbnbDescription, out *models.Descriptions) {
	out.Summary = d.Summary
	out.Space = d.Space
	out.Access = d.Access
	out.Interaction = d.Interaction
	out.Neighborhood = d.Neighborhood
	out.Transit = d.Transit
	out.Notes = d.Notes
	out.HouseRules = d.HouseRules
	if d.Locale != "" {
		out.Locale = d.Locale
	}
}

// RoomsToCanonical dựng rooms canonical từ rooms nhập về
func RoomsToCanonical(rooms []dto.AirbnbRoom, propertyID uint) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		r := models.Room{
			PropertyID: propertyID,
			RoomType:   room.RoomType,
			ExternalID: room.ID,
		}
		if room.RoomNumber == 0 {
			r.RoomType = "common_space"
		}
		for _, bed := range room.Beds {
			r.Beds = append(r.Beds, models.Bed{BedType: bed.Type, Quantity: bed.Quantity})
		}
		for _, amenity := range room.Amenities {
			if amenity.Type == "en_suite_bathroom" && amenity.Quantity > 0 {
				r.Bathrooms = float64(amenity.Quantity)
			}
		}
		out = append(out, r)
	}
	return out
}

// ReservationToCanonical dựng reservation canonical từ payload channel.
// Status dịch qua bảng channel->canonical; line item giá dựng lại từ
// nightly price x số đêm; host fee đổi dấu (phía channel là khoản trừ).
func ReservationToCanonical(r *dto.AirbnbReservation, propertyID uint, now time.Time) (*models.Reservation, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "start date không hợp lệ", err)
	}
	var end time.Time
	if r.EndDate != "" {
		end, err = time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "end date không hợp lệ", err)
		}
	} else {
		end = start.AddDate(0, 0, r.Nights)
	}

	nights := r.Nights
	if nights == 0 {
		nights = int(end.Sub(start).Hours() / 24)
	}

	code := r.ConfirmationCode
	res := &models.Reservation{
		PropertyID:         propertyID,
		StartDate:          start,
		EndDate:            end,
		Status:             models.MapChannelStatus(r.StatusType),
		Source:             constants.SourceAirbnb,
		Adults:             r.NumberOfAdults,
		Children:           r.NumberOfChildren,
		Infants:            r.NumberOfInfants,
		Pets:               r.NumberOfPets,
		ConfirmationCode:   &code,
		CancellationPolicy: UnmapCancellationPolicy(r.CancellationPolicyCategory),
	}
	if res.Adults == 0 && r.NumberOfGuests > 0 {
		res.Adults = r.NumberOfGuests
	}
	if r.Guest != nil {
		if r.Guest.NumberOfAdults > 0 {
			res.Adults = r.Guest.NumberOfAdults
		}
		res.Children = r.Guest.NumberOfChildren
		res.Infants = r.Guest.NumberOfInfants
	}

	// nhóm inquiry phía channel hết hạn sau 24h nếu host không phản hồi
	switch res.Status {
	case constants.ReservationStatusInquiry, constants.ReservationStatusInquiryBlocked:
		exp := now.Add(24 * time.Hour)
		res.Expiration = &exp
	}

	base := parseMoney(r.ListingBasePriceAccurate)
	nightly := parseMoney(r.NightlyBasePriceAccurate)
	if nightly == 0 && nights > 0 {
		nightly = round2(base / float64(nights))
	}
	if base == 0 {
		base = round2(nightly * float64(nights))
	}
	res.Rates = []models.ReservationRate{{
		Name:    "Nightly rate",
		Nights:  nights,
		Nightly: nightly,
		Amount:  base,
	}}
	res.BaseTotal = base

	if cleaning := parseMoney(r.ListingCleaningFeeAccurate); cleaning > 0 {
		res.Fees = append(res.Fees, models.ReservationFee{
			Name:              "Cleaning Fee",
			Value:             cleaning,
			Amount:            cleaning,
			CalculationMethod: constants.CalcPerStay,
		})
	}
	if deposit := parseMoney(r.ListingSecurityPriceAccurate); deposit > 0 {
		res.Fees = append(res.Fees, models.ReservationFee{
			Name:              "Security Deposit",
			Value:             deposit,
			Amount:            deposit,
			CalculationMethod: constants.CalcPerStay,
			Refundable:        true,
		})
	}
	for _, fee := range r.StandardFeesDetails {
		name, ok := feeNameMap[fee.FeeType]
		if !ok {
			name = feeTitleFromType(fee.FeeType)
		}
		amount := parseMoney(fee.AmountNative)
		res.Fees = append(res.Fees, models.ReservationFee{
			Name:              name,
			Value:             amount,
			Amount:            amount,
			CalculationMethod: constants.CalcPerStay,
		})
	}
	for _, tax := range r.TransientOccupancyTaxDetails {
		amount := parseMoney(tax.AmountAccurate)
		res.Fees = append(res.Fees, models.ReservationFee{
			Name:              tax.Name,
			Value:             amount,
			Amount:            amount,
			CalculationMethod: constants.CalcPerStay,
			Taxable:           true,
		})
	}

	total := res.BaseTotal
	for _, fee := range res.Fees {
		total += fee.Amount
	}
	res.Price = round2(total)
	res.PaidAmount = parseMoney(r.TotalPaidAmountAccurate)

	return res, nil
}

// BuildExternalReservation giữ phần payload chỉ có nghĩa phía channel.
// Host fee phía channel là khoản trừ nên đổi dấu khi lưu.
func BuildExternalReservation(r *dto.AirbnbReservation, reservationID uint, raw []byte) *models.ExternalReservation {
	return &models.ExternalReservation{
		ReservationID:    reservationID,
		Channel:          constants.ChannelAirbnb,
		ConfirmationCode: r.ConfirmationCode,
		ThreadID:         r.ThreadID,
		HostFee:          -parseMoney(r.HostFeeBaseAccurate),
		CleaningFee:      parseMoney(r.ListingCleaningFeeAccurate),
		PayoutAmount:     parseMoney(r.ExpectedPayoutAmountAccurate),
		Locale:           r.GuestPreferredLocale,
		IsPreconfirmed:   r.IsPreconfirmed,
		RawPayload:       raw,
	}
}

// GuestToContact dựng contact canonical từ phần guest của reservation
func GuestToContact(r *dto.AirbnbReservation, orgID uint) *models.Contact {
	c := &models.Contact{
		OrganizationID:  orgID,
		Email:           strings.ToLower(strings.TrimSpace(r.GuestEmail)),
		FirstName:       r.GuestFirstName,
		LastName:        r.GuestLastName,
		PreferredLocale: r.GuestPreferredLocale,
	}
	if len(r.GuestPhoneNumbers) > 0 {
		c.Phone = r.GuestPhoneNumbers[0]
	}
	return c
}

// MessageToCanonical dựng message canonical; owner/cohost là chiều đi ra
func MessageToCanonical(m *dto.AirbnbMessage, conversationID uint) *models.Message {
	outgoing := m.Role == "owner" || m.Role == "cohost"
	msg := &models.Message{
		ConversationID: conversationID,
		ExternalID:     m.ID,
		Body:           m.Message,
		Sender:         m.Role,
		Outgoing:       outgoing,
	}
	if t, err := time.Parse(time.RFC3339, m.CreatedAt); err == nil {
		msg.ExternalDateCreated = t
	}
	return msg
}

// feeTitleFromType đổi "PASS_THROUGH_SOMETHING_FEE" thành "Something Fee"
func feeTitleFromType(feeType string) string {
	name := strings.TrimPrefix(feeType, "PASS_THROUGH_")
	words := strings.Split(strings.ToLower(name), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
