package airbnb

import (
	"encoding/base64"
	"sort"
	"strconv"
	"strings"

	"rentalsync/constants"
	"rentalsync/dto"
	apperrors "rentalsync/errors"
	"rentalsync/models"
)

// propertyTypeMap dịch property type canonical sang category phía channel.
// Loại không biết dịch thành null.
var propertyTypeMap = map[string]string{
	"House":             "house",
	"Apartment":         "apartment",
	"Condo":             "condominium",
	"Bed_And_Breakfast": "bnb",
	"Camper_RV":         "rv",
	"Farmhouse":         "farm_stay",
	"Villa":             "villa",
	"Cabin":             "cabin",
	"Bungalow":          "bungalow",
	"Loft":              "loft",
	"Townhouse":         "townhouse",
	"Guesthouse":        "guesthouse",
	"Guest_Suite":       "guest_suite",
	"Cottage":           "cottage",
	"Boat":              "boat",
	"Lighthouse":        "lighthouse",
	"Tiny_House":        "tiny_house",
	"Hotel":             "boutique_hotel",
}

// propertyTypeGroupMap gom category của channel về nhóm thô
var propertyTypeGroupMap = map[string]string{
	"apartment":      "apartments",
	"condominium":    "apartments",
	"loft":           "apartments",
	"bnb":            "bnb",
	"farm_stay":      "bnb",
	"boutique_hotel": "boutique_hotels_and_more",
	"house":          "houses",
	"villa":          "houses",
	"cabin":          "houses",
	"bungalow":       "houses",
	"townhouse":      "houses",
	"cottage":        "houses",
	"guesthouse":     "secondary_units",
	"guest_suite":    "secondary_units",
	"rv":             "unique_homes",
	"boat":           "unique_homes",
	"lighthouse":     "unique_homes",
	"tiny_house":     "unique_homes",
}

// rentalTypeMap dịch rental type canonical sang room type category
var rentalTypeMap = map[string]string{
	constants.RentalTypeEntireHome: "entire_home",
	constants.RentalTypePrivate:    "private_room",
	constants.RentalTypeShared:     "shared_room",
	constants.RentalTypeOther:      "entire_home",
}

// cancellationPolicyMap dịch cancellation policy canonical sang channel
var cancellationPolicyMap = map[string]string{
	constants.CancellationRelaxed:  "flexible",
	constants.CancellationModerate: "moderate",
	constants.CancellationFirm:     "strict_14_with_grace_period",
	constants.CancellationStrict:   "super_strict_30",
}

// channelAmenities là tập amenity enum mà channel hiểu; cờ ngoài tập này bị lọc
var channelAmenities = map[string]bool{
	"ac": true, "breakfast": true, "cable": true, "carbon_monoxide_detector": true,
	"doorman": true, "dryer": true, "elevator": true, "essentials": true,
	"fire_extinguisher": true, "first_aid_kit": true, "free_parking": true,
	"gym": true, "hair_dryer": true, "hangers": true, "heating": true,
	"hot_tub": true, "indoor_fireplace": true, "iron": true, "kitchen": true,
	"laptop_friendly": true, "pool": true, "shampoo": true, "smoke_detector": true,
	"tv": true, "washer": true, "wheelchair_accessible": true, "wireless_internet": true,
}

// MapPropertyType dịch property type, không biết thì trả nil
func MapPropertyType(canonical string) *string {
	if v, ok := propertyTypeMap[canonical]; ok {
		return &v
	}
	return nil
}

// UnmapPropertyType dịch ngược category channel về type canonical
func UnmapPropertyType(category string) string {
	for canonical, ch := range propertyTypeMap {
		if ch == category {
			return canonical
		}
	}
	return "Other"
}

// PropertyTypeGroup trả về nhóm thô của category
func PropertyTypeGroup(category string) string {
	if g, ok := propertyTypeGroupMap[category]; ok {
		return g
	}
	return "houses"
}

// MapRentalType dịch rental type canonical sang channel
func MapRentalType(canonical string) string {
	if v, ok := rentalTypeMap[canonical]; ok {
		return v
	}
	return "entire_home"
}

// UnmapRentalType dịch ngược room type category về canonical
func UnmapRentalType(category string) string {
	switch category {
	case "entire_home":
		return constants.RentalTypeEntireHome
	case "private_room":
		return constants.RentalTypePrivate
	case "shared_room":
		return constants.RentalTypeShared
	}
	return constants.RentalTypeOther
}

// MapCancellationPolicy dịch cancellation policy canonical sang channel
func MapCancellationPolicy(canonical string) string {
	if v, ok := cancellationPolicyMap[canonical]; ok {
		return v
	}
	return "flexible"
}

// UnmapCancellationPolicy dịch ngược cancellation policy
func UnmapCancellationPolicy(channel string) string {
	for canonical, ch := range cancellationPolicyMap {
		if ch == channel {
			return canonical
		}
	}
	return constants.CancellationRelaxed
}

// TranslateAmenities lọc cờ amenity theo enum của channel;
// cờ bật và nằm trong enum thành một entry trong list, sắp theo tên
// để payload ổn định giữa các lần đẩy.
func TranslateAmenities(a *models.BasicAmenities) []string {
	var out []string
	for name, enabled := range a.Flags() {
		if enabled && channelAmenities[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// TranslateHour dịch "HH:MM" sang giờ nguyên dạng chuỗi; rỗng thành FLEXIBLE
func TranslateHour(hhmm string) string {
	if hhmm == "" || strings.EqualFold(hhmm, "FLEXIBLE") {
		return "FLEXIBLE"
	}
	parts := strings.SplitN(hhmm, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "FLEXIBLE"
	}
	return strconv.Itoa(hour)
}

// ValidateCheckInWindow kiểm tra cửa sổ check-in >= 2h khi cả hai đầu là giờ số
func ValidateCheckInWindow(start, end string) error {
	s, e := TranslateHour(start), TranslateHour(end)
	if s == "FLEXIBLE" || e == "FLEXIBLE" {
		return nil
	}
	sh, _ := strconv.Atoi(s)
	eh, _ := strconv.Atoi(e)
	if eh-sh < 2 {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "Check in time window is not legal", nil)
	}
	return nil
}

// TranslateListing dựng payload listing-create/update từ property canonical
func TranslateListing(p *models.Property) *dto.AirbnbListing {
	typeCategory := MapPropertyType(p.PropertyType)
	listing := &dto.AirbnbListing{
		Name:                 p.Name,
		Bedrooms:             p.Bedrooms,
		Bathrooms:            p.Bathrooms,
		PersonCapacity:       p.MaxGuests,
		PropertyTypeCategory: typeCategory,
		RoomTypeCategory:     MapRentalType(p.RentalType),
		City:                 p.City,
		State:                p.State,
		Street:               p.Street,
		Apt:                  p.Apartment,
		Zipcode:              p.PostalCode,
		CountryCode:          p.Country,
		Lat:                  p.Latitude,
		Lng:                  p.Longitude,
		PermitOrTaxID:        p.PermitID,
	}
	if typeCategory != nil {
		listing.PropertyTypeGroup = PropertyTypeGroup(*typeCategory)
	}
	if p.BasicAmenities != nil {
		listing.AmenityCategories = TranslateAmenities(p.BasicAmenities)
	}
	return listing
}

// TranslateDescriptions dựng payload mô tả theo locale
func TranslateDescriptions(d *models.Descriptions, name string) *dto.AirbnbDescription {
	locale := d.Locale
	if locale == "" {
		locale = "en"
	}
	return &dto.AirbnbDescription{
		Locale:       locale,
		Name:         name,
		Summary:      d.Summary,
		Space:        d.Space,
		Access:       d.Access,
		Interaction:  d.Interaction,
		Neighborhood: d.Neighborhood,
		Transit:      d.Transit,
		Notes:        d.Notes,
		HouseRules:   d.HouseRules,
	}
}

// TranslateRooms dịch rooms: common room dùng room_number 0, còn lại 1..N;
// bed gom theo loại với quantity; phòng có bathrooms >= 1 mang en_suite_bathroom.
func TranslateRooms(externalID string, rooms []models.Room) []dto.AirbnbRoom {
	out := make([]dto.AirbnbRoom, 0, len(rooms))
	next := 1
	for _, room := range rooms {
		ar := dto.AirbnbRoom{
			ID:        room.ExternalID,
			ListingID: externalID,
			RoomType:  room.RoomType,
		}
		if room.RoomType == "common_space" {
			ar.RoomNumber = 0
		} else {
			ar.RoomNumber = next
			next++
		}

		byType := map[string]int{}
		order := []string{}
		for _, bed := range room.Beds {
			if _, seen := byType[bed.BedType]; !seen {
				order = append(order, bed.BedType)
			}
			byType[bed.BedType] += bed.Quantity
		}
		for _, bedType := range order {
			ar.Beds = append(ar.Beds, dto.AirbnbBed{Type: bedType, Quantity: byType[bedType]})
		}

		if room.Bathrooms >= 1 {
			ar.Amenities = append(ar.Amenities, dto.AirbnbRoomAmenity{Type: "en_suite_bathroom", Quantity: 1})
		}
		out = append(out, ar)
	}
	return out
}

// TranslatePhoto dịch một ảnh: body base64, MIME, caption, sort order.
// Ảnh đã có external id thì mang theo để update.
func TranslatePhoto(externalID string, img *models.Image, body []byte) dto.AirbnbPhoto {
	return dto.AirbnbPhoto{
		ID:          img.ExternalID,
		ListingID:   externalID,
		Image:       base64.StdEncoding.EncodeToString(body),
		ContentType: img.MimeType,
		Caption:     img.Caption,
		SortOrder:   img.SortOrder,
	}
}

// flatFeeScale là hệ số scale cho flat fee theo quy ước của Airbnb
const flatFeeScale = 1e6

// feeTypeMap dịch tên fee canonical sang fee_type của channel
var feeTypeMap = map[string]string{
	"Linen Fee":      "PASS_THROUGH_LINEN_FEE",
	"Resort Fee":     "PASS_THROUGH_RESORT_FEE",
	"Management Fee": "PASS_THROUGH_MANAGEMENT_FEE",
	"Community Fee":  "PASS_THROUGH_COMMUNITY_FEE",
	"Utility Fee":    "PASS_THROUGH_UTILITY_FEE",
}

// TranslateFees dịch fees cấu hình sang standard fees của channel.
// Percent emit amount_type=percent; flat emit amount_type=flat scale 10^6.
// Linen fee dạng percent không hợp lệ phía channel.
func TranslateFees(fees []models.AdditionalFee) ([]dto.AirbnbStandardFee, error) {
	var out []dto.AirbnbStandardFee
	for i := range fees {
		fee := fees[i]
		feeType, ok := feeTypeMap[fee.Name]
		if !ok {
			continue
		}
		if fee.IsPercent() {
			if feeType == "PASS_THROUGH_LINEN_FEE" {
				return nil, apperrors.NewAppError(apperrors.ErrCodeValidation,
					"Linen fee cannot be a percentage fee", nil)
			}
			out = append(out, dto.AirbnbStandardFee{
				FeeType:    feeType,
				AmountType: "percent",
				Amount:     fee.Value,
			})
			continue
		}
		chargeType := "PER_GROUP"
		if fee.CalculationMethod == constants.CalcPerPersonPerDay ||
			fee.CalculationMethod == constants.CalcPerPersonPerStay {
			chargeType = "PER_PERSON"
		}
		out = append(out, dto.AirbnbStandardFee{
			FeeType:    feeType,
			AmountType: "flat",
			Amount:     fee.Value * flatFeeScale,
			ChargeType: chargeType,
		})
	}
	return out, nil
}

// TranslatePricingSettings dựng pricing settings từ PricingSettings canonical
func TranslatePricingSettings(externalID string, ps *models.PricingSettings, fees []models.AdditionalFee) (*dto.AirbnbPricingSettings, error) {
	standardFees, err := TranslateFees(fees)
	if err != nil {
		return nil, err
	}
	out := &dto.AirbnbPricingSettings{
		ListingID:         externalID,
		DefaultDailyPrice: ps.Nightly,
		WeekendPrice:      ps.Weekend,
		PriceCurrency:     ps.Currency,
		CleaningFee:       ps.CleaningFee,
		GuestFee:          ps.ExtraPersonFee,
		SecurityDeposit:   ps.SecurityDeposit,
		StandardFees:      standardFees,
	}
	if ps.Nightly > 0 {
		if ps.Weekly > 0 {
			out.WeeklyPriceFactor = round4(ps.Weekly / (ps.Nightly * 7))
		}
		if ps.Monthly > 0 {
			out.MonthlyPriceFactor = round4(ps.Monthly / (ps.Nightly * 30))
		}
	}
	return out, nil
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}

// TranslateBookingSettings dựng booking settings; validate cửa sổ check-in
func TranslateBookingSettings(externalID string, bs *models.BookingSettings) (*dto.AirbnbBookingSettings, error) {
	if err := ValidateCheckInWindow(bs.CheckInStart, bs.CheckInEnd); err != nil {
		return nil, err
	}
	out := &dto.AirbnbBookingSettings{
		ListingID:          externalID,
		CheckInTimeStart:   TranslateHour(bs.CheckInStart),
		CheckInTimeEnd:     TranslateHour(bs.CheckInEnd),
		CancellationPolicy: MapCancellationPolicy(bs.CancellationPolicy),
	}
	if hour := TranslateHour(bs.CheckOutTime); hour != "FLEXIBLE" {
		h, _ := strconv.Atoi(hour)
		out.CheckOutTime = &h
	}
	if bs.InstantBooking {
		out.InstantBookingAllowedCategory = "everyone"
	} else {
		out.InstantBookingAllowedCategory = "off"
	}
	return out, nil
}

// allowedLeadTimeHours là tập advance-notice hợp lệ phía channel
var allowedLeadTimeHours = func() map[int]bool {
	allowed := map[int]bool{48: true, 72: true, 168: true}
	for h := 0; h <= 24; h++ {
		allowed[h] = true
	}
	return allowed
}()

// ValidateLeadTimeHours kiểm tra advance notice thuộc {0..24} ∪ {48, 72, 168}
func ValidateLeadTimeHours(hours int) error {
	if !allowedLeadTimeHours[hours] {
		return apperrors.NewAppError(apperrors.ErrCodeValidation,
			"Advanced notice value is not part of the allowed set", nil)
	}
	return nil
}

// TranslateAvailabilityRule dựng availability rule từ AvailabilitySettings canonical
func TranslateAvailabilityRule(externalID string, as *models.AvailabilitySettings) (*dto.AirbnbAvailabilityRule, error) {
	if err := ValidateLeadTimeHours(as.AdvanceNoticeHours); err != nil {
		return nil, err
	}
	rule := &dto.AirbnbAvailabilityRule{
		ListingID:        externalID,
		DefaultMinNights: as.MinNights,
		DefaultMaxNights: as.MaxNights,
		TurnoverDays:     as.PreparationDays,
		BookingLeadTime:  &dto.AirbnbBookingLeadTime{Hours: as.AdvanceNoticeHours},
	}
	if as.BookingWindowMonths > 0 {
		rule.MaxDaysNotice = &dto.AirbnbMaxDaysNotice{Days: as.BookingWindowMonths * 30}
	}
	for _, d := range parseWeekdaySet(as.CheckInDays) {
		rule.DayOfWeekCheckIn = append(rule.DayOfWeekCheckIn, dto.AirbnbDayOfWeekRule{DayOfWeek: d})
	}
	for _, d := range parseWeekdaySet(as.CheckOutDays) {
		rule.DayOfWeekCheckOut = append(rule.DayOfWeekCheckOut, dto.AirbnbDayOfWeekRule{DayOfWeek: d})
	}
	minByDay := parseWeekdayMinNights(as.MinNightsByWeekday)
	days := make([]int, 0, len(minByDay))
	for day := range minByDay {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		rule.DayOfWeekMinNights = append(rule.DayOfWeekMinNights,
			dto.AirbnbDayOfWeekMinNights{DayOfWeek: day, MinNights: minByDay[day]})
	}
	return rule, nil
}

// parseWeekdaySet đọc chuỗi "0123456" thành danh sách thứ
func parseWeekdaySet(s string) []int {
	var out []int
	for _, c := range s {
		if c >= '0' && c <= '6' {
			out = append(out, int(c-'0'))
		}
	}
	return out
}

// parseWeekdayMinNights đọc chuỗi "5:2,6:3" thành map thứ -> min nights
func parseWeekdayMinNights(s string) map[int]int {
	out := map[int]int{}
	if s == "" {
		return out
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		minNights, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil || day < 0 || day > 6 {
			continue
		}
		out[day] = minNights
	}
	return out
}

// parseMoney đọc chuỗi tiền "123.45" của channel, lỗi thì 0
func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
