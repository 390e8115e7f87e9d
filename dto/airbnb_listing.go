package dto

// AirbnbListing là payload listing phía Airbnb (cả hai chiều)
type AirbnbListing struct {
	ID                   string   `json:"id,omitempty"`
	Name                 string   `json:"name"`
	Bedrooms             float64  `json:"bedrooms"`
	Bathrooms            float64  `json:"bathrooms"`
	PersonCapacity       int      `json:"person_capacity"`
	PropertyTypeCategory *string  `json:"property_type_category"`
	PropertyTypeGroup    string   `json:"property_type_group,omitempty"`
	RoomTypeCategory     string   `json:"room_type_category"`
	City                 string   `json:"city"`
	State                string   `json:"state"`
	Street               string   `json:"street,omitempty"`
	Apt                  string   `json:"apt,omitempty"`
	Zipcode              string   `json:"zipcode,omitempty"`
	CountryCode          string   `json:"country_code"`
	Lat                  float64  `json:"lat"`
	Lng                  float64  `json:"lng"`
	ListingPrice         float64  `json:"listing_price,omitempty"`
	ListingCurrency      string   `json:"listing_currency,omitempty"`
	AmenityCategories    []string `json:"amenity_categories,omitempty"`
	PermitOrTaxID        string   `json:"permit_or_tax_id,omitempty"`
	HasAvailability      bool     `json:"has_availability,omitempty"`
	RequestedApprovalStatusCategory string `json:"requested_approval_status_category,omitempty"`
}

// AirbnbListingResponse bọc một listing trong response của Airbnb
type AirbnbListingResponse struct {
	Listing AirbnbListing `json:"listing"`
}

// AirbnbListingList là trang kết quả của GET /listings
type AirbnbListingList struct {
	Listings []AirbnbListing `json:"listings"`
	Paging   struct {
		TotalCount int `json:"total_count"`
		Limit      int `json:"limit"`
		Offset     int `json:"offset"`
	} `json:"paging,omitempty"`
}

// AirbnbDescription là mô tả listing theo locale
type AirbnbDescription struct {
	Locale       string `json:"locale"`
	Name         string `json:"name,omitempty"`
	Summary      string `json:"summary"`
	Space        string `json:"space"`
	Access       string `json:"access"`
	Interaction  string `json:"interaction"`
	Neighborhood string `json:"neighborhood_overview"`
	Transit      string `json:"transit"`
	Notes        string `json:"notes"`
	HouseRules   string `json:"house_rules"`
}

// AirbnbRoom là room descriptor phía channel
type AirbnbRoom struct {
	ID         string          `json:"id,omitempty"`
	ListingID  string          `json:"listing_id"`
	RoomNumber int             `json:"room_number"` // 0 = common space
	RoomType   string          `json:"room_type"`
	Beds       []AirbnbBed     `json:"beds"`
	Amenities  []AirbnbRoomAmenity `json:"room_amenities,omitempty"`
}

// AirbnbBed là nhóm giường cùng loại
type AirbnbBed struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// AirbnbRoomAmenity là tiện nghi mức phòng (vd en_suite_bathroom)
type AirbnbRoomAmenity struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// AirbnbPhoto là ảnh gửi lên channel, body base64
type AirbnbPhoto struct {
	ID        string `json:"id,omitempty"`
	ListingID string `json:"listing_id"`
	Image     string `json:"image"` // base64
	ContentType string `json:"content_type"`
	Caption   string `json:"caption,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// AirbnbPricingSettings là pricing settings phía channel
type AirbnbPricingSettings struct {
	ListingID              string              `json:"listing_id,omitempty"`
	DefaultDailyPrice      float64             `json:"default_daily_price"`
	WeekendPrice           float64             `json:"weekend_price,omitempty"`
	PriceCurrency          string              `json:"listing_currency"`
	CleaningFee            float64             `json:"cleaning_fee,omitempty"`
	GuestFee               float64             `json:"price_per_extra_person,omitempty"`
	SecurityDeposit        float64             `json:"security_deposit,omitempty"`
	WeeklyPriceFactor      float64             `json:"weekly_price_factor,omitempty"`
	MonthlyPriceFactor     float64             `json:"monthly_price_factor,omitempty"`
	StandardFees           []AirbnbStandardFee `json:"standard_fees,omitempty"`
}

// AirbnbStandardFee là standard fee phía channel.
// Flat scale theo 10^6 (micros), percent giữ nguyên.
type AirbnbStandardFee struct {
	FeeType    string  `json:"fee_type"`
	AmountType string  `json:"amount_type"` // percent | flat
	Amount     float64 `json:"amount"`
	ChargeType string  `json:"charge_type,omitempty"` // PER_GROUP | PER_PERSON
}

// AirbnbBookingSettings là booking settings phía channel
type AirbnbBookingSettings struct {
	ListingID            string `json:"listing_id,omitempty"`
	CheckInTimeStart     string `json:"check_in_time_start"` // giờ dạng chuỗi hoặc "FLEXIBLE"
	CheckInTimeEnd       string `json:"check_in_time_end"`
	CheckOutTime         *int   `json:"check_out_time"`
	InstantBookingAllowedCategory string `json:"instant_booking_allowed_category,omitempty"`
	CancellationPolicy  string `json:"cancellation_policy_category,omitempty"`
}

// AirbnbAvailabilityRule là availability rule phía channel
type AirbnbAvailabilityRule struct {
	ListingID          string                `json:"listing_id,omitempty"`
	DefaultMinNights   int                   `json:"default_min_nights"`
	DefaultMaxNights   int                   `json:"default_max_nights,omitempty"`
	TurnoverDays       int                   `json:"turnover_days,omitempty"`
	BookingLeadTime    *AirbnbBookingLeadTime `json:"booking_lead_time,omitempty"`
	MaxDaysNotice      *AirbnbMaxDaysNotice  `json:"max_days_notice,omitempty"`
	DayOfWeekCheckIn   []AirbnbDayOfWeekRule `json:"day_of_week_check_in,omitempty"`
	DayOfWeekCheckOut  []AirbnbDayOfWeekRule `json:"day_of_week_check_out,omitempty"`
	DayOfWeekMinNights []AirbnbDayOfWeekMinNights `json:"day_of_week_min_nights,omitempty"`
}

// AirbnbBookingLeadTime là advance notice (giờ)
type AirbnbBookingLeadTime struct {
	Hours int `json:"hours"`
}

// AirbnbMaxDaysNotice là booking window (ngày)
type AirbnbMaxDaysNotice struct {
	Days int `json:"days"`
}

// AirbnbDayOfWeekRule là rule theo thứ (0 = chủ nhật)
type AirbnbDayOfWeekRule struct {
	DayOfWeek int `json:"day_of_week"`
}

// AirbnbDayOfWeekMinNights là min nights theo thứ
type AirbnbDayOfWeekMinNights struct {
	DayOfWeek int `json:"day_of_week"`
	MinNights int `json:"min_nights"`
}

// AirbnbCalendarOperation là một dòng trong calendar_operations
type AirbnbCalendarOperation struct {
	Dates        string `json:"dates"` // "YYYY-MM-DD" hoặc "YYYY-MM-DD:YYYY-MM-DD"
	Availability string `json:"availability"` // available | unavailable
	DailyPrice   float64 `json:"daily_price,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// AirbnbCalendarOperationsRequest là body của PUT /calendar_operations
type AirbnbCalendarOperationsRequest struct {
	ListingID  string                    `json:"listing_id"`
	Operations []AirbnbCalendarOperation `json:"operations"`
}
