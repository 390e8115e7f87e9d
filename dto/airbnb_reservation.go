package dto

// AirbnbReservation là payload reservation phía Airbnb
type AirbnbReservation struct {
	ConfirmationCode   string  `json:"confirmation_code"`
	ListingID          string  `json:"listing_id"`
	StartDate          string  `json:"start_date"` // YYYY-MM-DD
	EndDate            string  `json:"end_date"`   // exclusive phía canonical, inclusive checkout phía channel
	Nights             int     `json:"nights"`
	StatusType         string  `json:"status_type"` // new | accept | deny | pending | ...
	NumberOfGuests     int     `json:"number_of_guests"`
	NumberOfAdults     int     `json:"number_of_adults"`
	NumberOfChildren   int     `json:"number_of_children"`
	NumberOfInfants    int     `json:"number_of_infants"`
	NumberOfPets       int     `json:"number_of_pets"`
	ExpectedPayoutAmountAccurate string `json:"expected_payout_amount_accurate"`
	ListingBasePriceAccurate     string `json:"listing_base_price_accurate"`
	HostFeeBaseAccurate          string `json:"host_fee_base_accurate"`
	ListingCleaningFeeAccurate   string `json:"listing_cleaning_fee_accurate"`
	ListingSecurityPriceAccurate string `json:"listing_security_price_accurate"`
	TotalPaidAmountAccurate      string `json:"total_paid_amount_accurate"`
	NightlyBasePriceAccurate     string `json:"nightly_base_price_accurate"`
	CancellationPolicyCategory   string `json:"cancellation_policy_category"`
	ThreadID           string  `json:"thread_id"`
	Guest              *AirbnbGuest `json:"guest_details,omitempty"`
	GuestEmail         string  `json:"guest_email"`
	GuestFirstName     string  `json:"guest_first_name"`
	GuestLastName      string  `json:"guest_last_name"`
	GuestPhoneNumbers  []string `json:"guest_phone_numbers,omitempty"`
	GuestPreferredLocale string `json:"guest_preferred_locale"`
	StandardFeesDetails []AirbnbFeeDetail `json:"standard_fees_details,omitempty"`
	TransientOccupancyTaxDetails []AirbnbTaxDetail `json:"transient_occupancy_tax_details,omitempty"`
	IsPreconfirmed     bool    `json:"is_preconfirmed,omitempty"`
}

// AirbnbGuest là chi tiết khách trong reservation
type AirbnbGuest struct {
	NumberOfAdults   int    `json:"number_of_adults"`
	NumberOfChildren int    `json:"number_of_children"`
	NumberOfInfants  int    `json:"number_of_infants"`
	LocalizedDescription string `json:"localized_description,omitempty"`
}

// AirbnbFeeDetail là chi tiết một standard fee trong reservation
type AirbnbFeeDetail struct {
	FeeType        string `json:"fee_type"`
	AmountNative   string `json:"amount_native_accurate"`
}

// AirbnbTaxDetail là chi tiết một khoản transient occupancy tax
type AirbnbTaxDetail struct {
	Name           string `json:"name"`
	AmountAccurate string `json:"amount_accurate"`
}

// AirbnbReservationResponse bọc reservation trong response
type AirbnbReservationResponse struct {
	Reservation AirbnbReservation `json:"reservation"`
}

// AirbnbReservationList là trang kết quả của GET /reservations
type AirbnbReservationList struct {
	Reservations []AirbnbReservation `json:"reservations"`
}

// AirbnbThread là message thread phía channel
type AirbnbThread struct {
	ID       string          `json:"id"`
	Messages []AirbnbMessage `json:"messages,omitempty"`
}

// AirbnbMessage là một tin nhắn phía channel
type AirbnbMessage struct {
	ID          string `json:"id"`
	ThreadID    string `json:"thread_id,omitempty"`
	Message     string `json:"message"`
	UserID      string `json:"user_id,omitempty"`
	Role        string `json:"role"` // owner | cohost | guest | booker
	CreatedAt   string `json:"created_at"`
}

// AirbnbTokenResponse là response của refresh/issue token
type AirbnbTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// AirbnbUser là response của GET /users/me
type AirbnbUser struct {
	User struct {
		ID         string `json:"id"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		PictureURL string `json:"picture_url"`
	} `json:"user"`
}
