package dto

// WebhookEvent là envelope của mọi notification inbound.
// Action quyết định handler; các field còn lại tùy action mà có mặt.
type WebhookEvent struct {
	Action                string             `json:"action" binding:"required"`
	ListingID             string             `json:"listing_id"`
	ListingIDs            []string           `json:"listing_ids"`
	HostID                string             `json:"host_id"`
	StartDate             string             `json:"start_date"` // YYYY-MM-DD
	Nights                int                `json:"nights"`
	ConfirmationCode      string             `json:"confirmation_code"`
	Reservation           *AirbnbReservation `json:"reservation"`
	Thread                *AirbnbThread      `json:"thread"`
	Message               *AirbnbMessage     `json:"message"`
	ListingApprovalStatus string             `json:"listing_approval_status"`
	ApprovalNotes         []string           `json:"notes"`
	Updates               *SyncSettingsUpdate `json:"updates"`
}

// SyncSettingsUpdate là payload của listing_synchronization_settings_updated
type SyncSettingsUpdate struct {
	SynchronizationCategory string `json:"synchronization_category"` // sync_all | sync_rates_and_availability | sync_undecided
}
