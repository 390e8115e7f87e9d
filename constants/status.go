package constants

// Property status
const (
	PropertyStatusActive   = "Active"
	PropertyStatusDisabled = "Disabled"
	PropertyStatusArchived = "Archived"
	PropertyStatusDraft    = "Draft"
	PropertyStatusRemoved  = "Removed"
)

// Reservation status (trạng thái lưu trong DB)
const (
	ReservationStatusAccepted       = "Accepted"
	ReservationStatusCancelled      = "Cancelled"
	ReservationStatusDeclined       = "Declined"
	ReservationStatusInquiry        = "Inquiry"
	ReservationStatusInquiryBlocked = "Inquiry_Blocked"
	ReservationStatusRequest        = "Request"
)

// Dynamic status (trạng thái suy ra lúc đọc)
const (
	DynamicStatusReserved  = "Reserved"
	DynamicStatusPending   = "Pending"
	DynamicStatusInquiry   = "Inquiry"
	DynamicStatusExpired   = "Expired"
	DynamicStatusCancelled = "Cancelled"
	DynamicStatusRequest   = "Request"
)

// Reservation source
const (
	SourceApp         = "App"
	SourceWeb         = "Web"
	SourceAirbnb      = "Airbnb"
	SourceVRBO        = "VRBO"
	SourceBooking     = "Booking"
	SourceTripadvisor = "Tripadvisor"
	SourceHomeaway    = "Homeaway"
)

// Channel type
const (
	ChannelAirbnb      = "airbnb"
	ChannelHomeaway    = "homeaway"
	ChannelBooking     = "booking"
	ChannelTripadvisor = "tripadvisor"
	ChannelIsi         = "isi"
	ChannelEscapia     = "escapia"
)

// ChannelSync approval status
const (
	ApprovalStatusNew            = "new"
	ApprovalStatusReadyForReview = "ready_for_review"
	ApprovalStatusApproved       = "approved"
	ApprovalStatusRejected       = "rejected"
	ApprovalStatusNotReady       = "not_ready"
)

// ChannelSync listing status
const (
	ListingStatusInit          = "init"
	ListingStatusListed        = "listed"
	ListingStatusUnlisted      = "unlisted"
	ListingStatusFailedPublish = "failed_publish"
)

// Sync scope
const (
	ScopeSyncAll                  = "sync_all"
	ScopeSyncRatesAndAvailability = "sync_rates_and_availability"
	ScopeSyncUndecided            = "sync_undecided"
)

// SyncLog status
const (
	SyncLogSynced  = "Synced"
	SyncLogSyncing = "Syncing"
	SyncLogError   = "Error"
)

// Rental type
const (
	RentalTypeEntireHome = "Entire_Home"
	RentalTypePrivate    = "Private"
	RentalTypeShared     = "Shared"
	RentalTypeOther      = "Other"
)

// Cancellation policy
const (
	CancellationRelaxed  = "Relaxed"
	CancellationModerate = "Moderate"
	CancellationFirm     = "Firm"
	CancellationStrict   = "Strict"
)

// Fee / discount calculation methods
const (
	CalcPerStay                 = "Per_Stay"
	CalcDaily                   = "Daily"
	CalcPerPersonPerDay         = "Per_Person_Per_Day"
	CalcPerPersonPerStay        = "Per_Person_Per_Stay"
	CalcPerStayPercent          = "Per_Stay_Percent"
	CalcPerStayOnlyRatesPercent = "Per_Stay_Only_Rates_Percent"
	CalcPerStayNoTaxesPercent   = "Per_Stay_No_Taxes_Percent"
)

// Listing readiness error codes (điều kiện publish của từng channel)
const (
	ReadinessAmenities         = "AMENITIES"
	ReadinessMinPhoto          = "MIN_PHOTO"
	ReadinessMinHDPhoto        = "MIN_HD_PHOTO"
	ReadinessDescriptions      = "DESCRIPTIONS"
	ReadinessSTRLicense        = "STR_LICENSE"
	ReadinessCheckInTimeWindow = "CHECK_IN_TIME_WINDOW"
)

// Link actions
const (
	LinkActionImport = "import"
	LinkActionExport = "export"
	LinkActionLink   = "link"
	LinkActionUnlink = "unlink"
)

// Sync items cho reconcile thủ công
const (
	SyncItemAvailability = "availability"
	SyncItemContent      = "content"
	SyncItemPricing      = "pricing"
	SyncItemReservations = "reservations"
	SyncItemAll          = "all"
)
