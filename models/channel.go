package models

import "time"

// ChannelAccount là credential OAuth của một (organization, channel)
type ChannelAccount struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organizationId" gorm:"index"`
	Channel        string    `json:"channel"` // airbnb | homeaway | ...
	UserID         string    `json:"userId"`  // user id phía channel
	AccessToken    string    `json:"-"`
	RefreshToken   string    `json:"-"`
	ExpiresAt      time.Time `json:"expiresAt"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	PictureURL     string    `json:"pictureUrl"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	ChannelSyncs []ChannelSync `json:"-" gorm:"foreignKey:ChannelAccountID;constraint:OnDelete:CASCADE"`
}

// ChannelSync là một dòng (property, channel, external listing id)
type ChannelSync struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	PropertyID       uint      `json:"propertyId" gorm:"index"`
	ChannelAccountID uint      `json:"channelAccountId" gorm:"index"`
	Channel          string    `json:"channel"`
	ExternalID       string    `json:"externalId" gorm:"index"`
	ApprovalStatus   string    `json:"approvalStatus" gorm:"default:new"`
	ListingStatus    string    `json:"listingStatus" gorm:"default:init"`
	Scope            string    `json:"scope" gorm:"default:sync_all"`
	SyncEnabled      bool      `json:"syncEnabled" gorm:"default:true"`
	AutoPushEnabled  bool      `json:"autoPushEnabled"`
	Notes            string    `json:"notes"` // diagnostics gần nhất (vd thiếu readiness)
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Property       Property       `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	ChannelAccount ChannelAccount `json:"-" gorm:"foreignKey:ChannelAccountID"`
	Logs           []SyncLog      `json:"logs" gorm:"foreignKey:ChannelSyncID;constraint:OnDelete:CASCADE"`
}

// SyncLog là event append-only của một ChannelSync
type SyncLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChannelSyncID uint      `json:"channelSyncId" gorm:"index"`
	Status        string    `json:"status"` // Synced | Syncing | Error
	Message       string    `json:"message"`
	Date          time.Time `gorm:"autoCreateTime" json:"date"`
}

// ExternalReservation là bóng của Reservation mang các field riêng của channel
type ExternalReservation struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	ReservationID      uint      `json:"reservationId" gorm:"uniqueIndex"`
	Channel            string    `json:"channel"`
	ConfirmationCode   string    `json:"confirmationCode" gorm:"index"`
	ThreadID           string    `json:"threadId"`
	HostFee            float64   `json:"hostFee"`
	CleaningFee        float64   `json:"cleaningFee"`
	PayoutAmount       float64   `json:"payoutAmount"`
	Locale             string    `json:"locale"`
	IsPreconfirmed     bool      `json:"isPreconfirmed"`
	RawPayload         []byte    `json:"-" gorm:"type:jsonb"` // payload gốc để audit
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Reservation Reservation `json:"-" gorm:"foreignKey:ReservationID"`
}

// RentalConnectionUnit nối một unit phía nguồn với property nội bộ
type RentalConnectionUnit struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	RentalConnectionID uint      `json:"rentalConnectionId" gorm:"index:idx_conn_unit,unique"`
	ExternalID         string    `json:"externalId" gorm:"index:idx_conn_unit,unique"`
	PropertyID         uint      `json:"propertyId" gorm:"index"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// RentalConnection là nguồn rental-connection ngoài Airbnb (Isi, Escapia, ...)
type RentalConnection struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organizationId" gorm:"index"`
	Kind           string    `json:"kind"` // isi | escapia
	Username       string    `json:"-"`
	Password       string    `json:"-"`
	BaseURL        string    `json:"baseUrl"`
	LastSyncedAt   time.Time `json:"lastSyncedAt"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
