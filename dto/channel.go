package dto

import "time"

// LinkRequest là request cho các link-action import/export/link/unlink
type LinkRequest struct {
	Action           string `json:"action" binding:"required,oneof=import export link unlink"`
	PropertyID       uint   `json:"propertyId"`
	ExternalID       string `json:"externalId"`
	ChannelAccountID uint   `json:"channelAccountId" binding:"required"`
}

// SyncRequest là request reconcile thủ công cho một property
type SyncRequest struct {
	PropertyID uint     `json:"propertyId" binding:"required"`
	SyncItems  []string `json:"syncItems" binding:"required,dive,oneof=availability content pricing reservations all"`
}

// ChannelSyncView là view trả về sau link-action
type ChannelSyncView struct {
	ID             uint      `json:"id"`
	PropertyID     uint      `json:"propertyId"`
	Channel        string    `json:"channel"`
	ExternalID     string    `json:"externalId"`
	ApprovalStatus string    `json:"approvalStatus"`
	ListingStatus  string    `json:"listingStatus"`
	Scope          string    `json:"scope"`
	SyncEnabled    bool      `json:"syncEnabled"`
	Notes          string    `json:"notes,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RemoteListingSummary là một entry trong kết quả fetch:
// inventory phía channel trừ những external_id đã link.
type RemoteListingSummary struct {
	ExternalID   string  `json:"externalId"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	CountryCode  string  `json:"countryCode"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Listed       bool    `json:"listed"`
	SyncCategory string  `json:"syncCategory"`
	// gợi ý property canonical khớp nhất theo tên/địa chỉ
	SuggestedPropertyID *uint  `json:"suggestedPropertyId,omitempty"`
	SuggestedName       string `json:"suggestedName,omitempty"`
}

// RateRequest là request tạo rate mới
type RateRequest struct {
	PropertyID      uint    `json:"propertyId" binding:"required"`
	Lower           string  `json:"lower" binding:"required,dateonly"` // YYYY-MM-DD
	Upper           string  `json:"upper" binding:"required,dateonly"`
	Nightly         float64 `json:"nightly"`
	Weekend         float64 `json:"weekend"`
	Weekly          float64 `json:"weekly"`
	Monthly         float64 `json:"monthly"`
	ExtraPersonFee  float64 `json:"extraPersonFee"`
	CleaningFee     float64 `json:"cleaningFee"`
	SecurityDeposit float64 `json:"securityDeposit"`
	Currency        string  `json:"currency"`
	Seasonal        bool    `json:"seasonal"`
	Smart           bool    `json:"smart"`
}

// BlockingRequest là request tạo blocking mới
type BlockingRequest struct {
	PropertyID uint   `json:"propertyId" binding:"required"`
	Lower      string `json:"lower" binding:"required,dateonly"`
	Upper      string `json:"upper" binding:"required,dateonly"`
	Summary    string `json:"summary"`
}

// SyncLogView là một dòng SyncLog broadcast qua websocket
type SyncLogView struct {
	ChannelSyncID uint      `json:"channelSyncId"`
	PropertyID    uint      `json:"propertyId"`
	Channel       string    `json:"channel"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	Date          time.Time `json:"date"`
}
