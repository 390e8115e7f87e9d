package models

import "time"

// Contact là khách/guest, dedup theo (organization, email)
type Contact struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	OrganizationID  uint      `json:"organizationId" gorm:"index:idx_contact_org_email,unique"`
	Email           string    `json:"email" gorm:"index:idx_contact_org_email,unique"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone"`
	PreferredLocale string    `json:"preferredLocale"`
	PictureURL      string    `json:"pictureUrl"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Conversation là hội thoại gắn với một reservation (thread phía channel)
type Conversation struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ReservationID uint      `json:"reservationId" gorm:"uniqueIndex"`
	ThreadID      string    `json:"threadId" gorm:"index"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Messages []Message `json:"messages" gorm:"foreignKey:ConversationID"`
}

// Message là một tin nhắn trong conversation, idempotent theo ExternalID
type Message struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	ConversationID      uint      `json:"conversationId" gorm:"index:idx_msg_conv_ext,unique"`
	ExternalID          string    `json:"externalId" gorm:"index:idx_msg_conv_ext,unique"`
	Body                string    `json:"body"`
	Sender              string    `json:"sender"`
	Recipient           string    `json:"recipient"`
	Outgoing            bool      `json:"outgoing"` // owner/cohost => true, guest/booker => false
	DeliveryStatus      string    `json:"deliveryStatus" gorm:"default:delivered"`
	ExternalDateCreated time.Time `json:"externalDateCreated"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Calendar là nguồn iCal ngoài gắn với property
type Calendar struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"propertyId" gorm:"index"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Events []ExternalCalendarEvent `json:"events" gorm:"foreignKey:CalendarID"`
}

// ExternalCalendarEvent là một event đã parse từ iCal feed
type ExternalCalendarEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CalendarID uint      `json:"calendarId" gorm:"index"`
	UID        string    `json:"uid"`
	Summary    string    `json:"summary"`
	Start      time.Time `json:"start" gorm:"type:date"`
	End        time.Time `json:"end" gorm:"type:date"`
}

// Overlaps xét event có giao với [from, to) không
func (e *ExternalCalendarEvent) Overlaps(from, to time.Time) bool {
	return e.Start.Before(to) && from.Before(e.End)
}
