package models

import (
	"fmt"
	"time"

	"rentalsync/constants"
)

// Property là bản ghi canonical của một rental
type Property struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organizationId"`
	Name           string    `json:"name"`
	PropertyType   string    `json:"propertyType"` // House, Condo, Bed_And_Breakfast, ...
	RentalType     string    `json:"rentalType"`   // Entire_Home | Private | Shared | Other
	Bedrooms       float64   `json:"bedrooms"`     // cho phép nửa đơn vị (0.5)
	Bathrooms      float64   `json:"bathrooms"`
	MaxGuests      int       `json:"maxGuests"`
	Country        string    `json:"country"`
	State          string    `json:"state"`
	City           string    `json:"city"`
	Street         string    `json:"street"`
	Apartment      string    `json:"apartment"`
	PostalCode     string    `json:"postalCode"`
	Latitude       float64   `json:"latitude"`  // 6 chữ số thập phân
	Longitude      float64   `json:"longitude"` // 6 chữ số thập phân
	Status         string    `json:"status" gorm:"default:Draft"`
	PermitID       string    `json:"permitId"` // giấy phép STR / mã số thuế nếu có
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Organization Organization `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`

	Descriptions         *Descriptions         `json:"descriptions" gorm:"foreignKey:PropertyID"`
	BookingSettings      *BookingSettings      `json:"bookingSettings" gorm:"foreignKey:PropertyID"`
	PricingSettings      *PricingSettings      `json:"pricingSettings" gorm:"foreignKey:PropertyID"`
	AvailabilitySettings *AvailabilitySettings `json:"availabilitySettings" gorm:"foreignKey:PropertyID"`
	BasicAmenities       *BasicAmenities       `json:"basicAmenities" gorm:"foreignKey:PropertyID"`
	Suitability          *Suitability          `json:"suitability" gorm:"foreignKey:PropertyID"`

	Images       []Image         `json:"images" gorm:"foreignKey:PropertyID"`
	Videos       []Video         `json:"videos" gorm:"foreignKey:PropertyID"`
	Rooms        []Room          `json:"rooms" gorm:"foreignKey:PropertyID"`
	Fees         []AdditionalFee `json:"fees" gorm:"foreignKey:PropertyID"`
	Discounts    []Discount      `json:"discounts" gorm:"foreignKey:PropertyID"`
	Rates        []Rate          `json:"rates" gorm:"foreignKey:PropertyID"`
	Reservations []Reservation   `json:"-" gorm:"foreignKey:PropertyID"`
	Blockings    []Blocking      `json:"blockings" gorm:"foreignKey:PropertyID"`
	ChannelSyncs []ChannelSync   `json:"channelSyncs" gorm:"foreignKey:PropertyID"`
}

// ValidateStatus kiểm tra status hợp lệ
func (p *Property) ValidateStatus() error {
	switch p.Status {
	case constants.PropertyStatusActive, constants.PropertyStatusDisabled,
		constants.PropertyStatusArchived, constants.PropertyStatusDraft,
		constants.PropertyStatusRemoved:
		return nil
	}
	return fmt.Errorf("invalid status: %s", p.Status)
}

// Descriptions là các mô tả của property
type Descriptions struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	PropertyID    uint   `json:"propertyId" gorm:"uniqueIndex"`
	Summary       string `json:"summary"`
	Space         string `json:"space"`
	Access        string `json:"access"`
	Interaction   string `json:"interaction"`
	Neighborhood  string `json:"neighborhood"`
	Transit       string `json:"transit"`
	Notes         string `json:"notes"`
	HouseRules    string `json:"houseRules"`
	Locale        string `json:"locale" gorm:"default:en"`
}

// CombinedLength trả về tổng độ dài các mô tả (dùng cho listing readiness)
func (d *Descriptions) CombinedLength() int {
	if d == nil {
		return 0
	}
	return len(d.Summary) + len(d.Space) + len(d.Access) + len(d.Interaction) +
		len(d.Neighborhood) + len(d.Transit) + len(d.Notes) + len(d.HouseRules)
}

// BookingSettings là cấu hình đặt chỗ của property
type BookingSettings struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	PropertyID         uint   `json:"propertyId" gorm:"uniqueIndex"`
	CheckInStart       string `json:"checkInStart"`  // "HH:MM" hoặc "FLEXIBLE"
	CheckInEnd         string `json:"checkInEnd"`    // "HH:MM" hoặc "FLEXIBLE"
	CheckOutTime       string `json:"checkOutTime"`  // "HH:MM"
	InstantBooking     bool   `json:"instantBooking"`
	CancellationPolicy string `json:"cancellationPolicy" gorm:"default:Relaxed"`
}

// PricingSettings là giá mặc định khi không có Rate nào phủ ngày đó
type PricingSettings struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	PropertyID      uint    `json:"propertyId" gorm:"uniqueIndex"`
	Nightly         float64 `json:"nightly"`
	Weekend         float64 `json:"weekend"`
	Weekly          float64 `json:"weekly"`
	Monthly         float64 `json:"monthly"`
	ExtraPersonFee  float64 `json:"extraPersonFee"`
	CleaningFee     float64 `json:"cleaningFee"`
	SecurityDeposit float64 `json:"securityDeposit"`
	Currency        string  `json:"currency" gorm:"default:USD"`
}

// AvailabilitySettings là ràng buộc lưu trú mặc định
type AvailabilitySettings struct {
	ID                  uint   `json:"id" gorm:"primaryKey"`
	PropertyID          uint   `json:"propertyId" gorm:"uniqueIndex"`
	MinNights           int    `json:"minNights" gorm:"default:1"`
	MaxNights           int    `json:"maxNights"`
	PreparationDays     int    `json:"preparationDays"`
	AdvanceNoticeHours  int    `json:"advanceNoticeHours"`
	CheckInDays         string `json:"checkInDays" gorm:"default:0123456"`  // các thứ cho phép check-in, 0=CN
	CheckOutDays        string `json:"checkOutDays" gorm:"default:0123456"` // các thứ cho phép check-out
	MinNightsByWeekday  string `json:"minNightsByWeekday"`                  // "5:2,6:2" => thứ sáu/bảy tối thiểu 2 đêm
	BookingWindowMonths int    `json:"bookingWindowMonths"`
}

// Suitability mô tả đối tượng phù hợp
type Suitability struct {
	ID              uint `json:"id" gorm:"primaryKey"`
	PropertyID      uint `json:"propertyId" gorm:"uniqueIndex"`
	ChildrenAllowed bool `json:"childrenAllowed"`
	InfantsAllowed  bool `json:"infantsAllowed"`
	PetsAllowed     bool `json:"petsAllowed"`
	SmokingAllowed  bool `json:"smokingAllowed"`
	EventsAllowed   bool `json:"eventsAllowed"`
}
