package models

import "time"

// Room là một phòng của property. Common room dùng RoomNumber 0,
// các phòng còn lại đánh số 1..N khi dịch sang channel.
type Room struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PropertyID  uint      `json:"propertyId"`
	Name        string    `json:"name"`
	RoomType    string    `json:"roomType" gorm:"default:bedroom"` // bedroom | common_space
	Bathrooms   float64   `json:"bathrooms"`
	ExternalID  string    `json:"externalId"` // id phía channel nếu đã push
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Beds []Bed `json:"beds" gorm:"foreignKey:RoomID"`
}

// Bed là một nhóm giường cùng loại trong phòng
type Bed struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	RoomID   uint   `json:"roomId"`
	BedType  string `json:"bedType"` // king_bed | queen_bed | double_bed | single_bed | sofa_bed | couch | air_mattress | bunk_bed | floor_mattress | toddler_bed | crib | water_bed | hammock
	Quantity int    `json:"quantity" gorm:"default:1"`
}

// Image là ảnh của property
type Image struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"propertyId"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption"`
	SortOrder  int       `json:"sortOrder"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	MimeType   string    `json:"mimeType" gorm:"default:image/jpeg"`
	ExternalID string    `json:"externalId"` // id ảnh phía channel nếu đã push
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// IsHD xét ảnh đạt chuẩn HD theo yêu cầu của channel (>= 800x500)
func (i *Image) IsHD() bool {
	return i.Width >= 800 && i.Height >= 500
}

// Video là video của property
type Video struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"propertyId"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
