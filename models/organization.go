package models

import "time"

// Organization sở hữu các Property và các ChannelAccount
type Organization struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency" gorm:"default:USD"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// User tối giản, chỉ phục vụ audit và auth của operator API.
// Kind phân biệt vai trò thay cho subclass (owner / vendor / staff).
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organizationId"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // bcrypt hash
	Name           string    `json:"name"`
	Kind           string    `json:"kind" gorm:"default:owner"` // owner | vendor | staff
	Role           int       `json:"role" gorm:"default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CallContext mang org/user/request id xuyên suốt engine,
// thay cho mọi trạng thái ambient gắn theo request.
type CallContext struct {
	OrgID     uint
	UserID    uint
	RequestID string
}
