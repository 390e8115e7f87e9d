package models

import (
	"fmt"
	"time"
)

// Rate là giá của property trên một khoảng ngày nửa mở [Lower, Upper).
// Với mỗi cặp (property, seasonal) các khoảng không được chồng lắp;
// việc chèn rate mới phải cắt/tách/xóa các rate chồng lắp (rate split).
type Rate struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PropertyID      uint      `json:"propertyId" gorm:"index"`
	Lower           time.Time `json:"lower" gorm:"type:date"`
	Upper           time.Time `json:"upper" gorm:"type:date"`
	Nightly         float64   `json:"nightly"`
	Weekend         float64   `json:"weekend"`
	Weekly          float64   `json:"weekly"`
	Monthly         float64   `json:"monthly"`
	ExtraPersonFee  float64   `json:"extraPersonFee"`
	CleaningFee     float64   `json:"cleaningFee"`
	SecurityDeposit float64   `json:"securityDeposit"`
	Currency        string    `json:"currency" gorm:"default:USD"`
	Seasonal        bool      `json:"seasonal"`
	Smart           bool      `json:"smart"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ValidateTimeFrame kiểm tra Upper > Lower
func (r *Rate) ValidateTimeFrame() error {
	if !r.Upper.After(r.Lower) {
		return fmt.Errorf("invalid time frame: upper %s must be after lower %s",
			r.Upper.Format("2006-01-02"), r.Lower.Format("2006-01-02"))
	}
	return nil
}

// Covers xét rate có phủ ngày day không (nửa mở)
func (r *Rate) Covers(day time.Time) bool {
	return !day.Before(r.Lower) && day.Before(r.Upper)
}

// Blocking là khoảng ngày property không nhận khách, nửa mở [Lower, Upper)
type Blocking struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"propertyId" gorm:"index"`
	Lower      time.Time `json:"lower" gorm:"type:date"`
	Upper      time.Time `json:"upper" gorm:"type:date"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Overlaps xét blocking có giao với [from, to) không
func (b *Blocking) Overlaps(from, to time.Time) bool {
	return b.Lower.Before(to) && from.Before(b.Upper)
}
