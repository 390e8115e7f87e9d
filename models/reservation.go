package models

import (
	"fmt"
	"time"

	"rentalsync/constants"
)

// Reservation là khai báo lưu trú canonical, khoảng nửa mở [StartDate, EndDate)
type Reservation struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	PropertyID         uint       `json:"propertyId" gorm:"index"`
	ContactID          *uint      `json:"contactId"`
	StartDate          time.Time  `json:"startDate" gorm:"type:date"`
	EndDate            time.Time  `json:"endDate" gorm:"type:date"`
	Status             string     `json:"status" gorm:"default:Inquiry"`
	Source             string     `json:"source" gorm:"default:App"`
	Adults             int        `json:"adults" gorm:"default:1"`
	Children           int        `json:"children"`
	Infants            int        `json:"infants"`
	Pets               int        `json:"pets"`
	Price              float64    `json:"price"`
	PaidAmount         float64    `json:"paidAmount"`
	BaseTotal          float64    `json:"baseTotal"`
	ConfirmationCode   *string    `json:"confirmationCode" gorm:"uniqueIndex"` // 12 ký tự hex hoa, duy nhất toàn cục
	Expiration         *time.Time `json:"expiration"`                          // chỉ set cho nhóm inquiry
	CancellationPolicy string     `json:"cancellationPolicy"`
	CancellationReason string     `json:"cancellationReason"`
	RefundDepositAfter int        `json:"refundDepositAfter" gorm:"default:14"` // số ngày sau checkout
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	Contact   *Contact              `json:"contact" gorm:"foreignKey:ContactID"`
	Fees      []ReservationFee      `json:"fees" gorm:"foreignKey:ReservationID"`
	Discounts []ReservationDiscount `json:"discounts" gorm:"foreignKey:ReservationID"`
	Rates     []ReservationRate     `json:"rates" gorm:"foreignKey:ReservationID"`
	Refunds   []ReservationRefund   `json:"refunds" gorm:"foreignKey:ReservationID"`
}

// ValidateDates kiểm tra EndDate > StartDate
func (r *Reservation) ValidateDates() error {
	if !r.EndDate.After(r.StartDate) {
		return fmt.Errorf("end date %s must be after start date %s",
			r.EndDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	return nil
}

// Nights trả về số đêm của reservation
func (r *Reservation) Nights() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

// Guests trả về tổng số khách tính phí (không gồm infants)
func (r *Reservation) Guests() int {
	return r.Adults + r.Children
}

// Overlaps xét reservation có giao với [from, to) không
func (r *Reservation) Overlaps(from, to time.Time) bool {
	return r.StartDate.Before(to) && from.Before(r.EndDate)
}

// BlocksCalendar xét reservation có chặn lịch không (theo dynamic status)
func (r *Reservation) BlocksCalendar(now time.Time) bool {
	switch r.DynamicStatus(now) {
	case constants.DynamicStatusReserved, constants.DynamicStatusPending,
		constants.DynamicStatusRequest:
		return true
	}
	return false
}

// ReservationRate là dòng giá (số đêm x giá đêm) gắn vào reservation
type ReservationRate struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	ReservationID uint    `json:"reservationId" gorm:"index"`
	Name          string  `json:"name"`
	Nights        int     `json:"nights"`
	Nightly       float64 `json:"nightly"`
	Amount        float64 `json:"amount"`
}

// ReservationFee là một khoản phí gắn vào reservation
type ReservationFee struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	ReservationID     uint    `json:"reservationId" gorm:"index"`
	Name              string  `json:"name"`
	Value             float64 `json:"value"`  // giá trị cấu hình (flat hoặc phần trăm)
	Amount            float64 `json:"amount"` // số tiền đã tính
	CalculationMethod string  `json:"calculationMethod" gorm:"default:Per_Stay"`
	Taxable           bool    `json:"taxable"`
	Refundable        bool    `json:"refundable"`
	Refunded          bool    `json:"refunded"`
}

// ReservationDiscount là một khoản giảm giá gắn vào reservation
type ReservationDiscount struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	ReservationID     uint    `json:"reservationId" gorm:"index"`
	Name              string  `json:"name"`
	Value             float64 `json:"value"`
	Amount            float64 `json:"amount"`
	CalculationMethod string  `json:"calculationMethod" gorm:"default:Per_Stay"`
}

// ReservationRefund là một khoản đã hoàn cho khách
type ReservationRefund struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ReservationID uint      `json:"reservationId" gorm:"index"`
	Amount        float64   `json:"amount"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// AdditionalFee là phí cấu hình ở mức property
type AdditionalFee struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	PropertyID        uint    `json:"propertyId" gorm:"index"`
	Name              string  `json:"name"`
	Value             float64 `json:"value"`
	CalculationMethod string  `json:"calculationMethod" gorm:"default:Per_Stay"`
	Taxable           bool    `json:"taxable"`
	Optional          bool    `json:"optional"`
}

// IsPercent xét phí có phải loại phần trăm không
func (f *AdditionalFee) IsPercent() bool {
	switch f.CalculationMethod {
	case constants.CalcPerStayPercent, constants.CalcPerStayOnlyRatesPercent,
		constants.CalcPerStayNoTaxesPercent:
		return true
	}
	return false
}

// Discount là giảm giá cấu hình ở mức property
type Discount struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	PropertyID        uint    `json:"propertyId" gorm:"index"`
	Name              string  `json:"name"`
	Value             float64 `json:"value"`
	CalculationMethod string  `json:"calculationMethod" gorm:"default:Per_Stay"`
	MinNights         int     `json:"minNights"`
}
