package builders

import (
	"time"

	"rentalsync/models"
)

// ReservationBuilder giúp tạo reservation theo từng bước
type ReservationBuilder struct {
	reservation *models.Reservation
}

// NewReservationBuilder tạo instance mới của ReservationBuilder
func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		reservation: &models.Reservation{},
	}
}

// WithProperty thêm property
func (b *ReservationBuilder) WithProperty(propertyID uint) *ReservationBuilder {
	b.reservation.PropertyID = propertyID
	return b
}

// WithContact thêm contact của khách
func (b *ReservationBuilder) WithContact(contactID uint) *ReservationBuilder {
	b.reservation.ContactID = &contactID
	return b
}

// WithDates thêm khoảng ngày [checkIn, checkOut)
func (b *ReservationBuilder) WithDates(checkIn, checkOut time.Time) *ReservationBuilder {
	b.reservation.StartDate = checkIn
	b.reservation.EndDate = checkOut
	return b
}

// WithStatus thêm trạng thái
func (b *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	b.reservation.Status = status
	return b
}

// WithSource thêm nguồn của reservation
func (b *ReservationBuilder) WithSource(source string) *ReservationBuilder {
	b.reservation.Source = source
	return b
}

// WithGuests thêm số khách
func (b *ReservationBuilder) WithGuests(adults, children, infants, pets int) *ReservationBuilder {
	b.reservation.Adults = adults
	b.reservation.Children = children
	b.reservation.Infants = infants
	b.reservation.Pets = pets
	return b
}

// WithPrice thêm tổng giá
func (b *ReservationBuilder) WithPrice(price float64) *ReservationBuilder {
	b.reservation.Price = price
	return b
}

// WithCancellationPolicy thêm chính sách hủy
func (b *ReservationBuilder) WithCancellationPolicy(policy string) *ReservationBuilder {
	b.reservation.CancellationPolicy = policy
	return b
}

// Build tạo reservation hoàn chỉnh
func (b *ReservationBuilder) Build() *models.Reservation {
	return b.reservation
}
