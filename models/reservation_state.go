package models

import (
	"errors"
	"time"

	"rentalsync/constants"
)

// DynamicStatus suy ra trạng thái hiển thị từ status đã lưu + expiration + now (UTC)
func (r *Reservation) DynamicStatus(now time.Time) string {
	now = now.UTC()
	switch r.Status {
	case constants.ReservationStatusAccepted:
		return constants.DynamicStatusReserved
	case constants.ReservationStatusInquiryBlocked:
		if r.expired(now) {
			return constants.DynamicStatusExpired
		}
		return constants.DynamicStatusPending
	case constants.ReservationStatusInquiry:
		if r.expired(now) {
			return constants.DynamicStatusExpired
		}
		return constants.DynamicStatusInquiry
	case constants.ReservationStatusCancelled, constants.ReservationStatusDeclined:
		return constants.DynamicStatusCancelled
	case constants.ReservationStatusRequest:
		return constants.DynamicStatusRequest
	}
	return constants.DynamicStatusInquiry
}

func (r *Reservation) expired(now time.Time) bool {
	return r.Expiration != nil && r.Expiration.Before(now)
}

// ReservationState định nghĩa interface cho các trạng thái reservation
type ReservationState interface {
	Accept(res *Reservation) error
	Decline(res *Reservation) error
	Cancel(res *Reservation, reason string) error
}

// InquiryState trạng thái inquiry (gồm cả Inquiry_Blocked và Request)
type InquiryState struct{}

func (s *InquiryState) Accept(res *Reservation) error {
	res.Status = constants.ReservationStatusAccepted
	res.Expiration = nil
	return nil
}

func (s *InquiryState) Decline(res *Reservation) error {
	res.Status = constants.ReservationStatusDeclined
	return nil
}

func (s *InquiryState) Cancel(res *Reservation, reason string) error {
	res.Status = constants.ReservationStatusCancelled
	res.CancellationReason = reason
	return nil
}

// AcceptedState trạng thái đã nhận khách
type AcceptedState struct{}

func (s *AcceptedState) Accept(res *Reservation) error {
	return errors.New("reservation already accepted")
}

func (s *AcceptedState) Decline(res *Reservation) error {
	return errors.New("cannot decline accepted reservation")
}

func (s *AcceptedState) Cancel(res *Reservation, reason string) error {
	res.Status = constants.ReservationStatusCancelled
	res.CancellationReason = reason
	return nil
}

// ClosedState trạng thái đã đóng (cancelled / declined)
type ClosedState struct{}

func (s *ClosedState) Accept(res *Reservation) error {
	return errors.New("reservation already closed")
}

func (s *ClosedState) Decline(res *Reservation) error {
	return errors.New("reservation already closed")
}

func (s *ClosedState) Cancel(res *Reservation, reason string) error {
	return errors.New("reservation already closed")
}

// GetReservationState trả về state tương ứng với status hiện tại
func GetReservationState(status string) ReservationState {
	switch status {
	case constants.ReservationStatusAccepted:
		return &AcceptedState{}
	case constants.ReservationStatusCancelled, constants.ReservationStatusDeclined:
		return &ClosedState{}
	default:
		return &InquiryState{}
	}
}

// MapChannelStatus dịch status phía channel sang status canonical
func MapChannelStatus(channelStatus string) string {
	switch channelStatus {
	case "new":
		return constants.ReservationStatusInquiry
	case "accept":
		return constants.ReservationStatusAccepted
	case "deny", "timeout", "pending_voided", "checkpoint_voided":
		return constants.ReservationStatusDeclined
	case "pending", "pending_payment", "at_checkpoint":
		return constants.ReservationStatusInquiryBlocked
	case "cancelled_by_admin", "cancelled_by_host", "cancelled_by_guest":
		return constants.ReservationStatusCancelled
	}
	return constants.ReservationStatusInquiry
}
