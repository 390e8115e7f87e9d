package services

import (
	"context"
	"time"
)

// DepositRefundJob gói ReservationService với payment provider cố định
// để chạy hoàn deposit theo lịch.
type DepositRefundJob struct {
	reservations *ReservationService
	provider     PaymentProvider
}

// NewDepositRefundJob tạo DepositRefundJob mới
func NewDepositRefundJob(reservations *ReservationService, provider PaymentProvider) *DepositRefundJob {
	return &DepositRefundJob{reservations: reservations, provider: provider}
}

// RefundDueDeposits hoàn mọi deposit đến hạn tại thời điểm now
func (j *DepositRefundJob) RefundDueDeposits(ctx context.Context, now time.Time) {
	j.reservations.RefundDueDeposits(ctx, j.provider, now)
}
