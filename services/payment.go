package services

import (
	"context"

	"rentalsync/services/logger"
)

// LoggingPaymentProvider là PaymentProvider cho môi trường chưa nối cổng
// thanh toán thật: ghi lại lệnh refund thay vì thực hiện.
type LoggingPaymentProvider struct {
	logger logger.Logger
}

// NewLoggingPaymentProvider tạo LoggingPaymentProvider mới
func NewLoggingPaymentProvider(log logger.Logger) *LoggingPaymentProvider {
	return &LoggingPaymentProvider{logger: log}
}

// Refund ghi lại yêu cầu hoàn tiền
func (p *LoggingPaymentProvider) Refund(ctx context.Context, chargeID string, amountMinor int64) error {
	p.logger.Info("Yêu cầu refund %d (minor unit) cho charge %s", amountMinor, chargeID)
	return nil
}
