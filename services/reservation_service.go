package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math"
	"strings"
	"time"

	"rentalsync/constants"
	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// confirmationCodeAttempts là số lần thử lại khi đụng unique constraint
const confirmationCodeAttempts = 5

// PaymentProvider hoàn tiền deposit cho khách. Amount theo minor unit (cent).
type PaymentProvider interface {
	Refund(ctx context.Context, chargeID string, amountMinor int64) error
}

// ReservationService quản lý vòng đời reservation: tạo, tính giá,
// chuyển trạng thái và upsert từ channel.
type ReservationService struct {
	db           *gorm.DB
	availability *AvailabilityService
	logger       logger.Logger
}

// NewReservationService tạo ReservationService mới
func NewReservationService(db *gorm.DB, availability *AvailabilityService, log logger.Logger) *ReservationService {
	return &ReservationService{db: db, availability: availability, logger: log}
}

// GetReservation đọc reservation kèm các dòng con
func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Contact").Preload("Fees").Preload("Discounts").
		Preload("Rates").Preload("Refunds").
		First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrReservationNotFound
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được reservation", err)
	}
	return &res, nil
}

// CreateReservation tạo reservation nguồn App/Web: kiểm tra ngày trống,
// ràng buộc lưu trú, tính lại giá từ cấu hình property rồi ghi atomic.
func (s *ReservationService) CreateReservation(ctx context.Context, res *models.Reservation) error {
	if err := res.ValidateDates(); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidDates, "ngày lưu trú không hợp lệ", err)
	}

	property, err := s.loadProperty(ctx, res.PropertyID)
	if err != nil {
		return err
	}
	now := time.Now()
	if err := s.availability.CheckAvailability(ctx, res.PropertyID, res.StartDate, res.EndDate); err != nil {
		return err
	}
	if err := s.availability.CheckStayConstraints(property, res.StartDate, res.EndDate, now); err != nil {
		return err
	}

	if err := s.RepriceReservation(property, res); err != nil {
		return err
	}

	return s.persistWithCode(ctx, res)
}

// RepriceReservation tính lại toàn bộ dòng giá, phí và giảm giá của
// reservation từ cấu hình hiện tại của property. Các khoản refund giữ nguyên.
func (s *ReservationService) RepriceReservation(p *models.Property, res *models.Reservation) error {
	lines, err := QuoteStay(p, res.StartDate, res.EndDate)
	if err != nil {
		return err
	}
	res.Rates = lines

	base := 0.0
	for _, line := range lines {
		base += line.Amount
	}
	res.BaseTotal = roundMoney(base)

	nights := res.Nights()
	guests := res.Guests()

	res.Discounts = res.Discounts[:0]
	for i := range p.Discounts {
		d := &p.Discounts[i]
		if d.MinNights > 0 && nights < d.MinNights {
			continue
		}
		res.Discounts = append(res.Discounts, models.ReservationDiscount{
			Name:              d.Name,
			Value:             d.Value,
			Amount:            DiscountAmount(d, base, nights, guests),
			CalculationMethod: d.CalculationMethod,
		})
	}

	res.Fees = res.Fees[:0]
	if ps := p.PricingSettings; ps != nil {
		if ps.CleaningFee > 0 {
			res.Fees = append(res.Fees, models.ReservationFee{
				Name:              "Cleaning Fee",
				Value:             ps.CleaningFee,
				Amount:            ps.CleaningFee,
				CalculationMethod: constants.CalcPerStay,
			})
		}
		if ps.SecurityDeposit > 0 {
			res.Fees = append(res.Fees, models.ReservationFee{
				Name:              "Security Deposit",
				Value:             ps.SecurityDeposit,
				Amount:            ps.SecurityDeposit,
				CalculationMethod: constants.CalcPerStay,
				Refundable:        true,
			})
		}
	}

	// fee flat tính trước, fee phần trăm tính sau trên các tổng đã chốt
	// để phần trăm không gối lên nhau
	plainFees, taxFees := 0.0, 0.0
	for _, f := range res.Fees {
		if f.Taxable {
			taxFees += f.Amount
		} else {
			plainFees += f.Amount
		}
	}
	var percentFees []models.AdditionalFee
	for i := range p.Fees {
		f := &p.Fees[i]
		if f.Optional {
			continue
		}
		if f.IsPercent() {
			percentFees = append(percentFees, *f)
			continue
		}
		amount := FeeAmount(f, base, nights, guests, 0, 0)
		res.Fees = append(res.Fees, models.ReservationFee{
			Name:              f.Name,
			Value:             f.Value,
			Amount:            amount,
			CalculationMethod: f.CalculationMethod,
			Taxable:           f.Taxable,
		})
		if f.Taxable {
			taxFees += amount
		} else {
			plainFees += amount
		}
	}
	for i := range percentFees {
		f := &percentFees[i]
		res.Fees = append(res.Fees, models.ReservationFee{
			Name:              f.Name,
			Value:             f.Value,
			Amount:            FeeAmount(f, base, nights, guests, plainFees, taxFees),
			CalculationMethod: f.CalculationMethod,
			Taxable:           f.Taxable,
		})
	}

	res.Price = ReservationTotal(res)
	return nil
}

// persistWithCode ghi reservation, sinh confirmation code và thử lại
// bounded khi đụng unique constraint.
func (s *ReservationService) persistWithCode(ctx context.Context, res *models.Reservation) error {
	for attempt := 0; attempt < confirmationCodeAttempts; attempt++ {
		if res.ConfirmationCode == nil || *res.ConfirmationCode == "" {
			code, err := GenerateConfirmationCode()
			if err != nil {
				return apperrors.NewAppError(apperrors.ErrCodeService, "không sinh được confirmation code", err)
			}
			res.ConfirmationCode = &code
		}
		err := s.db.WithContext(ctx).Create(res).Error
		if err == nil {
			return nil
		}
		if isDuplicateKey(err) {
			res.ConfirmationCode = nil
			continue
		}
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được reservation", err)
	}
	return apperrors.NewAppError(apperrors.ErrCodeConflict, "không sinh được confirmation code duy nhất", nil)
}

// GenerateConfirmationCode sinh code 12 ký tự hex hoa từ crypto/rand
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// isDuplicateKey nhận diện unique violation của cả postgres lẫn gorm
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

// Accept chuyển reservation sang Accepted qua state hiện tại
func (s *ReservationService) Accept(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, func(state models.ReservationState, res *models.Reservation) error {
		return state.Accept(res)
	})
}

// Decline từ chối reservation qua state hiện tại
func (s *ReservationService) Decline(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, func(state models.ReservationState, res *models.Reservation) error {
		return state.Decline(res)
	})
}

// Cancel hủy reservation với lý do
func (s *ReservationService) Cancel(ctx context.Context, id uint, reason string) (*models.Reservation, error) {
	return s.transition(ctx, id, func(state models.ReservationState, res *models.Reservation) error {
		return state.Cancel(res, reason)
	})
}

func (s *ReservationService) transition(ctx context.Context, id uint,
	apply func(models.ReservationState, *models.Reservation) error) (*models.Reservation, error) {

	res, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	state := models.GetReservationState(res.Status)
	if err := apply(state, res); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, err.Error(), err)
	}
	if err := s.db.WithContext(ctx).Save(res).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được reservation", err)
	}
	return res, nil
}

// AddRefund ghi một khoản hoàn và tính lại tổng
func (s *ReservationService) AddRefund(ctx context.Context, id uint, amount float64, reason string) (*models.Reservation, error) {
	res, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	refund := models.ReservationRefund{ReservationID: id, Amount: amount, Reason: reason}
	if err := s.db.WithContext(ctx).Create(&refund).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không ghi được refund", err)
	}
	res.Refunds = append(res.Refunds, refund)
	res.Price = ReservationTotal(res)
	if err := s.db.WithContext(ctx).Save(res).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được reservation", err)
	}
	return res, nil
}

// UpsertFromChannel ghi reservation nhập từ channel, idempotent theo
// confirmation code. Bản ghi đã có được cập nhật tại chỗ (status, ngày,
// khách và các dòng con thay mới); bản ghi mới được tạo cùng external shadow.
func (s *ReservationService) UpsertFromChannel(ctx context.Context, incoming *models.Reservation,
	shadow *models.ExternalReservation, contact *models.Contact) (*models.Reservation, bool, error) {

	if incoming.ConfirmationCode == nil || *incoming.ConfirmationCode == "" {
		return nil, false, apperrors.NewAppError(apperrors.ErrCodeValidation, "thiếu confirmation code", nil)
	}

	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if contact != nil && contact.Email != "" {
			var existing models.Contact
			err := tx.Where("organization_id = ? AND email = ?", contact.OrganizationID, contact.Email).
				First(&existing).Error
			switch {
			case err == nil:
				contact.ID = existing.ID
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"first_name": contact.FirstName, "last_name": contact.LastName,
					"phone": contact.Phone, "preferred_locale": contact.PreferredLocale,
				}).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(contact).Error; err != nil {
					return err
				}
			default:
				return err
			}
			incoming.ContactID = &contact.ID
		}

		var existing models.Reservation
		err := tx.Where("confirmation_code = ?", *incoming.ConfirmationCode).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			if err := tx.Create(incoming).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			incoming.ID = existing.ID
			incoming.CreatedAt = existing.CreatedAt
			for _, child := range []interface{}{
				&models.ReservationRate{}, &models.ReservationFee{},
				&models.ReservationDiscount{},
			} {
				if err := tx.Where("reservation_id = ?", existing.ID).Delete(child).Error; err != nil {
					return err
				}
			}
			for i := range incoming.Rates {
				incoming.Rates[i].ReservationID = existing.ID
			}
			for i := range incoming.Fees {
				incoming.Fees[i].ReservationID = existing.ID
			}
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(incoming).Error; err != nil {
				return err
			}
		}

		if shadow != nil {
			shadow.ReservationID = incoming.ID
			var existingShadow models.ExternalReservation
			err := tx.Where("reservation_id = ?", incoming.ID).First(&existingShadow).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return tx.Create(shadow).Error
			case err != nil:
				return err
			default:
				shadow.ID = existingShadow.ID
				return tx.Save(shadow).Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, apperrors.NewAppError(apperrors.ErrCodeDBError, "không upsert được reservation từ channel", err)
	}
	return incoming, created, nil
}

// DepositsDue trả về các reservation có deposit refundable chưa hoàn
// và đã qua checkout + RefundDepositAfter ngày.
func (s *ReservationService) DepositsDue(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	var due []models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Fees").Preload("Rates").Preload("Refunds").Preload("Discounts").
		Joins("JOIN reservation_fees ON reservation_fees.reservation_id = reservations.id").
		Where("reservations.status = ?", constants.ReservationStatusAccepted).
		Where("reservation_fees.refundable = ? AND reservation_fees.refunded = ?", true, false).
		Where("reservations.end_date <= ?", now.AddDate(0, 0, -1)).
		Group("reservations.id").
		Find(&due).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được deposit đến hạn", err)
	}

	var out []models.Reservation
	for i := range due {
		r := due[i]
		threshold := r.EndDate.AddDate(0, 0, r.RefundDepositAfter)
		if !threshold.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

// RefundDueDeposits hoàn deposit đến hạn qua payment provider và đánh dấu
// đã hoàn. Lỗi từng reservation chỉ log, không chặn batch.
func (s *ReservationService) RefundDueDeposits(ctx context.Context, provider PaymentProvider, now time.Time) {
	due, err := s.DepositsDue(ctx, now)
	if err != nil {
		s.logger.Error("không liệt kê được deposit đến hạn: %v", err)
		return
	}
	for i := range due {
		r := &due[i]
		for j := range r.Fees {
			fee := &r.Fees[j]
			if !fee.Refundable || fee.Refunded {
				continue
			}
			code := ""
			if r.ConfirmationCode != nil {
				code = *r.ConfirmationCode
			}
			// làm tròn về minor unit, tránh lệch cent do float
			if err := provider.Refund(ctx, code, int64(math.Round(fee.Amount*100))); err != nil {
				s.logger.Error("hoàn deposit reservation %d thất bại: %v", r.ID, err)
				continue
			}
			fee.Refunded = true
			if err := s.db.WithContext(ctx).Save(fee).Error; err != nil {
				s.logger.Error("không đánh dấu được deposit đã hoàn cho reservation %d: %v", r.ID, err)
			}
		}
	}
}

// loadProperty đọc property kèm cấu hình giá
func (s *ReservationService) loadProperty(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).
		Preload("PricingSettings").Preload("AvailabilitySettings").
		Preload("Rates").Preload("Fees").Preload("Discounts").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPropertyNotFound
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được property", err)
	}
	return &p, nil
}
