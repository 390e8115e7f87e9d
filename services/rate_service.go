package services

import (
	"context"
	"time"

	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"

	"gorm.io/gorm"
)

// RateService quản lý rate theo khoảng ngày của property.
// Bất biến: với mỗi (property, seasonal) các khoảng không chồng lắp.
type RateService struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewRateService tạo RateService mới
func NewRateService(db *gorm.DB, log logger.Logger) *RateService {
	return &RateService{db: db, logger: log}
}

// ListRates trả về mọi rate của property, sắp theo Lower
func (s *RateService) ListRates(ctx context.Context, propertyID uint) ([]models.Rate, error) {
	var rates []models.Rate
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("lower asc").
		Find(&rates).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được rates", err)
	}
	return rates, nil
}

// SetRate chèn rate mới và cắt các rate chồng lắp cùng lớp seasonal:
// rate nằm gọn trong khoảng mới bị xóa, rate đè một mép bị co lại,
// rate chứa trọn khoảng mới bị tách làm hai. Lớp seasonal và custom
// không đụng nhau. Chạy trong một transaction.
func (s *RateService) SetRate(ctx context.Context, rate *models.Rate) error {
	if err := rate.ValidateTimeFrame(); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidDates, "khoảng ngày của rate không hợp lệ", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var overlapping []models.Rate
		err := tx.Where("property_id = ? AND seasonal = ? AND lower < ? AND upper > ?",
			rate.PropertyID, rate.Seasonal, rate.Upper, rate.Lower).
			Find(&overlapping).Error
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được rate chồng lắp", err)
		}

		for i := range overlapping {
			old := overlapping[i]
			startsInside := !old.Lower.Before(rate.Lower)
			endsInside := !old.Upper.After(rate.Upper)

			switch {
			case startsInside && endsInside:
				if err := tx.Delete(&models.Rate{}, old.ID).Error; err != nil {
					return err
				}
			case startsInside:
				// đè mép phải của khoảng mới: co Lower lên Upper mới
				old.Lower = rate.Upper
				if err := tx.Save(&old).Error; err != nil {
					return err
				}
			case endsInside:
				// đè mép trái: co Upper xuống Lower mới
				old.Upper = rate.Lower
				if err := tx.Save(&old).Error; err != nil {
					return err
				}
			default:
				// chứa trọn khoảng mới: tách làm hai mảnh hai bên
				right := old
				right.ID = 0
				right.Lower = rate.Upper
				old.Upper = rate.Lower
				if err := tx.Save(&old).Error; err != nil {
					return err
				}
				if err := tx.Create(&right).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Create(rate).Error; err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được rate", err)
		}
		s.logger.Info("set rate [%s, %s) cho property %d",
			rate.Lower.Format("2006-01-02"), rate.Upper.Format("2006-01-02"), rate.PropertyID)
		return nil
	})
}

// DeleteRate xóa một rate của property
func (s *RateService) DeleteRate(ctx context.Context, propertyID, rateID uint) error {
	res := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&models.Rate{}, rateID)
	if res.Error != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không xóa được rate", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeDBNotFound, "rate không tồn tại", nil)
	}
	return nil
}

// RatesCovering trả về các rate phủ một ngày, dùng cho trang chi tiết lịch
func (s *RateService) RatesCovering(ctx context.Context, propertyID uint, day time.Time) ([]models.Rate, error) {
	var rates []models.Rate
	err := s.db.WithContext(ctx).
		Where("property_id = ? AND lower <= ? AND upper > ?", propertyID, day, day).
		Find(&rates).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được rates", err)
	}
	return rates, nil
}
