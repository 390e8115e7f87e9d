package services

import (
	"context"
	"strconv"
	"time"

	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"

	"gorm.io/gorm"
)

// AvailabilityService trả lời câu hỏi "khoảng ngày này còn trống không"
// và quản lý blocking của property.
type AvailabilityService struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewAvailabilityService tạo AvailabilityService mới
func NewAvailabilityService(db *gorm.DB, log logger.Logger) *AvailabilityService {
	return &AvailabilityService{db: db, logger: log}
}

// CheckAvailability kiểm tra [from, to) còn trống: không đụng blocking,
// không đụng reservation đang chặn lịch, không đụng event iCal ngoài.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, propertyID uint, from, to time.Time) error {
	return s.CheckAvailabilityExcluding(ctx, propertyID, from, to, "")
}

// CheckAvailabilityExcluding như CheckAvailability nhưng bỏ qua reservation
// mang confirmation code cho trước. Dùng cho availability probe: reservation
// đang hỏi không được tự chặn chính nó.
func (s *AvailabilityService) CheckAvailabilityExcluding(ctx context.Context, propertyID uint, from, to time.Time, excludeCode string) error {
	if !to.After(from) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidDates, "khoảng ngày không hợp lệ", nil)
	}

	var blockings []models.Blocking
	err := s.db.WithContext(ctx).
		Where("property_id = ? AND lower < ? AND upper > ?", propertyID, to, from).
		Find(&blockings).Error
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được blockings", err)
	}
	if len(blockings) > 0 {
		return apperrors.NewAppError(apperrors.ErrCodeNotAvailable, "khoảng ngày đã bị chặn", nil)
	}

	var reservations []models.Reservation
	err = s.db.WithContext(ctx).
		Where("property_id = ? AND start_date < ? AND end_date > ?", propertyID, to, from).
		Find(&reservations).Error
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được reservations", err)
	}
	now := time.Now()
	for i := range reservations {
		r := &reservations[i]
		if excludeCode != "" && r.ConfirmationCode != nil && *r.ConfirmationCode == excludeCode {
			continue
		}
		if r.BlocksCalendar(now) {
			return apperrors.NewAppError(apperrors.ErrCodeNotAvailable, "khoảng ngày đã có khách", nil)
		}
	}

	var events []models.ExternalCalendarEvent
	err = s.db.WithContext(ctx).
		Joins("JOIN calendars ON calendars.id = external_calendar_events.calendar_id").
		Where(`calendars.property_id = ? AND external_calendar_events."start" < ? AND external_calendar_events."end" > ?`,
			propertyID, to, from).
		Find(&events).Error
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được calendar events", err)
	}
	if len(events) > 0 {
		return apperrors.NewAppError(apperrors.ErrCodeNotAvailable, "khoảng ngày bị chặn bởi lịch ngoài", nil)
	}

	return nil
}

// CheckStayConstraints kiểm tra ràng buộc lưu trú của property:
// min nights (cả min nights theo thứ của đêm check-in), ngày check-in
// cho phép, advance notice và booking window.
func (s *AvailabilityService) CheckStayConstraints(p *models.Property, from, to, now time.Time) error {
	as := p.AvailabilitySettings
	if as == nil {
		return nil
	}

	nights := int(to.Sub(from).Hours() / 24)
	minNights := as.MinNights
	if byWeekday := minNightsForWeekday(as.MinNightsByWeekday, int(from.Weekday())); byWeekday > minNights {
		minNights = byWeekday
	}
	if nights < minNights {
		return apperrors.NewAppError(apperrors.ErrCodeNotAvailable,
			"lưu trú ngắn hơn số đêm tối thiểu", nil)
	}
	if as.MaxNights > 0 && nights > as.MaxNights {
		return apperrors.NewAppError(apperrors.ErrCodeNotAvailable,
			"lưu trú dài hơn số đêm tối đa", nil)
	}

	if as.CheckInDays != "" && !weekdayAllowed(as.CheckInDays, int(from.Weekday())) {
		return apperrors.NewAppError(apperrors.ErrCodeNotAvailable,
			"không cho phép check-in vào thứ này", nil)
	}

	if as.AdvanceNoticeHours > 0 && from.Sub(now) < time.Duration(as.AdvanceNoticeHours)*time.Hour {
		return apperrors.NewAppError(apperrors.ErrCodeNotAvailable,
			"chưa đủ thời gian báo trước", nil)
	}
	if as.BookingWindowMonths > 0 && from.After(now.AddDate(0, as.BookingWindowMonths, 0)) {
		return apperrors.NewAppError(apperrors.ErrCodeNotAvailable,
			"ngày check-in vượt quá booking window", nil)
	}
	return nil
}

// ListBlockings trả về blocking của property, sắp theo Lower
func (s *AvailabilityService) ListBlockings(ctx context.Context, propertyID uint) ([]models.Blocking, error) {
	var blockings []models.Blocking
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("lower asc").
		Find(&blockings).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được blockings", err)
	}
	return blockings, nil
}

// CreateBlocking tạo blocking mới cho property
func (s *AvailabilityService) CreateBlocking(ctx context.Context, b *models.Blocking) error {
	if !b.Upper.After(b.Lower) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidDates, "khoảng ngày của blocking không hợp lệ", nil)
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được blocking", err)
	}
	return nil
}

// DeleteBlocking xóa một blocking của property
func (s *AvailabilityService) DeleteBlocking(ctx context.Context, propertyID, blockingID uint) error {
	res := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&models.Blocking{}, blockingID)
	if res.Error != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không xóa được blocking", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeDBNotFound, "blocking không tồn tại", nil)
	}
	return nil
}

// ReplaceUpcomingBlockings thay toàn bộ blocking từ hôm nay trở đi bằng tập
// mới, trong một transaction. Dùng khi đồng bộ từ rental connection: nguồn
// ngoài là source of truth cho tương lai, quá khứ giữ nguyên.
func (s *AvailabilityService) ReplaceUpcomingBlockings(ctx context.Context, propertyID uint, blockings []models.Blocking) error {
	today := time.Now().Truncate(24 * time.Hour)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ? AND upper > ?", propertyID, today).
			Delete(&models.Blocking{}).Error; err != nil {
			return err
		}
		for i := range blockings {
			blockings[i].PropertyID = propertyID
			if err := tx.Create(&blockings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// weekdayAllowed xét thứ wd (0=CN) có trong chuỗi "0123456" không
func weekdayAllowed(days string, wd int) bool {
	for _, c := range days {
		if int(c-'0') == wd {
			return true
		}
	}
	return false
}

// minNightsForWeekday đọc "5:2,6:3" và trả min nights cho thứ wd, 0 nếu không có
func minNightsForWeekday(s string, wd int) int {
	if s == "" {
		return 0
	}
	for _, pair := range splitPairs(s) {
		if pair[0] == wd {
			return pair[1]
		}
	}
	return 0
}

func splitPairs(s string) [][2]int {
	var out [][2]int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			part := s[start:i]
			start = i + 1
			for j := 0; j < len(part); j++ {
				if part[j] == ':' {
					day, err1 := strconv.Atoi(part[:j])
					nights, err2 := strconv.Atoi(part[j+1:])
					if err1 == nil && err2 == nil {
						out = append(out, [2]int{day, nights})
					}
					break
				}
			}
		}
	}
	return out
}
