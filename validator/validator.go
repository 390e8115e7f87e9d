package validator

import (
	"strconv"
	"strings"
	"time"

	"rentalsync/constants"
	"rentalsync/errors"
	"rentalsync/models"
)

const (
	minAmenities         = 5
	minPhotos            = 7
	minHDPhotos          = 3
	minDescriptionLength = 50
	minCheckInWindow     = 2
)

// regulatedJurisdictions là các thành phố yêu cầu giấy phép STR khi publish
var regulatedJurisdictions = map[string]bool{
	"san francisco": true,
	"santa monica":  true,
	"new york":      true,
	"boston":        true,
	"chicago":       true,
	"denver":        true,
	"new orleans":   true,
	"portland":      true,
	"seattle":       true,
	"toronto":       true,
	"vancouver":     true,
	"amsterdam":     true,
	"barcelona":     true,
	"paris":         true,
	"berlin":        true,
	"tokyo":         true,
}

// ValidateListingReadiness gom mọi điều kiện publish của listing:
// đủ amenity, đủ ảnh (kể cả ảnh HD), mô tả đủ dài, giấy phép STR nếu
// thành phố yêu cầu, và cửa sổ check-in hợp lệ. Trả nil khi sẵn sàng.
func ValidateListingReadiness(p *models.Property) error {
	errs := errors.NewValidationErrors()

	if p.BasicAmenities == nil || p.BasicAmenities.CountEnabled() < minAmenities {
		errs.Add(constants.ReadinessAmenities,
			"Listing cần tối thiểu "+strconv.Itoa(minAmenities)+" amenities")
	}

	if len(p.Images) < minPhotos {
		errs.Add(constants.ReadinessMinPhoto,
			"Listing cần tối thiểu "+strconv.Itoa(minPhotos)+" ảnh")
	}
	hd := 0
	for i := range p.Images {
		if p.Images[i].IsHD() {
			hd++
		}
	}
	if hd < minHDPhotos {
		errs.Add(constants.ReadinessMinHDPhoto,
			"Listing cần tối thiểu "+strconv.Itoa(minHDPhotos)+" ảnh HD (800x500)")
	}

	if p.Descriptions.CombinedLength() < minDescriptionLength {
		errs.Add(constants.ReadinessDescriptions,
			"Mô tả listing cần tối thiểu "+strconv.Itoa(minDescriptionLength)+" ký tự")
	}

	if regulatedJurisdictions[strings.ToLower(strings.TrimSpace(p.City))] && p.PermitID == "" {
		errs.Add(constants.ReadinessSTRLicense,
			"Thành phố "+p.City+" yêu cầu giấy phép STR")
	}

	if p.BookingSettings != nil {
		if !checkInWindowLegal(p.BookingSettings.CheckInStart, p.BookingSettings.CheckInEnd) {
			errs.Add(constants.ReadinessCheckInTimeWindow, "Check in time window is not legal")
		}
	}

	if errs.Empty() {
		return nil
	}
	return errs
}

// checkInWindowLegal xét cửa sổ check-in >= 2h; FLEXIBLE luôn hợp lệ
func checkInWindowLegal(start, end string) bool {
	sh, okStart := parseHour(start)
	eh, okEnd := parseHour(end)
	if !okStart || !okEnd {
		return true
	}
	return eh-sh >= minCheckInWindow
}

// parseHour đọc giờ từ "HH:MM"; FLEXIBLE hay chuỗi rỗng trả ok=false
func parseHour(s string) (int, bool) {
	if s == "" || strings.EqualFold(s, "FLEXIBLE") {
		return 0, false
	}
	parts := strings.SplitN(s, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return h, true
}

// ValidateRate validate một rate trước khi ghi
func ValidateRate(rate *models.Rate) error {
	if err := rate.ValidateTimeFrame(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidDates, "Khoảng ngày của rate không hợp lệ", err)
	}
	if rate.Nightly < 0 || rate.Weekend < 0 || rate.Weekly < 0 || rate.Monthly < 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Giá không được âm", nil)
	}
	return nil
}

// ValidateBlocking validate một blocking trước khi ghi
func ValidateBlocking(b *models.Blocking) error {
	if !b.Upper.After(b.Lower) {
		return errors.NewAppError(errors.ErrCodeInvalidDates, "Khoảng ngày của blocking không hợp lệ", nil)
	}
	return nil
}

// ValidateReservation validate reservation trước khi ghi
func ValidateReservation(r *models.Reservation) error {
	if err := r.ValidateDates(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidDates, "Ngày lưu trú không hợp lệ", err)
	}
	if r.Adults < 1 {
		return errors.NewAppError(errors.ErrCodeValidation, "Reservation cần tối thiểu 1 người lớn", nil)
	}
	if r.StartDate.Before(time.Now().AddDate(-2, 0, 0)) {
		return errors.NewAppError(errors.ErrCodeInvalidDates, "Ngày check-in quá xa trong quá khứ", nil)
	}
	return nil
}
