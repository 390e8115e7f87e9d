package services

import (
	"context"
	"errors"
	"time"

	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"
	"rentalsync/services/rentalconn"

	"gorm.io/gorm"
)

// rentalConnStaleAfter là tuổi tối đa của một lần sync trước khi chạy lại
const rentalConnStaleAfter = 8 * time.Hour

// RentalConnService đồng bộ property và blocking từ các nguồn
// rental-connection chỉ-đọc (Isi, Escapia). Nguồn ngoài là source of
// truth: unit lạ thì tạo property mới, booking tương lai thay toàn bộ
// blocking từ hôm nay trở đi.
type RentalConnService struct {
	db           *gorm.DB
	client       *rentalconn.Client
	availability *AvailabilityService
	logger       logger.Logger
}

// NewRentalConnService tạo RentalConnService mới
func NewRentalConnService(db *gorm.DB, client *rentalconn.Client, availability *AvailabilityService, log logger.Logger) *RentalConnService {
	return &RentalConnService{db: db, client: client, availability: availability, logger: log}
}

// SyncStaleConnections chạy SyncConnection cho mọi connection chưa được
// sync trong rentalConnStaleAfter. Lỗi từng connection chỉ log, không chặn
// các connection còn lại.
func (s *RentalConnService) SyncStaleConnections(ctx context.Context) {
	cutoff := time.Now().Add(-rentalConnStaleAfter)

	var conns []models.RentalConnection
	if err := s.db.WithContext(ctx).Where("last_synced_at < ?", cutoff).Find(&conns).Error; err != nil {
		s.logger.Error("Không đọc được danh sách rental connection: %v", err)
		return
	}
	for i := range conns {
		if err := s.SyncConnection(ctx, &conns[i]); err != nil {
			s.logger.Error("Sync rental connection %d (%s) thất bại: %v", conns[i].ID, conns[i].Kind, err)
		}
	}
}

// SyncConnection fetch unit của connection, upsert property tương ứng và
// thay blocking tương lai bằng booking của nguồn.
func (s *RentalConnService) SyncConnection(ctx context.Context, conn *models.RentalConnection) error {
	units, err := s.client.ListUnits(ctx, conn)
	if err != nil {
		return err
	}

	for i := range units {
		unit := &units[i]
		propertyID, err := s.upsertUnit(ctx, conn, unit)
		if err != nil {
			s.logger.Error("Không upsert được unit %s của connection %d: %v", unit.ExternalID, conn.ID, err)
			continue
		}

		bookings, err := s.client.ListBookings(ctx, conn, unit.ExternalID)
		if err != nil {
			s.logger.Error("Không đọc được booking của unit %s: %v", unit.ExternalID, err)
			continue
		}
		blockings := bookingsToBlockings(bookings)
		if err := s.availability.ReplaceUpcomingBlockings(ctx, propertyID, blockings); err != nil {
			s.logger.Error("Không thay được blocking của property %d: %v", propertyID, err)
		}
	}

	conn.LastSyncedAt = time.Now()
	if err := s.db.WithContext(ctx).Model(conn).Update("last_synced_at", conn.LastSyncedAt).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không cập nhật được last_synced_at", err)
	}
	s.logger.Info("Đã sync rental connection %d (%s): %d unit", conn.ID, conn.Kind, len(units))
	return nil
}

// upsertUnit tìm property đã link với unit, chưa có thì tạo property mới
func (s *RentalConnService) upsertUnit(ctx context.Context, conn *models.RentalConnection, unit *rentalconn.RemoteUnit) (uint, error) {
	var link models.RentalConnectionUnit
	err := s.db.WithContext(ctx).
		Where("rental_connection_id = ? AND external_id = ?", conn.ID, unit.ExternalID).
		First(&link).Error
	if err == nil {
		updates := map[string]interface{}{
			"name":       unit.Name,
			"city":       unit.City,
			"street":     unit.Address,
			"bedrooms":   float64(unit.Bedrooms),
			"bathrooms":  float64(unit.Bathrooms),
			"max_guests": unit.MaxOccupancy,
		}
		if err := s.db.WithContext(ctx).Model(&models.Property{}).
			Where("id = ?", link.PropertyID).Updates(updates).Error; err != nil {
			return 0, err
		}
		return link.PropertyID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	property := &models.Property{
		OrganizationID: conn.OrganizationID,
		Name:           unit.Name,
		PropertyType:   "Other",
		RentalType:     "Entire_Home",
		Bedrooms:       float64(unit.Bedrooms),
		Bathrooms:      float64(unit.Bathrooms),
		MaxGuests:      unit.MaxOccupancy,
		City:           unit.City,
		Street:         unit.Address,
		PricingSettings: &models.PricingSettings{
			Nightly:  unit.NightlyPrice,
			Currency: "USD",
		},
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(property).Error; err != nil {
			return err
		}
		link = models.RentalConnectionUnit{
			RentalConnectionID: conn.ID,
			ExternalID:         unit.ExternalID,
			PropertyID:         property.ID,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return 0, err
	}
	return link.PropertyID, nil
}

// bookingsToBlockings đổi booking của nguồn thành blocking [lower, upper)
func bookingsToBlockings(bookings []rentalconn.RemoteBooking) []models.Blocking {
	var out []models.Blocking
	for _, b := range bookings {
		lower, err1 := time.Parse("2006-01-02", b.StartDate)
		upper, err2 := time.Parse("2006-01-02", b.EndDate)
		if err1 != nil || err2 != nil || !upper.After(lower) {
			continue
		}
		out = append(out, models.Blocking{
			Lower:   lower,
			Upper:   upper,
			Summary: b.Reference,
		})
	}
	return out
}
