package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalsync/constants"
	"rentalsync/dto"
	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/airbnb"
	"rentalsync/services/logger"
	"rentalsync/validator"

	"gorm.io/gorm"
)

// SyncService là orchestrator giữa canonical store và channel:
// import/export/link/unlink listing, fetch inventory và reconcile từng mảng.
type SyncService struct {
	db           *gorm.DB
	client       *airbnb.Client
	photos       *PhotoService
	reservations *ReservationService
	broadcaster  *SyncBroadcaster
	logger       logger.Logger
}

// NewSyncService tạo SyncService mới
func NewSyncService(db *gorm.DB, client *airbnb.Client, photos *PhotoService,
	reservations *ReservationService, broadcaster *SyncBroadcaster, log logger.Logger) *SyncService {
	return &SyncService{
		db:           db,
		client:       client,
		photos:       photos,
		reservations: reservations,
		broadcaster:  broadcaster,
		logger:       log,
	}
}

// appendLog ghi một SyncLog và broadcast cho dashboard
func (s *SyncService) appendLog(ctx context.Context, sync *models.ChannelSync, status, message string) {
	entry := models.SyncLog{ChannelSyncID: sync.ID, Status: status, Message: message, Date: time.Now()}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("không ghi được sync log cho sync %d: %v", sync.ID, err)
		return
	}
	s.broadcaster.BroadcastSyncLog(sync, &entry)
}

func (s *SyncService) loadAccount(ctx context.Context, accountID uint) (*models.ChannelAccount, error) {
	var account models.ChannelAccount
	err := s.db.WithContext(ctx).First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được channel account", err)
	}
	return &account, nil
}

// GetSync đọc một ChannelSync kèm property
func (s *SyncService) GetSync(ctx context.Context, syncID uint) (*models.ChannelSync, error) {
	var sync models.ChannelSync
	err := s.db.WithContext(ctx).
		Preload("Property").Preload("Property.Descriptions").
		Preload("Property.BookingSettings").Preload("Property.PricingSettings").
		Preload("Property.AvailabilitySettings").Preload("Property.BasicAmenities").
		Preload("Property.Images").Preload("Property.Rooms").Preload("Property.Rooms.Beds").
		Preload("Property.Fees").Preload("Property.Rates").
		Preload("ChannelAccount").
		First(&sync, syncID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrSyncNotFound
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được channel sync", err)
	}
	return &sync, nil
}

// HandleLinkAction route một link-action tới handler tương ứng
func (s *SyncService) HandleLinkAction(ctx context.Context, orgID uint, req *dto.LinkRequest) (*models.ChannelSync, error) {
	switch req.Action {
	case constants.LinkActionImport:
		return s.Import(ctx, orgID, req.ChannelAccountID, req.ExternalID)
	case constants.LinkActionExport:
		return s.Export(ctx, req.ChannelAccountID, req.PropertyID)
	case constants.LinkActionLink:
		return s.LinkExisting(ctx, req.ChannelAccountID, req.PropertyID, req.ExternalID)
	case constants.LinkActionUnlink:
		return nil, s.UnlinkByExternalID(ctx, req.ChannelAccountID, req.ExternalID)
	}
	return nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "link action không hợp lệ", nil)
}

// Import kéo một listing phía channel về làm property canonical mới và link.
// Kéo theo cả mô tả, phòng, ảnh, pricing và booking settings; link xong
// yêu cầu channel review.
func (s *SyncService) Import(ctx context.Context, orgID, accountID uint, externalID string) (*models.ChannelSync, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	listing, err := s.client.GetListing(ctx, account, externalID)
	if err != nil {
		return nil, err
	}
	property := airbnb.ListingToProperty(listing, orgID)

	if desc, err := s.client.GetDescriptions(ctx, account, externalID, "en"); err == nil {
		property.Descriptions = &models.Descriptions{}
		airbnb.DescriptionToCanonical(desc, property.Descriptions)
	} else {
		s.logger.Error("import %s: không lấy được mô tả: %v", externalID, err)
	}
	if pricing, err := s.client.GetPricingSettings(ctx, account, externalID); err == nil {
		if property.PricingSettings == nil {
			property.PricingSettings = &models.PricingSettings{}
		}
		airbnb.PricingSettingsToCanonical(pricing, property.PricingSettings)
	} else {
		s.logger.Error("import %s: không lấy được pricing settings: %v", externalID, err)
	}
	if booking, err := s.client.GetBookingSettings(ctx, account, externalID); err == nil {
		property.BookingSettings = &models.BookingSettings{
			CheckInStart:       booking.CheckInTimeStart,
			CheckInEnd:         booking.CheckInTimeEnd,
			CancellationPolicy: airbnb.UnmapCancellationPolicy(booking.CancellationPolicy),
			InstantBooking:     booking.InstantBookingAllowedCategory == "everyone",
		}
		if booking.CheckOutTime != nil {
			property.BookingSettings.CheckOutTime = fmt.Sprintf("%02d:00", *booking.CheckOutTime)
		}
	}

	if err := s.db.WithContext(ctx).Create(property).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được property từ listing", err)
	}

	if rooms, err := s.client.GetListingRooms(ctx, account, externalID); err == nil {
		for _, room := range airbnb.RoomsToCanonical(rooms, property.ID) {
			if err := s.db.WithContext(ctx).Create(&room).Error; err != nil {
				s.logger.Error("import %s: không lưu được room: %v", externalID, err)
			}
		}
	}
	if photos, err := s.client.GetListingPhotos(ctx, account, externalID); err == nil {
		for i := range photos {
			// ảnh phía channel trả URL trong field image
			if _, err := s.photos.ImportPhoto(ctx, property.ID, photos[i].Image, photos[i].Caption, photos[i].SortOrder); err != nil {
				s.logger.Error("import %s: không import được ảnh: %v", externalID, err)
			}
		}
	}

	sync := &models.ChannelSync{
		PropertyID:       property.ID,
		ChannelAccountID: account.ID,
		Channel:          constants.ChannelAirbnb,
		ExternalID:       externalID,
		ApprovalStatus:   constants.ApprovalStatusNew,
		ListingStatus:    constants.ListingStatusInit,
		Scope:            constants.ScopeSyncAll,
		SyncEnabled:      true,
	}
	if err := s.db.WithContext(ctx).Create(sync).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được channel sync", err)
	}

	if err := s.client.PushLink(ctx, account, externalID, sync.Scope); err != nil {
		s.appendLog(ctx, sync, constants.SyncLogError, "link phía channel thất bại: "+err.Error())
		return sync, err
	}
	if err := s.client.PushReviewStatus(ctx, account, externalID); err != nil {
		s.appendLog(ctx, sync, constants.SyncLogError, "yêu cầu review thất bại: "+err.Error())
		return sync, err
	}
	sync.ApprovalStatus = constants.ApprovalStatusReadyForReview
	if err := s.db.WithContext(ctx).Save(sync).Error; err != nil {
		return sync, apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được channel sync", err)
	}
	s.appendLog(ctx, sync, constants.SyncLogSynced, "đã import listing "+externalID+", chờ channel review")
	return sync, nil
}

// Export đẩy một property canonical lên channel làm listing mới.
// Property phải qua được readiness check; đẩy xong yêu cầu review.
func (s *SyncService) Export(ctx context.Context, accountID, propertyID uint) (*models.ChannelSync, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	property, err := s.loadFullProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	// listing chưa đạt điều kiện publish: không gọi create phía channel,
	// ghi lại các thiếu sót vào sync row để màn hình listing hiển thị
	if err := validator.ValidateListingReadiness(property); err != nil {
		sync := &models.ChannelSync{}
		lookupErr := s.db.WithContext(ctx).
			Where("property_id = ? AND channel_account_id = ?", property.ID, account.ID).
			First(sync).Error
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			sync = &models.ChannelSync{
				PropertyID:       property.ID,
				ChannelAccountID: account.ID,
				Channel:          constants.ChannelAirbnb,
				ListingStatus:    constants.ListingStatusInit,
				Scope:            constants.ScopeSyncAll,
				SyncEnabled:      true,
			}
		} else if lookupErr != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được channel sync", lookupErr)
		}
		sync.ApprovalStatus = constants.ApprovalStatusNotReady
		sync.Notes = err.Error()
		if dbErr := s.db.WithContext(ctx).Save(sync).Error; dbErr != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được channel sync", dbErr)
		}
		s.appendLog(ctx, sync, constants.SyncLogError, err.Error())
		return sync, apperrors.NewAppError(apperrors.ErrCodeNotReady, err.Error(), err)
	}

	created, err := s.client.PushListing(ctx, account, airbnb.TranslateListing(property))
	if err != nil {
		return nil, err
	}
	externalID := created.ID

	sync := &models.ChannelSync{
		PropertyID:       property.ID,
		ChannelAccountID: account.ID,
		Channel:          constants.ChannelAirbnb,
		ExternalID:       externalID,
		ApprovalStatus:   constants.ApprovalStatusNew,
		ListingStatus:    constants.ListingStatusInit,
		Scope:            constants.ScopeSyncAll,
		SyncEnabled:      true,
	}
	if err := s.db.WithContext(ctx).Create(sync).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được channel sync", err)
	}
	s.appendLog(ctx, sync, constants.SyncLogSyncing, "đã tạo listing "+externalID+", đang đẩy nội dung")

	if err := s.pushContent(ctx, account, sync, property); err != nil {
		s.markFailed(ctx, sync, err)
		return sync, err
	}
	if err := s.pushPricing(ctx, account, sync, property); err != nil {
		s.markFailed(ctx, sync, err)
		return sync, err
	}
	if err := s.pushAvailability(ctx, account, sync, property); err != nil {
		s.markFailed(ctx, sync, err)
		return sync, err
	}

	if err := s.client.PushLink(ctx, account, externalID, sync.Scope); err != nil {
		s.markFailed(ctx, sync, err)
		return sync, err
	}
	if err := s.client.PushReviewStatus(ctx, account, externalID); err != nil {
		s.markFailed(ctx, sync, err)
		return sync, err
	}

	sync.ApprovalStatus = constants.ApprovalStatusReadyForReview
	if err := s.db.WithContext(ctx).Save(sync).Error; err != nil {
		return sync, apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được channel sync", err)
	}
	s.appendLog(ctx, sync, constants.SyncLogSynced, "đã export property, chờ channel review")
	return sync, nil
}

// LinkExisting gắn property canonical với listing đã tồn tại phía channel.
// Không ghi đè content; sau khi link đẩy lại pricing, booking settings,
// availability rule và calendar để hai bên khớp nhau từ thời điểm link.
func (s *SyncService) LinkExisting(ctx context.Context, accountID, propertyID uint, externalID string) (*models.ChannelSync, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	property, err := s.loadFullProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	var existing models.ChannelSync
	err = s.db.WithContext(ctx).
		Where("channel_account_id = ? AND external_id = ?", accountID, externalID).
		First(&existing).Error
	if err == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeConflict, "listing đã được link", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không kiểm tra được link", err)
	}

	sync := &models.ChannelSync{
		PropertyID:       property.ID,
		ChannelAccountID: account.ID,
		Channel:          constants.ChannelAirbnb,
		ExternalID:       externalID,
		ApprovalStatus:   constants.ApprovalStatusApproved,
		ListingStatus:    constants.ListingStatusListed,
		Scope:            constants.ScopeSyncUndecided,
		SyncEnabled:      true,
	}
	if err := s.db.WithContext(ctx).Create(sync).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được channel sync", err)
	}
	if err := s.client.PushLink(ctx, account, externalID, sync.Scope); err != nil {
		s.appendLog(ctx, sync, constants.SyncLogError, "link phía channel thất bại: "+err.Error())
		return sync, err
	}
	if err := s.pushPricing(ctx, account, sync, property); err != nil {
		s.appendLog(ctx, sync, constants.SyncLogError, "realign pricing thất bại: "+err.Error())
		return sync, err
	}
	if err := s.pushAvailability(ctx, account, sync, property); err != nil {
		s.appendLog(ctx, sync, constants.SyncLogError, "realign availability thất bại: "+err.Error())
		return sync, err
	}
	s.appendLog(ctx, sync, constants.SyncLogSynced, "đã link với listing "+externalID)
	return sync, nil
}

// UnlinkByExternalID gỡ link theo external id
func (s *SyncService) UnlinkByExternalID(ctx context.Context, accountID uint, externalID string) error {
	var sync models.ChannelSync
	err := s.db.WithContext(ctx).
		Where("channel_account_id = ? AND external_id = ?", accountID, externalID).
		First(&sync).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrSyncNotFound
	}
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được channel sync", err)
	}
	return s.Unlink(ctx, sync.ID)
}

// Unlink gỡ listing khỏi engine: báo channel dừng đồng bộ rồi xóa sync row.
// Channel trả 404 nghĩa là listing đã gỡ từ trước, vẫn xóa local.
func (s *SyncService) Unlink(ctx context.Context, syncID uint) error {
	sync, err := s.GetSync(ctx, syncID)
	if err != nil {
		return err
	}
	if err := s.client.PushUnlink(ctx, &sync.ChannelAccount, sync.ExternalID); err != nil {
		if svcErr := apperrors.AsServiceError(err); svcErr == nil || !svcErr.NotFound() {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Select("Logs").Delete(&models.ChannelSync{}, sync.ID).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không xóa được channel sync", err)
	}
	return nil
}

// FetchInventory lấy inventory phía channel trừ các listing đã link,
// kèm gợi ý property khớp nhất cho màn hình link.
func (s *SyncService) FetchInventory(ctx context.Context, orgID, accountID uint) ([]dto.RemoteListingSummary, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	listings, err := s.client.GetListings(ctx, account)
	if err != nil {
		return nil, err
	}

	var linked []models.ChannelSync
	if err := s.db.WithContext(ctx).Where("channel_account_id = ?", accountID).Find(&linked).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được channel syncs", err)
	}
	linkedIDs := map[string]bool{}
	for _, l := range linked {
		linkedIDs[l.ExternalID] = true
	}

	var remote []dto.RemoteListingSummary
	for i := range listings {
		l := &listings[i]
		if linkedIDs[l.ID] {
			continue
		}
		remote = append(remote, dto.RemoteListingSummary{
			ExternalID:  l.ID,
			Name:        l.Name,
			Address:     l.Street,
			City:        l.City,
			State:       l.State,
			CountryCode: l.CountryCode,
			Lat:         l.Lat,
			Lng:         l.Lng,
			Listed:      l.HasAvailability,
		})
	}

	var properties []models.Property
	if err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).Find(&properties).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được properties", err)
	}
	return SuggestPropertyMatches(remote, properties), nil
}

// SyncProperty reconcile các mảng được yêu cầu cho một sync row.
// Scope sync_rates_and_availability bỏ qua content; sync_undecided bỏ qua
// mọi chiều đẩy. Mỗi mảng ghi SyncLog riêng, lỗi một mảng không chặn mảng sau.
func (s *SyncService) SyncProperty(ctx context.Context, syncID uint, items []string) error {
	sync, err := s.GetSync(ctx, syncID)
	if err != nil {
		return err
	}
	if !sync.SyncEnabled {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "sync đang tắt cho listing này", nil)
	}
	if sync.Scope == constants.ScopeSyncUndecided {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "scope chưa được chọn cho listing này", nil)
	}

	account := sync.ChannelAccount
	property := sync.Property

	want := map[string]bool{}
	for _, item := range items {
		if item == constants.SyncItemAll {
			want[constants.SyncItemAvailability] = true
			want[constants.SyncItemContent] = true
			want[constants.SyncItemPricing] = true
			want[constants.SyncItemReservations] = true
			continue
		}
		want[item] = true
	}
	if sync.Scope == constants.ScopeSyncRatesAndAvailability {
		delete(want, constants.SyncItemContent)
	}

	s.appendLog(ctx, sync, constants.SyncLogSyncing, "bắt đầu reconcile")
	var firstErr error
	run := func(name string, fn func() error) {
		if !want[name] {
			return
		}
		if err := fn(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.appendLog(ctx, sync, constants.SyncLogError, name+": "+err.Error())
			return
		}
		s.appendLog(ctx, sync, constants.SyncLogSynced, name+" đã đồng bộ")
	}

	run(constants.SyncItemContent, func() error {
		return s.pushContent(ctx, &account, sync, &property)
	})
	run(constants.SyncItemPricing, func() error {
		return s.pushPricing(ctx, &account, sync, &property)
	})
	run(constants.SyncItemAvailability, func() error {
		return s.pushAvailability(ctx, &account, sync, &property)
	})
	run(constants.SyncItemReservations, func() error {
		return s.pullReservations(ctx, &account, sync, &property)
	})

	if firstErr != nil {
		return apperrors.NewAppError(apperrors.ErrCodeSyncFailed, "reconcile có mảng thất bại", firstErr)
	}
	return nil
}

// pushContent đẩy listing, mô tả, phòng và ảnh
func (s *SyncService) pushContent(ctx context.Context, account *models.ChannelAccount, sync *models.ChannelSync, p *models.Property) error {
	listing := airbnb.TranslateListing(p)
	listing.ID = sync.ExternalID
	if _, err := s.client.PushListing(ctx, account, listing); err != nil {
		return err
	}

	if p.Descriptions != nil {
		if err := s.client.PushDescriptions(ctx, account, sync.ExternalID,
			airbnb.TranslateDescriptions(p.Descriptions, p.Name)); err != nil {
			return err
		}
	}

	if len(p.Rooms) > 0 {
		if err := s.client.PushListingRooms(ctx, account, airbnb.TranslateRooms(sync.ExternalID, p.Rooms)); err != nil {
			return err
		}
	}

	if len(p.Images) > 0 {
		photos := make([]dto.AirbnbPhoto, 0, len(p.Images))
		for i := range p.Images {
			img := &p.Images[i]
			body, err := s.photos.FetchBody(ctx, img)
			if err != nil {
				return err
			}
			photos = append(photos, airbnb.TranslatePhoto(sync.ExternalID, img, body))
		}
		pushed, err := s.client.PushPhotos(ctx, account, photos)
		if err != nil {
			return err
		}
		for i := range pushed {
			if i < len(p.Images) && p.Images[i].ExternalID == "" && pushed[i].ID != "" {
				p.Images[i].ExternalID = pushed[i].ID
				if err := s.db.WithContext(ctx).Save(&p.Images[i]).Error; err != nil {
					s.logger.Error("không lưu được external id ảnh %d: %v", p.Images[i].ID, err)
				}
			}
		}
	}
	return nil
}

// pushPricing đẩy pricing settings và booking settings
func (s *SyncService) pushPricing(ctx context.Context, account *models.ChannelAccount, sync *models.ChannelSync, p *models.Property) error {
	if p.PricingSettings != nil {
		settings, err := airbnb.TranslatePricingSettings(sync.ExternalID, p.PricingSettings, p.Fees)
		if err != nil {
			return err
		}
		if err := s.client.PushPricingSettings(ctx, account, sync.ExternalID, settings); err != nil {
			return err
		}
	}
	if p.BookingSettings != nil {
		settings, err := airbnb.TranslateBookingSettings(sync.ExternalID, p.BookingSettings)
		if err != nil {
			return err
		}
		if err := s.client.PushBookingSettings(ctx, account, sync.ExternalID, settings); err != nil {
			return err
		}
	}
	return nil
}

// pushAvailability đẩy availability rule và toàn bộ calendar operations
func (s *SyncService) pushAvailability(ctx context.Context, account *models.ChannelAccount, sync *models.ChannelSync, p *models.Property) error {
	if p.AvailabilitySettings != nil {
		rule, err := airbnb.TranslateAvailabilityRule(sync.ExternalID, p.AvailabilitySettings)
		if err != nil {
			return err
		}
		if err := s.client.PushAvailabilityRule(ctx, account, sync.ExternalID, rule); err != nil {
			return err
		}
	}

	var reservations []models.Reservation
	if err := s.db.WithContext(ctx).Where("property_id = ?", p.ID).Find(&reservations).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được reservations", err)
	}
	var blockings []models.Blocking
	if err := s.db.WithContext(ctx).Where("property_id = ?", p.ID).Find(&blockings).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được blockings", err)
	}
	var events []models.ExternalCalendarEvent
	err := s.db.WithContext(ctx).
		Joins("JOIN calendars ON calendars.id = external_calendar_events.calendar_id").
		Where("calendars.property_id = ?", p.ID).
		Find(&events).Error
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được calendar events", err)
	}

	ops := airbnb.BuildCalendarOperations(time.Now(), reservations, blockings, events)
	return s.client.PushCalendarOperations(ctx, account, &dto.AirbnbCalendarOperationsRequest{
		ListingID:  sync.ExternalID,
		Operations: ops,
	})
}

// pullReservations kéo reservation phía channel về và upsert idempotent
func (s *SyncService) pullReservations(ctx context.Context, account *models.ChannelAccount, sync *models.ChannelSync, p *models.Property) error {
	reservations, err := s.client.GetReservations(ctx, account, sync.ExternalID)
	if err != nil {
		return err
	}
	now := time.Now()
	for i := range reservations {
		payload := &reservations[i]
		incoming, err := airbnb.ReservationToCanonical(payload, p.ID, now)
		if err != nil {
			s.logger.Error("sync %d: reservation %s không hợp lệ: %v", sync.ID, payload.ConfirmationCode, err)
			continue
		}
		shadow := airbnb.BuildExternalReservation(payload, 0, nil)
		contact := airbnb.GuestToContact(payload, p.OrganizationID)
		if _, _, err := s.reservations.UpsertFromChannel(ctx, incoming, shadow, contact); err != nil {
			s.logger.Error("sync %d: không upsert được reservation %s: %v", sync.ID, payload.ConfirmationCode, err)
		}
	}
	return nil
}

// SetScope đổi scope đồng bộ và báo channel
func (s *SyncService) SetScope(ctx context.Context, syncID uint, scope string) (*models.ChannelSync, error) {
	sync, err := s.GetSync(ctx, syncID)
	if err != nil {
		return nil, err
	}
	sync.Scope = scope
	if err := s.db.WithContext(ctx).Save(sync).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được scope", err)
	}
	if scope != constants.ScopeSyncUndecided {
		if err := s.client.PushLink(ctx, &sync.ChannelAccount, sync.ExternalID, scope); err != nil {
			return sync, err
		}
	}
	return sync, nil
}

// EnabledSyncs liệt kê các sync đang bật, dùng cho scheduler
func (s *SyncService) EnabledSyncs(ctx context.Context) ([]models.ChannelSync, error) {
	var syncs []models.ChannelSync
	err := s.db.WithContext(ctx).
		Where("sync_enabled = ? AND scope <> ?", true, constants.ScopeSyncUndecided).
		Find(&syncs).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không liệt kê được channel syncs", err)
	}
	return syncs, nil
}

// markFailed ghi nhận publish thất bại
func (s *SyncService) markFailed(ctx context.Context, sync *models.ChannelSync, cause error) {
	sync.ListingStatus = constants.ListingStatusFailedPublish
	sync.Notes = cause.Error()
	if err := s.db.WithContext(ctx).Save(sync).Error; err != nil {
		s.logger.Error("không lưu được trạng thái failed cho sync %d: %v", sync.ID, err)
	}
	s.appendLog(ctx, sync, constants.SyncLogError, cause.Error())
}

// loadFullProperty đọc property kèm mọi quan hệ cần cho export
func (s *SyncService) loadFullProperty(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).
		Preload("Descriptions").Preload("BookingSettings").Preload("PricingSettings").
		Preload("AvailabilitySettings").Preload("BasicAmenities").Preload("Suitability").
		Preload("Images").Preload("Rooms").Preload("Rooms.Beds").
		Preload("Fees").Preload("Rates").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPropertyNotFound
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được property", err)
	}
	return &p, nil
}
