package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"rentalsync/constants"
	"rentalsync/dto"
	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/airbnb"
	"rentalsync/services/logger"

	"gorm.io/gorm"
)

// availabilityProbeTestID là listing id đặc biệt channel dùng để thử webhook
const availabilityProbeTestID = "0"

// WebhookResult là outcome của một webhook handler.
// Available phân biệt availability probe ({available}) với các action
// còn lại ({succeed}). FailureCode có thể nil kể cả khi thất bại.
type WebhookResult struct {
	Available   bool
	OK          bool
	FailureCode *string
}

func succeedResult(ok bool) *WebhookResult  { return &WebhookResult{OK: ok} }
func availableResult(ok bool) *WebhookResult { return &WebhookResult{Available: true, OK: ok} }

// WebhookService route notification inbound tới handler theo action và áp
// hiệu ứng idempotent lên canonical store. Handler cùng external identifier
// được serialize; identifier khác chạy song song.
type WebhookService struct {
	db           *gorm.DB
	client       *airbnb.Client
	availability *AvailabilityService
	reservations *ReservationService
	logger       logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWebhookService tạo WebhookService mới
func NewWebhookService(db *gorm.DB, client *airbnb.Client, availability *AvailabilityService,
	reservations *ReservationService, log logger.Logger) *WebhookService {
	return &WebhookService{
		db:           db,
		client:       client,
		availability: availability,
		reservations: reservations,
		logger:       log,
		locks:        map[string]*sync.Mutex{},
	}
}

func (s *WebhookService) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// lockKey chọn external identifier để serialize handler
func lockKey(event *dto.WebhookEvent) string {
	switch {
	case event.ConfirmationCode != "":
		return "code:" + event.ConfirmationCode
	case event.Reservation != nil && event.Reservation.ConfirmationCode != "":
		return "code:" + event.Reservation.ConfirmationCode
	case event.Message != nil && event.Message.ID != "":
		return "msg:" + event.Message.ID
	case event.ListingID != "":
		return "listing:" + event.ListingID
	case event.HostID != "":
		return "host:" + event.HostID
	}
	return "event"
}

// Handle route một event tới handler. Action lạ được nhận và log,
// không có side effect.
func (s *WebhookService) Handle(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	lock := s.lockFor(lockKey(event))
	lock.Lock()
	defer lock.Unlock()

	switch event.Action {
	case "check_availability":
		return s.handleAvailabilityProbe(ctx, event)
	case "reservation_request", "reservation_requested":
		return s.handleReservationRequest(ctx, event)
	case "reservation_acceptance_confirmation",
		"reservation_alteration_confirmation",
		"reservation_cancellation_confirmation",
		"reservation_request_voided":
		return s.handleReservationConfirmation(ctx, event)
	case "listing_approval_status_changed":
		return s.handleApprovalStatusChanged(ctx, event)
	case "listing_synchronization_settings_updated":
		return s.handleSyncSettingsUpdated(ctx, event)
	case "listings_unlinked":
		return s.handleListingsUnlinked(ctx, event)
	case "authorization_revoked":
		return s.handleAuthorizationRevoked(ctx, event)
	case "message_added":
		return s.handleMessageAdded(ctx, event)
	case "notification":
		s.logger.Info("webhook notification: listing=%s", event.ListingID)
		return succeedResult(true)
	}

	s.logger.Info("webhook action lạ %q, bỏ qua", event.Action)
	return succeedResult(true)
}

// handleAvailabilityProbe trả lời {available} cho một cửa sổ ngày.
// Reservation đang hỏi (theo confirmation code) không tự chặn chính nó.
func (s *WebhookService) handleAvailabilityProbe(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	if event.ListingID == availabilityProbeTestID {
		return availableResult(true)
	}

	sync, err := s.findSync(ctx, event.ListingID)
	if err != nil {
		s.logger.Error("availability probe: listing %s chưa link: %v", event.ListingID, err)
		return availableResult(false)
	}
	from, err := time.Parse("2006-01-02", event.StartDate)
	if err != nil || event.Nights <= 0 {
		s.logger.Error("availability probe: cửa sổ ngày không hợp lệ (%s, %d đêm)", event.StartDate, event.Nights)
		return availableResult(false)
	}
	to := from.AddDate(0, 0, event.Nights)

	if err := s.availability.CheckAvailabilityExcluding(ctx, sync.PropertyID, from, to, event.ConfirmationCode); err != nil {
		return availableResult(false)
	}
	return availableResult(true)
}

// handleReservationRequest là probe tiền xác nhận: nếu cửa sổ trống thì
// upsert reservation Inquiry kèm shadow is_preconfirmed.
func (s *WebhookService) handleReservationRequest(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	payload := event.Reservation
	if payload == nil {
		s.logger.Error("reservation request thiếu payload reservation")
		return succeedResult(false)
	}
	sync, err := s.findSync(ctx, firstNonEmpty(payload.ListingID, event.ListingID))
	if err != nil {
		s.logger.Error("reservation request: listing chưa link: %v", err)
		return succeedResult(false)
	}

	now := time.Now()
	incoming, err := airbnb.ReservationToCanonical(payload, sync.PropertyID, now)
	if err != nil {
		s.logger.Error("reservation request: payload không hợp lệ: %v", err)
		return succeedResult(false)
	}
	if err := s.availability.CheckAvailabilityExcluding(ctx, sync.PropertyID,
		incoming.StartDate, incoming.EndDate, payload.ConfirmationCode); err != nil {
		return succeedResult(false)
	}

	incoming.Status = constants.ReservationStatusInquiry
	shadow := airbnb.BuildExternalReservation(payload, 0, nil)
	shadow.IsPreconfirmed = true
	contact := airbnb.GuestToContact(payload, sync.Property.OrganizationID)
	if _, _, err := s.reservations.UpsertFromChannel(ctx, incoming, shadow, contact); err != nil {
		s.logger.Error("reservation request: không upsert được: %v", err)
		return succeedResult(false)
	}
	return succeedResult(true)
}

// handleReservationConfirmation áp một thay đổi reservation đã xác nhận
// (accept, alter, cancel, void). Payload thiếu thì fetch lại theo
// confirmation code từ channel.
func (s *WebhookService) handleReservationConfirmation(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	payload := event.Reservation
	code := event.ConfirmationCode
	if payload != nil && payload.ConfirmationCode != "" {
		code = payload.ConfirmationCode
	}
	if code == "" {
		s.logger.Error("webhook %s thiếu confirmation code", event.Action)
		return succeedResult(false)
	}

	sync, err := s.findSync(ctx, firstNonEmpty(listingIDOf(payload), event.ListingID))
	if err != nil {
		s.logger.Error("webhook %s: listing chưa link: %v", event.Action, err)
		return succeedResult(false)
	}

	if payload == nil {
		payload, err = s.client.GetReservationByConfirmationCode(ctx, &sync.ChannelAccount, code)
		if err != nil {
			s.logger.Error("webhook %s: không fetch được reservation %s: %v", event.Action, code, err)
			return succeedResult(false)
		}
	}

	incoming, err := airbnb.ReservationToCanonical(payload, sync.PropertyID, time.Now())
	if err != nil {
		s.logger.Error("webhook %s: payload không hợp lệ: %v", event.Action, err)
		return succeedResult(false)
	}
	// action thắng status_type khi payload không mang status rõ ràng
	switch event.Action {
	case "reservation_cancellation_confirmation":
		incoming.Status = constants.ReservationStatusCancelled
	case "reservation_request_voided":
		incoming.Status = constants.ReservationStatusDeclined
	}

	shadow := airbnb.BuildExternalReservation(payload, 0, nil)
	contact := airbnb.GuestToContact(payload, sync.Property.OrganizationID)
	if _, _, err := s.reservations.UpsertFromChannel(ctx, incoming, shadow, contact); err != nil {
		s.logger.Error("webhook %s: không upsert được reservation %s: %v", event.Action, code, err)
		return succeedResult(false)
	}
	return succeedResult(true)
}

// approvalStatusTable dịch approval status phía channel về canonical
var approvalStatusTable = map[string]string{
	"ready_for_review": constants.ApprovalStatusReadyForReview,
	"approved":         constants.ApprovalStatusApproved,
	"rejected":         constants.ApprovalStatusRejected,
	"new":              constants.ApprovalStatusNew,
}

// handleApprovalStatusChanged cập nhật approval status của sync row.
// Approved xóa note lỗi cũ; nếu auto push đang bật và listing còn init
// thì đẩy luôn trạng thái listed.
func (s *WebhookService) handleApprovalStatusChanged(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	sync, err := s.findSync(ctx, event.ListingID)
	if err != nil {
		s.logger.Error("approval change: listing %s chưa link: %v", event.ListingID, err)
		return succeedResult(false)
	}

	status, known := approvalStatusTable[event.ListingApprovalStatus]
	if !known {
		s.logger.Info("approval status lạ %q cho listing %s", event.ListingApprovalStatus, event.ListingID)
		return succeedResult(true)
	}

	sync.ApprovalStatus = status
	switch status {
	case constants.ApprovalStatusApproved:
		sync.Notes = ""
	case constants.ApprovalStatusRejected:
		if len(event.ApprovalNotes) > 0 {
			sync.Notes = joinNotes(event.ApprovalNotes)
		}
	}
	if err := s.db.WithContext(ctx).Save(sync).Error; err != nil {
		s.logger.Error("approval change: không lưu được sync %d: %v", sync.ID, err)
		return succeedResult(false)
	}

	if status == constants.ApprovalStatusApproved && sync.AutoPushEnabled &&
		sync.ListingStatus == constants.ListingStatusInit {
		if err := s.client.PushListingStatus(ctx, &sync.ChannelAccount, sync.ExternalID, true); err != nil {
			s.logger.Error("approval change: không đẩy được trạng thái listed cho %s: %v", sync.ExternalID, err)
			return succeedResult(false)
		}
		sync.ListingStatus = constants.ListingStatusListed
		if err := s.db.WithContext(ctx).Save(sync).Error; err != nil {
			s.logger.Error("approval change: không lưu được listing status: %v", err)
			return succeedResult(false)
		}
	}
	return succeedResult(true)
}

// handleSyncSettingsUpdated cập nhật scope theo lựa chọn của host phía channel
func (s *WebhookService) handleSyncSettingsUpdated(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	if event.Updates == nil {
		s.logger.Error("sync settings update thiếu payload updates")
		return succeedResult(false)
	}
	sync, err := s.findSync(ctx, event.ListingID)
	if err != nil {
		s.logger.Error("sync settings update: listing %s chưa link: %v", event.ListingID, err)
		return succeedResult(false)
	}
	switch event.Updates.SynchronizationCategory {
	case constants.ScopeSyncAll, constants.ScopeSyncRatesAndAvailability, constants.ScopeSyncUndecided:
		sync.Scope = event.Updates.SynchronizationCategory
	default:
		s.logger.Info("synchronization category lạ %q", event.Updates.SynchronizationCategory)
		return succeedResult(true)
	}
	if err := s.db.WithContext(ctx).Save(sync).Error; err != nil {
		s.logger.Error("sync settings update: không lưu được sync %d: %v", sync.ID, err)
		return succeedResult(false)
	}
	return succeedResult(true)
}

// handleListingsUnlinked gỡ các sync row tương ứng; channel đã tự gỡ phía nó
func (s *WebhookService) handleListingsUnlinked(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	ids := event.ListingIDs
	if len(ids) == 0 && event.ListingID != "" {
		ids = []string{event.ListingID}
	}
	for _, id := range ids {
		err := s.db.WithContext(ctx).
			Where("external_id = ?", id).
			Select("Logs").
			Delete(&models.ChannelSync{}).Error
		if err != nil {
			s.logger.Error("unlink webhook: không xóa được sync cho listing %s: %v", id, err)
			return succeedResult(false)
		}
	}
	return succeedResult(true)
}

// handleAuthorizationRevoked xóa ChannelAccount theo host id cùng mọi sync
// phụ thuộc. Token đã chết phía channel, không gọi revoke ngược lại.
func (s *WebhookService) handleAuthorizationRevoked(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	var account models.ChannelAccount
	err := s.db.WithContext(ctx).Where("user_id = ?", event.HostID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// đã xóa từ trước, idempotent
		return succeedResult(true)
	}
	if err != nil {
		s.logger.Error("authorization revoked: không đọc được account host %s: %v", event.HostID, err)
		return succeedResult(false)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_account_id = ?", account.ID).Delete(&models.ChannelSync{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChannelAccount{}, account.ID).Error
	})
	if err != nil {
		s.logger.Error("authorization revoked: không xóa được account %d: %v", account.ID, err)
		return succeedResult(false)
	}
	return succeedResult(true)
}

// handleMessageAdded chèn tin nhắn mới vào conversation, idempotent theo
// (conversation, external message id). Tin nhắn trùng là no-op thành công.
func (s *WebhookService) handleMessageAdded(ctx context.Context, event *dto.WebhookEvent) *WebhookResult {
	msg := event.Message
	if msg == nil {
		s.logger.Error("message_added thiếu payload message")
		return succeedResult(false)
	}
	threadID := msg.ThreadID
	if threadID == "" && event.Thread != nil {
		threadID = event.Thread.ID
	}
	if threadID == "" {
		s.logger.Error("message_added thiếu thread id")
		return succeedResult(false)
	}

	conv, err := s.findOrCreateConversation(ctx, threadID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conv, err = s.recoverConversation(ctx, event, threadID)
	}
	if err != nil {
		s.logger.Error("message_added: không phân giải được thread %s: %v", threadID, err)
		return succeedResult(false)
	}

	record := airbnb.MessageToCanonical(msg, conv.ID)
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateKey(err) {
			return succeedResult(true)
		}
		s.logger.Error("message_added: không lưu được message %s: %v", msg.ID, err)
		return succeedResult(false)
	}
	return succeedResult(true)
}

// findOrCreateConversation phân giải thread id về conversation, tạo mới
// khi thread thuộc một reservation đã biết
func (s *WebhookService) findOrCreateConversation(ctx context.Context, threadID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).Where("thread_id = ?", threadID).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var shadow models.ExternalReservation
	err = s.db.WithContext(ctx).Where("thread_id = ?", threadID).First(&shadow).Error
	if err != nil {
		return nil, err
	}
	conv = models.Conversation{ReservationID: shadow.ReservationID, ThreadID: threadID}
	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// recoverConversation xử lý tin nhắn đến trước notification reservation:
// fetch reservation theo confirmation code từ channel, upsert canonical
// rồi mở conversation cho thread.
func (s *WebhookService) recoverConversation(ctx context.Context, event *dto.WebhookEvent, threadID string) (*models.Conversation, error) {
	code := event.ConfirmationCode
	if code == "" && event.Reservation != nil {
		code = event.Reservation.ConfirmationCode
	}
	if code == "" {
		return nil, apperrors.ErrReservationNotFound
	}

	sync, err := s.findSync(ctx, firstNonEmpty(listingIDOf(event.Reservation), event.ListingID))
	if err != nil {
		return nil, err
	}
	payload, err := s.client.GetReservationByConfirmationCode(ctx, &sync.ChannelAccount, code)
	if err != nil {
		return nil, err
	}
	incoming, err := airbnb.ReservationToCanonical(payload, sync.PropertyID, time.Now())
	if err != nil {
		return nil, err
	}
	shadow := airbnb.BuildExternalReservation(payload, 0, nil)
	if shadow.ThreadID == "" {
		shadow.ThreadID = threadID
	}
	contact := airbnb.GuestToContact(payload, sync.Property.OrganizationID)
	res, _, err := s.reservations.UpsertFromChannel(ctx, incoming, shadow, contact)
	if err != nil {
		return nil, err
	}

	conv := models.Conversation{ReservationID: res.ID, ThreadID: threadID}
	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	s.logger.Info("message_added: khôi phục reservation %s từ thread %s", code, threadID)
	return &conv, nil
}

// findSync phân giải external listing id về sync row kèm account và property
func (s *WebhookService) findSync(ctx context.Context, externalID string) (*models.ChannelSync, error) {
	if externalID == "" {
		return nil, apperrors.ErrSyncNotFound
	}
	var sync models.ChannelSync
	err := s.db.WithContext(ctx).
		Preload("ChannelAccount").Preload("Property").
		Where("external_id = ?", externalID).
		First(&sync).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrSyncNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sync, nil
}

func listingIDOf(r *dto.AirbnbReservation) string {
	if r == nil {
		return ""
	}
	return r.ListingID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNotes(notes []string) string {
	out := ""
	for i, n := range notes {
		if i > 0 {
			out += "; "
		}
		out += n
	}
	return out
}
