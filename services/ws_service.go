package services

import (
	"rentalsync/models"
	"rentalsync/services/logger"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// SyncBroadcaster đẩy sync log realtime cho dashboard qua websocket.
// Client lỗi chỉ log, không chặn flow sync.
type SyncBroadcaster struct {
	m      *melody.Melody
	logger logger.Logger
	audit  logger.Logger
}

// NewSyncBroadcaster tạo SyncBroadcaster mới
func NewSyncBroadcaster(m *melody.Melody, log logger.Logger) *SyncBroadcaster {
	return &SyncBroadcaster{m: m, logger: log}
}

// SetAudit thiết lập logger audit ghi lại mọi sync log đã phát
func (b *SyncBroadcaster) SetAudit(l logger.Logger) {
	b.audit = l
}

// syncLogEvent là khung message đẩy xuống websocket
type syncLogEvent struct {
	Type          string `json:"type"`
	ChannelSyncID uint   `json:"channelSyncId"`
	PropertyID    uint   `json:"propertyId"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	Date          string `json:"date"`
}

// BroadcastSyncLog đẩy một sync log mới cho mọi client đang kết nối
func (b *SyncBroadcaster) BroadcastSyncLog(sync *models.ChannelSync, entry *models.SyncLog) {
	if b == nil {
		return
	}
	if b.audit != nil {
		b.audit.Info("sync %d property %d [%s] %s", sync.ID, sync.PropertyID, entry.Status, entry.Message)
	}
	if b.m == nil {
		return
	}
	payload, err := json.Marshal(syncLogEvent{
		Type:          "sync_log",
		ChannelSyncID: sync.ID,
		PropertyID:    sync.PropertyID,
		Status:        entry.Status,
		Message:       entry.Message,
		Date:          entry.Date.Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		b.logger.Error("không marshal được sync log event: %v", err)
		return
	}
	if err := b.m.Broadcast(payload); err != nil {
		b.logger.Error("không broadcast được sync log: %v", err)
	}
}
