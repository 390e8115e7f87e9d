package commands

import (
	"context"

	"rentalsync/models"
	"rentalsync/services"
)

// SyncCommand định nghĩa interface cho các command đồng bộ
type SyncCommand interface {
	Execute(ctx context.Context) error
}

// SyncItemsCommand command đẩy một nhóm item của một ChannelSync
type SyncItemsCommand struct {
	syncID uint
	items  []string
	svc    *services.SyncService
}

func NewSyncItemsCommand(syncID uint, items []string, svc *services.SyncService) *SyncItemsCommand {
	return &SyncItemsCommand{
		syncID: syncID,
		items:  items,
		svc:    svc,
	}
}

func (c *SyncItemsCommand) Execute(ctx context.Context) error {
	return c.svc.SyncProperty(ctx, c.syncID, c.items)
}

// ExportListingCommand command đẩy một property mới lên channel
type ExportListingCommand struct {
	accountID  uint
	propertyID uint
	svc        *services.SyncService
	sync       *models.ChannelSync
}

func NewExportListingCommand(accountID, propertyID uint, svc *services.SyncService) *ExportListingCommand {
	return &ExportListingCommand{
		accountID:  accountID,
		propertyID: propertyID,
		svc:        svc,
	}
}

func (c *ExportListingCommand) Execute(ctx context.Context) error {
	sync, err := c.svc.Export(ctx, c.accountID, c.propertyID)
	c.sync = sync
	return err
}

// Sync trả về ChannelSync kết quả sau Execute; có thể khác nil kể cả khi
// Execute lỗi (ví dụ listing chưa đạt readiness)
func (c *ExportListingCommand) Sync() *models.ChannelSync { return c.sync }

// ImportListingCommand command kéo một listing từ channel về canonical store
type ImportListingCommand struct {
	orgID      uint
	accountID  uint
	externalID string
	svc        *services.SyncService
	sync       *models.ChannelSync
}

func NewImportListingCommand(orgID, accountID uint, externalID string, svc *services.SyncService) *ImportListingCommand {
	return &ImportListingCommand{
		orgID:      orgID,
		accountID:  accountID,
		externalID: externalID,
		svc:        svc,
	}
}

func (c *ImportListingCommand) Execute(ctx context.Context) error {
	sync, err := c.svc.Import(ctx, c.orgID, c.accountID, c.externalID)
	c.sync = sync
	return err
}

// Sync trả về ChannelSync kết quả sau Execute
func (c *ImportListingCommand) Sync() *models.ChannelSync { return c.sync }

// UnlinkCommand command gỡ liên kết một ChannelSync
type UnlinkCommand struct {
	syncID uint
	svc    *services.SyncService
}

func NewUnlinkCommand(syncID uint, svc *services.SyncService) *UnlinkCommand {
	return &UnlinkCommand{
		syncID: syncID,
		svc:    svc,
	}
}

func (c *UnlinkCommand) Execute(ctx context.Context) error {
	return c.svc.Unlink(ctx, c.syncID)
}
