package controllers

import (
	"fmt"
	"strconv"
	"time"

	"rentalsync/commands"
	"rentalsync/constants"
	"rentalsync/dto"
	"rentalsync/middleware"
	"rentalsync/models"
	"rentalsync/response"
	"rentalsync/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// fetchInventoryCacheTTL là thời gian cache kết quả fetch inventory
const fetchInventoryCacheTTL = 10 * time.Minute

// ChannelController quản lý account, link-action và reconcile thủ công
type ChannelController struct {
	db       *gorm.DB
	redisCli *redis.Client
	syncs    *services.SyncService
}

// NewChannelController tạo ChannelController mới
func NewChannelController(db *gorm.DB, redisCli *redis.Client, syncs *services.SyncService) *ChannelController {
	return &ChannelController{db: db, redisCli: redisCli, syncs: syncs}
}

// GetAccounts trả về các channel account của organization
func (ctl *ChannelController) GetAccounts(c *gin.Context) {
	orgID := middleware.OrgID(c)

	var accounts []models.ChannelAccount
	if err := ctl.db.Where("organization_id = ?", orgID).Find(&accounts).Error; err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, accounts)
}

// HandleLinkAction xử lý import/export/link/unlink cho một property
func (ctl *ChannelController) HandleLinkAction(c *gin.Context) {
	var req dto.LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	ctx := c.Request.Context()
	var sync *models.ChannelSync
	var err error
	switch req.Action {
	case constants.LinkActionImport:
		cmd := commands.NewImportListingCommand(middleware.OrgID(c), req.ChannelAccountID, req.ExternalID, ctl.syncs)
		err = cmd.Execute(ctx)
		sync = cmd.Sync()
	case constants.LinkActionExport:
		cmd := commands.NewExportListingCommand(req.ChannelAccountID, req.PropertyID, ctl.syncs)
		err = cmd.Execute(ctx)
		sync = cmd.Sync()
	default:
		sync, err = ctl.syncs.HandleLinkAction(ctx, middleware.OrgID(c), &req)
	}
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	if sync == nil {
		response.Success(c, gin.H{"unlinked": true})
		return
	}

	// Inventory phía channel đã đổi, cache fetch không còn đúng
	cacheKey := fmt.Sprintf("channel:fetch:%d", req.ChannelAccountID)
	_ = services.DeleteFromRedis(c.Request.Context(), ctl.redisCli, cacheKey)

	response.Success(c, syncView(sync))
}

// FetchInventory trả về listing phía channel chưa được link, kèm gợi ý
// property khớp tên. Kết quả được cache 10 phút theo account.
func (ctl *ChannelController) FetchInventory(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Query("accountId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "accountId không hợp lệ")
		return
	}

	cacheKey := fmt.Sprintf("channel:fetch:%d", accountID)
	var cached []dto.RemoteListingSummary
	if err := services.GetFromRedis(c.Request.Context(), ctl.redisCli, cacheKey, &cached); err == nil && len(cached) > 0 {
		response.Success(c, cached)
		return
	}

	remote, err := ctl.syncs.FetchInventory(c.Request.Context(), middleware.OrgID(c), uint(accountID))
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}

	if err := services.SetToRedis(c.Request.Context(), ctl.redisCli, cacheKey, remote, fetchInventoryCacheTTL); err != nil {
		// cache hỏng không chặn response
		_ = err
	}
	response.Success(c, remote)
}

// GetSync trả về chi tiết một ChannelSync kèm log
func (ctl *ChannelController) GetSync(c *gin.Context) {
	syncID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	sync, err := ctl.syncs.GetSync(c.Request.Context(), uint(syncID))
	if err != nil {
		response.NotFound(c)
		return
	}
	response.Success(c, sync)
}

// SetScope đổi synchronization category của một ChannelSync
func (ctl *ChannelController) SetScope(c *gin.Context) {
	syncID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	var req struct {
		Scope string `json:"scope" binding:"required,oneof=sync_all sync_rates_and_availability sync_undecided"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	sync, err := ctl.syncs.SetScope(c.Request.Context(), uint(syncID), req.Scope)
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, syncView(sync))
}

// TriggerSync chạy reconcile thủ công cho một property
func (ctl *ChannelController) TriggerSync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	var sync models.ChannelSync
	if err := ctl.db.Where("property_id = ?", req.PropertyID).First(&sync).Error; err != nil {
		response.NotFound(c)
		return
	}

	cmd := commands.NewSyncItemsCommand(sync.ID, req.SyncItems, ctl.syncs)
	if err := cmd.Execute(c.Request.Context()); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, gin.H{"synced": true})
}

// Unlink gỡ liên kết một ChannelSync
func (ctl *ChannelController) Unlink(c *gin.Context) {
	syncID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	cmd := commands.NewUnlinkCommand(uint(syncID), ctl.syncs)
	if err := cmd.Execute(c.Request.Context()); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, gin.H{"unlinked": true})
}

func syncView(sync *models.ChannelSync) dto.ChannelSyncView {
	return dto.ChannelSyncView{
		ID:             sync.ID,
		PropertyID:     sync.PropertyID,
		Channel:        sync.Channel,
		ExternalID:     sync.ExternalID,
		ApprovalStatus: sync.ApprovalStatus,
		ListingStatus:  sync.ListingStatus,
		Scope:          sync.Scope,
		SyncEnabled:    sync.SyncEnabled,
		Notes:          sync.Notes,
		UpdatedAt:      sync.UpdatedAt,
	}
}
