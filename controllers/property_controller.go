package controllers

import (
	"strconv"

	apperrors "rentalsync/errors"
	"rentalsync/middleware"
	"rentalsync/models"
	"rentalsync/response"
	"rentalsync/services"
	"rentalsync/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PropertyController đọc canonical store và quản lý ảnh property
type PropertyController struct {
	db     *gorm.DB
	photos *services.PhotoService
}

// NewPropertyController tạo PropertyController mới
func NewPropertyController(db *gorm.DB, photos *services.PhotoService) *PropertyController {
	return &PropertyController{db: db, photos: photos}
}

// GetProperties trả về property của organization
func (ctl *PropertyController) GetProperties(c *gin.Context) {
	orgID := middleware.OrgID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	tx := ctl.db.Model(&models.Property{}).Where("organization_id = ?", orgID)
	if err := tx.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var properties []models.Property
	err := ctl.db.Where("organization_id = ?", orgID).
		Preload("Images").
		Preload("ChannelSyncs").
		Offset((page - 1) * limit).Limit(limit).
		Find(&properties).Error
	if err != nil {
		response.ServerError(c)
		return
	}
	response.SuccessWithPagination(c, properties, page, limit, int(total))
}

// GetProperty trả về chi tiết một property kèm cấu hình
func (ctl *PropertyController) GetProperty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	var property models.Property
	err = ctl.db.
		Preload("Descriptions").
		Preload("BookingSettings").
		Preload("PricingSettings").
		Preload("AvailabilitySettings").
		Preload("BasicAmenities").
		Preload("Suitability").
		Preload("Images").
		Preload("Rooms.Beds").
		Preload("Fees").
		Preload("Discounts").
		Preload("ChannelSyncs").
		First(&property, id).Error
	if err != nil {
		response.NotFound(c)
		return
	}
	response.Success(c, property)
}

// CheckReadiness kiểm tra property đã đủ điều kiện publish chưa.
// Trả về danh sách mã lỗi readiness nếu thiếu.
func (ctl *PropertyController) CheckReadiness(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	var property models.Property
	err = ctl.db.
		Preload("Descriptions").
		Preload("BookingSettings").
		Preload("BasicAmenities").
		Preload("Images").
		First(&property, id).Error
	if err != nil {
		response.NotFound(c)
		return
	}

	if err := validator.ValidateListingReadiness(&property); err != nil {
		if verrs, ok := err.(*apperrors.ValidationErrors); ok {
			response.ValidationErrors(c, verrs.Errors)
			return
		}
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, gin.H{"ready": true})
}

// ImportPhoto tải ảnh từ URL ngoài về Cloudinary và gắn vào property
func (ctl *PropertyController) ImportPhoto(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	var req struct {
		URL       string `json:"url" binding:"required,url"`
		Caption   string `json:"caption"`
		SortOrder int    `json:"sortOrder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	img, err := ctl.photos.ImportPhoto(c.Request.Context(), uint(id), req.URL, req.Caption, req.SortOrder)
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, img)
}

// DeletePhoto gỡ một ảnh khỏi property
func (ctl *PropertyController) DeletePhoto(c *gin.Context) {
	propertyID, err1 := strconv.ParseUint(c.Param("id"), 10, 32)
	imageID, err2 := strconv.ParseUint(c.Param("imageId"), 10, 32)
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	if err := ctl.photos.DeletePhoto(c.Request.Context(), uint(propertyID), uint(imageID)); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
