package controllers

import (
	"strconv"
	"time"

	"rentalsync/dto"
	"rentalsync/models"
	"rentalsync/response"
	"rentalsync/services"
	"rentalsync/validator"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// RateController quản lý rate và blocking của property
type RateController struct {
	rates        *services.RateService
	availability *services.AvailabilityService
}

// NewRateController tạo RateController mới
func NewRateController(rates *services.RateService, availability *services.AvailabilityService) *RateController {
	return &RateController{rates: rates, availability: availability}
}

// GetRates trả về rate của một property
func (ctl *RateController) GetRates(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Query("propertyId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "propertyId không hợp lệ")
		return
	}

	rates, err := ctl.rates.ListRates(c.Request.Context(), uint(propertyID))
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, rates)
}

// CreateRate chèn rate mới, các rate chồng lắp bị cắt/tách/xóa
func (ctl *RateController) CreateRate(c *gin.Context) {
	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	lower, err1 := time.Parse(dateLayout, req.Lower)
	upper, err2 := time.Parse(dateLayout, req.Upper)
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "Ngày phải theo định dạng YYYY-MM-DD")
		return
	}

	rate := &models.Rate{
		PropertyID:      req.PropertyID,
		Lower:           lower,
		Upper:           upper,
		Nightly:         req.Nightly,
		Weekend:         req.Weekend,
		Weekly:          req.Weekly,
		Monthly:         req.Monthly,
		ExtraPersonFee:  req.ExtraPersonFee,
		CleaningFee:     req.CleaningFee,
		SecurityDeposit: req.SecurityDeposit,
		Currency:        req.Currency,
		Seasonal:        req.Seasonal,
		Smart:           req.Smart,
	}
	if err := validator.ValidateRate(rate); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := ctl.rates.SetRate(c.Request.Context(), rate); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, rate)
}

// DeleteRate xóa một rate của property
func (ctl *RateController) DeleteRate(c *gin.Context) {
	propertyID, err1 := strconv.ParseUint(c.Query("propertyId"), 10, 32)
	rateID, err2 := strconv.ParseUint(c.Param("id"), 10, 32)
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	if err := ctl.rates.DeleteRate(c.Request.Context(), uint(propertyID), uint(rateID)); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetBlockings trả về blocking của một property
func (ctl *RateController) GetBlockings(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Query("propertyId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "propertyId không hợp lệ")
		return
	}

	blockings, err := ctl.availability.ListBlockings(c.Request.Context(), uint(propertyID))
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, blockings)
}

// CreateBlocking chặn một khoảng ngày của property
func (ctl *RateController) CreateBlocking(c *gin.Context) {
	var req dto.BlockingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	lower, err1 := time.Parse(dateLayout, req.Lower)
	upper, err2 := time.Parse(dateLayout, req.Upper)
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "Ngày phải theo định dạng YYYY-MM-DD")
		return
	}

	blocking := &models.Blocking{
		PropertyID: req.PropertyID,
		Lower:      lower,
		Upper:      upper,
		Summary:    req.Summary,
	}
	if err := validator.ValidateBlocking(blocking); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := ctl.availability.CreateBlocking(c.Request.Context(), blocking); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, blocking)
}

// DeleteBlocking xóa một blocking của property
func (ctl *RateController) DeleteBlocking(c *gin.Context) {
	propertyID, err1 := strconv.ParseUint(c.Query("propertyId"), 10, 32)
	blockingID, err2 := strconv.ParseUint(c.Param("id"), 10, 32)
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	if err := ctl.availability.DeleteBlocking(c.Request.Context(), uint(propertyID), uint(blockingID)); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
