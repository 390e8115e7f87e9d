package controllers

import (
	"strconv"
	"time"

	"rentalsync/builders"
	"rentalsync/constants"
	"rentalsync/response"
	"rentalsync/services"
	"rentalsync/validator"

	"github.com/gin-gonic/gin"
)

// ReservationController quản lý reservation tạo trực tiếp (ngoài channel)
type ReservationController struct {
	reservations *services.ReservationService
}

// NewReservationController tạo ReservationController mới
func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{reservations: reservations}
}

type reservationRequest struct {
	PropertyID         uint   `json:"propertyId" binding:"required"`
	ContactID          uint   `json:"contactId"`
	CheckIn            string `json:"checkIn" binding:"required"` // YYYY-MM-DD
	CheckOut           string `json:"checkOut" binding:"required"`
	Adults             int    `json:"adults" binding:"required,min=1"`
	Children           int    `json:"children"`
	Infants            int    `json:"infants"`
	Pets               int    `json:"pets"`
	CancellationPolicy string `json:"cancellationPolicy"`
}

// GetReservation trả về chi tiết reservation kèm dòng giá
func (ctl *ReservationController) GetReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	res, err := ctl.reservations.GetReservation(c.Request.Context(), uint(id))
	if err != nil {
		response.NotFound(c)
		return
	}
	response.Success(c, res)
}

// CreateReservation tạo reservation trực tiếp: kiểm tra trống,
// kiểm tra ràng buộc lưu trú, tính giá rồi phát confirmation code.
func (ctl *ReservationController) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	checkIn, err1 := time.Parse(dateLayout, req.CheckIn)
	checkOut, err2 := time.Parse(dateLayout, req.CheckOut)
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "Ngày phải theo định dạng YYYY-MM-DD")
		return
	}

	builder := builders.NewReservationBuilder().
		WithProperty(req.PropertyID).
		WithDates(checkIn, checkOut).
		WithStatus(constants.ReservationStatusAccepted).
		WithSource(constants.SourceApp).
		WithGuests(req.Adults, req.Children, req.Infants, req.Pets).
		WithCancellationPolicy(req.CancellationPolicy)
	if req.ContactID != 0 {
		builder = builder.WithContact(req.ContactID)
	}
	res := builder.Build()

	if err := validator.ValidateReservation(res); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := ctl.reservations.CreateReservation(c.Request.Context(), res); err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, res)
}

// AcceptReservation chấp nhận một reservation đang chờ
func (ctl *ReservationController) AcceptReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	res, err := ctl.reservations.Accept(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, res)
}

// DeclineReservation từ chối một reservation đang chờ
func (ctl *ReservationController) DeclineReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	res, err := ctl.reservations.Decline(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, res)
}

// CancelReservation hủy một reservation đã chấp nhận
func (ctl *ReservationController) CancelReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	res, err := ctl.reservations.Cancel(c.Request.Context(), uint(id), req.Reason)
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, res)
}

// AddRefund ghi một khoản hoàn tiền cho reservation
func (ctl *ReservationController) AddRefund(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	res, err := ctl.reservations.AddRefund(c.Request.Context(), uint(id), req.Amount, req.Reason)
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, res)
}
