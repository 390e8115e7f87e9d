package controllers

import (
	"rentalsync/dto"
	"rentalsync/response"
	"rentalsync/services"

	"github.com/gin-gonic/gin"
)

// WebhookController nhận notification từ channel.
// Mọi event hợp lệ đều trả HTTP 200; thất bại nằm trong body.
type WebhookController struct {
	webhooks *services.WebhookService
}

// NewWebhookController tạo WebhookController mới
func NewWebhookController(webhooks *services.WebhookService) *WebhookController {
	return &WebhookController{webhooks: webhooks}
}

// HandleAirbnb xử lý webhook từ Airbnb
func (ctl *WebhookController) HandleAirbnb(c *gin.Context) {
	var event dto.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	result := ctl.webhooks.Handle(c.Request.Context(), &event)

	if result.Available {
		if result.OK {
			response.WebhookAvailable(c)
		} else {
			response.WebhookUnavailable(c, result.FailureCode)
		}
		return
	}
	if result.OK {
		response.WebhookSucceed(c)
	} else {
		response.WebhookFailed(c, result.FailureCode)
	}
}
