package middleware

import (
	"bytes"
	"crypto/rsa"
	"io"

	"rentalsync/response"
	"rentalsync/services/airbnb"

	"github.com/gin-gonic/gin"
)

// SignatureMiddleware kiểm tra chữ ký RSA-SHA256 trên webhook đến từ channel.
// Đây là chỗ duy nhất webhook được phép trả non-200: request không có hoặc
// sai chữ ký chưa phải là event hợp lệ nên chưa vào hợp đồng luôn-200.
func SignatureMiddleware(pub *rsa.PublicKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pub == nil {
			c.Next()
			return
		}

		sig := airbnb.ParseSignatureHeader(c.GetHeader("Authorization"))
		if sig == "" {
			response.WebhookUnauthorized(c, "Missing signature")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.WebhookUnauthorized(c, "Invalid signature")
			c.Abort()
			return
		}
		// Trả body lại cho controller bind tiếp
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		payload := airbnb.CanonicalPayload(
			c.Request.Host,
			c.Request.URL.Path,
			c.Request.Method,
			c.GetHeader("Date"),
			c.GetHeader("Content-Type"),
			body,
		)
		if err := airbnb.VerifySignature(pub, payload, sig); err != nil {
			response.WebhookUnauthorized(c, "Invalid signature")
			c.Abort()
			return
		}

		c.Next()
	}
}
