package middleware

import (
	"strings"

	"rentalsync/response"
	"rentalsync/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware xử lý authentication
func AuthMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		info, err := services.GetUserInfoFromToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		// Kiểm tra role nếu có yêu cầu
		if len(roles) > 0 {
			hasRole := false
			for _, role := range roles {
				if role == info.Role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				response.Forbidden(c)
				c.Abort()
				return
			}
		}

		// Lưu thông tin user vào context
		c.Set("userID", info.UserId)
		c.Set("orgID", info.OrgId)
		c.Set("userRole", info.Role)
		c.Next()
	}
}

// OrgID đọc organization id đã được AuthMiddleware gán vào context
func OrgID(c *gin.Context) uint {
	if v, ok := c.Get("orgID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
