package controllers

import (
	"rentalsync/models"
	"rentalsync/response"
	"rentalsync/services"

	"github.com/gin-gonic/gin"
)

// AuthController xử lý đăng nhập và tài khoản operator
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController tạo AuthController mới
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	OrganizationID uint   `json:"organizationId" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Name           string `json:"name"`
}

// Login đăng nhập bằng email/mật khẩu
func (ctl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	user, accessToken, refreshToken, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	response.Success(c, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// LoginGoogle đăng nhập bằng Google ID token
func (ctl *AuthController) LoginGoogle(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	user, accessToken, refreshToken, err := ctl.auth.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	response.Success(c, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Register tạo tài khoản operator mới
func (ctl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	user, err := ctl.auth.CreateUser(c.Request.Context(), &models.User{
		OrganizationID: req.OrganizationID,
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
	})
	if err != nil {
		response.Error(c, 0, err.Error())
		return
	}
	response.Success(c, user)
}

// Refresh đổi refresh token lấy cặp token mới
func (ctl *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	user, accessToken, refreshToken, err := ctl.auth.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	response.Success(c, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}
