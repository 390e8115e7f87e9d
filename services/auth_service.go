package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentalsync/config"
	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

type UserInfo struct {
	UserId uint `json:"userid"`
	OrgId  uint `json:"orgid"`
	Role   int  `json:"role"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

const (
	accessTokenMinutes  = 60
	refreshTokenMinutes = 7 * 24 * 60
)

// AuthService quản lý tài khoản operator: đăng nhập, phát hành và
// kiểm tra token cho dashboard.
type AuthService struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewAuthService tạo AuthService mới
func NewAuthService(db *gorm.DB, log logger.Logger) *AuthService {
	return &AuthService{db: db, logger: log}
}

func accessSecret() []byte  { return []byte(config.GetEnv("SECRET_KEY_ACCESS_TOKEN")) }
func refreshSecret() []byte { return []byte(config.GetEnv("SECRET_KEY_REFRESH_TOKEN")) }

// GenerateToken phát hành JWT mang userinfo, hết hạn sau expiryMinutes phút
func GenerateToken(userInfo UserInfo, expiryMinutes int, isAccessToken bool) (string, error) {
	claims := &Claims{
		UserInfo: userInfo,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Minute * time.Duration(expiryMinutes)).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secretKeyToUse := accessSecret()
	if !isAccessToken {
		secretKeyToUse = refreshSecret()
	}
	return token.SignedString(secretKeyToUse)
}

// ParseToken kiểm tra chữ ký và hạn của token, trả claims bên trong
func ParseToken(tokenString string, isAccessToken bool) (*Claims, error) {
	secretKeyToUse := accessSecret()
	if !isAccessToken {
		secretKeyToUse = refreshSecret()
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "thuật toán ký không hợp lệ", nil)
		}
		return secretKeyToUse, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperrors.NewAppError(apperrors.ErrCodeTokenExpired, "token đã hết hạn", err)
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "token không hợp lệ", err)
	}
	if !token.Valid {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "token không hợp lệ", nil)
	}
	return claims, nil
}

// GetUserInfoFromToken đọc userinfo từ access token, dùng trong middleware
func GetUserInfoFromToken(tokenString string) (UserInfo, error) {
	claims, err := ParseToken(tokenString, true)
	if err != nil {
		return UserInfo{}, err
	}
	return claims.UserInfo, nil
}

// HashPassword băm mật khẩu bằng bcrypt
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPassword so mật khẩu thô với hash đã lưu
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// CreateUser tạo tài khoản operator mới trong một organization
func (s *AuthService) CreateUser(ctx context.Context, input *models.User) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "không được để trống email, password", nil)
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBDuplicate, "email đã được sử dụng", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không kiểm tra được email", err)
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeService, "không băm được mật khẩu", err)
	}
	input.Password = hashedPassword

	if err := s.db.WithContext(ctx).Create(input).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không tạo được user", err)
	}
	s.logger.Info("Đã tạo user %d (org %d)", input.ID, input.OrganizationID)
	return input, nil
}

// Login xác thực email/mật khẩu và phát hành cặp access/refresh token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "email hoặc mật khẩu không đúng", nil)
	}
	if err != nil {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được user", err)
	}
	if !CheckPassword(user.Password, password) {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "email hoặc mật khẩu không đúng", nil)
	}

	return s.issueTokens(&user)
}

// LoginWithGoogle xác thực Google ID token rồi đăng nhập theo email bên trong.
// Chỉ nhận email đã có tài khoản, không tự tạo mới.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*models.User, string, string, error) {
	payload, err := idtoken.Validate(ctx, idToken, config.GetEnv("GOOGLE_CLIENT_ID"))
	if err != nil {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Google token không hợp lệ", err)
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Google token không có email", nil)
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "email chưa có tài khoản", nil)
	}
	if err != nil {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được user", err)
	}

	return s.issueTokens(&user)
}

// RefreshTokens đổi refresh token hợp lệ lấy cặp token mới
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	claims, err := ParseToken(refreshToken, false)
	if err != nil {
		return nil, "", "", err
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, claims.UserInfo.UserId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "user không còn tồn tại", nil)
	}
	if err != nil {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được user", err)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) issueTokens(user *models.User) (*models.User, string, string, error) {
	info := UserInfo{UserId: user.ID, OrgId: user.OrganizationID, Role: user.Role}

	accessToken, err := GenerateToken(info, accessTokenMinutes, true)
	if err != nil {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeService, "không phát hành được access token", err)
	}
	refreshToken, err := GenerateToken(info, refreshTokenMinutes, false)
	if err != nil {
		return nil, "", "", apperrors.NewAppError(apperrors.ErrCodeService, "không phát hành được refresh token", err)
	}
	return user, accessToken, refreshToken, nil
}
