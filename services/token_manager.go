package services

import (
	"context"
	"sync"
	"time"

	"rentalsync/dto"
	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"

	"gorm.io/gorm"
)

// TokenSafetyMargin là biên an toàn trước expiry khi dùng lại token cũ
const TokenSafetyMargin = 60 * time.Second

// TokenRefresher là phần token-lifecycle của channel client
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AirbnbTokenResponse, error)
	RevokeToken(ctx context.Context, accessToken string) error
	CheckToken(ctx context.Context, accessToken string) error
}

// TokenManager giữ và refresh OAuth credential theo từng ChannelAccount.
// Refresh của cùng một account được serialize; account khác chạy song song.
type TokenManager struct {
	db        *gorm.DB
	refresher TokenRefresher
	logger    logger.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewTokenManager tạo TokenManager mới
func NewTokenManager(db *gorm.DB, log logger.Logger) *TokenManager {
	return &TokenManager{
		db:     db,
		logger: log,
		locks:  map[uint]*sync.Mutex{},
	}
}

// SetRefresher gắn channel client sau khi khởi tạo (tránh phụ thuộc vòng)
func (m *TokenManager) SetRefresher(r TokenRefresher) {
	m.refresher = r
}

func (m *TokenManager) lockFor(accountID uint) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[accountID] = l
	}
	return l
}

// GetValidAccessToken trả về access token còn hạn; refresh nếu sắp hết hạn.
// Reader snapshot không cần lock; chỉ refresh mới serialize theo account.
func (m *TokenManager) GetValidAccessToken(ctx context.Context, account *models.ChannelAccount) (string, error) {
	if time.Until(account.ExpiresAt) > TokenSafetyMargin {
		return account.AccessToken, nil
	}

	lock := m.lockFor(account.ID)
	lock.Lock()
	defer lock.Unlock()

	// đọc lại sau khi có lock: goroutine khác có thể đã refresh xong
	var fresh models.ChannelAccount
	if err := m.db.WithContext(ctx).First(&fresh, account.ID).Error; err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được channel account", err)
	}
	if time.Until(fresh.ExpiresAt) > TokenSafetyMargin {
		*account = fresh
		return fresh.AccessToken, nil
	}

	return m.refreshLocked(ctx, account, &fresh)
}

// ForceRefresh refresh bất kể expiry (dùng cho sweep định kỳ và retry sau 401)
func (m *TokenManager) ForceRefresh(ctx context.Context, account *models.ChannelAccount) (string, error) {
	lock := m.lockFor(account.ID)
	lock.Lock()
	defer lock.Unlock()

	var fresh models.ChannelAccount
	if err := m.db.WithContext(ctx).First(&fresh, account.ID).Error; err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeDBError, "không đọc được channel account", err)
	}
	return m.refreshLocked(ctx, account, &fresh)
}

func (m *TokenManager) refreshLocked(ctx context.Context, account, fresh *models.ChannelAccount) (string, error) {
	resp, err := m.refresher.RefreshToken(ctx, fresh.RefreshToken)
	if err != nil {
		return "", err
	}

	fresh.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		fresh.RefreshToken = resp.RefreshToken
	}
	if resp.UserID != "" {
		fresh.UserID = resp.UserID
	}
	fresh.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)

	if err := m.db.WithContext(ctx).Save(fresh).Error; err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được token mới", err)
	}
	*account = *fresh
	m.logger.Info("refreshed token for channel account %d", fresh.ID)
	return fresh.AccessToken, nil
}

// Revoke thu hồi token và cascade-delete các ChannelSync phụ thuộc.
// Channel trả 404 nghĩa là đã revoke từ trước, coi như thành công.
func (m *TokenManager) Revoke(ctx context.Context, account *models.ChannelAccount) error {
	if err := m.refresher.RevokeToken(ctx, account.AccessToken); err != nil {
		if svcErr := apperrors.AsServiceError(err); svcErr == nil || !svcErr.NotFound() {
			return err
		}
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_account_id = ?", account.ID).Delete(&models.ChannelSync{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChannelAccount{}, account.ID).Error
	})
}

// RefreshStale refresh mọi account chưa được cập nhật trong staleAfter,
// bất kể expiry, để chịu được clock skew. Lỗi từng account không chặn batch.
func (m *TokenManager) RefreshStale(ctx context.Context, staleAfter time.Duration) {
	var accounts []models.ChannelAccount
	cutoff := time.Now().Add(-staleAfter)
	if err := m.db.WithContext(ctx).Where("updated_at < ?", cutoff).Find(&accounts).Error; err != nil {
		m.logger.Error("không liệt kê được channel account cần refresh: %v", err)
		return
	}

	var wg sync.WaitGroup
	for i := range accounts {
		wg.Add(1)
		go func(acc *models.ChannelAccount) {
			defer wg.Done()
			if _, err := m.ForceRefresh(ctx, acc); err != nil {
				// giữ token cũ, chỉ log
				m.logger.Error("refresh token account %d thất bại: %v", acc.ID, err)
			}
		}(&accounts[i])
	}
	wg.Wait()
}
