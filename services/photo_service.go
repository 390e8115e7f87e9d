package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"gorm.io/gorm"
)

// photoFetchTimeout chặn fetch ảnh treo quá lâu
const photoFetchTimeout = 30 * time.Second

// PhotoService giữ ảnh property trên Cloudinary và cung cấp body ảnh
// cho chiều push lên channel.
type PhotoService struct {
	db     *gorm.DB
	cld    *cloudinary.Cloudinary
	http   *http.Client
	logger logger.Logger
}

// NewPhotoService tạo PhotoService mới
func NewPhotoService(db *gorm.DB, cld *cloudinary.Cloudinary, log logger.Logger) *PhotoService {
	return &PhotoService{
		db:     db,
		cld:    cld,
		http:   &http.Client{Timeout: photoFetchTimeout},
		logger: log,
	}
}

// ImportPhoto tải ảnh từ URL phía channel về Cloudinary và ghi bản ghi Image.
// Dùng khi import listing: channel trả URL, canonical store giữ bản của mình.
func (s *PhotoService) ImportPhoto(ctx context.Context, propertyID uint, sourceURL, caption string, sortOrder int) (*models.Image, error) {
	body, contentType, err := s.fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	folder := fmt.Sprintf("properties/%d", propertyID)
	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(body), uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUpstream, "không upload được ảnh lên Cloudinary", err)
	}

	img := &models.Image{
		PropertyID: propertyID,
		URL:        resp.SecureURL,
		Caption:    caption,
		SortOrder:  sortOrder,
		Width:      resp.Width,
		Height:     resp.Height,
		MimeType:   contentType,
	}
	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "không lưu được ảnh", err)
	}
	return img, nil
}

// FetchBody tải body ảnh để push lên channel (channel nhận base64, không nhận URL)
func (s *PhotoService) FetchBody(ctx context.Context, img *models.Image) ([]byte, error) {
	body, _, err := s.fetch(ctx, img.URL)
	return body, err
}

// DeletePhoto xóa bản ghi Image; bản trên Cloudinary giữ lại cho audit
func (s *PhotoService) DeletePhoto(ctx context.Context, propertyID, imageID uint) error {
	res := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&models.Image{}, imageID)
	if res.Error != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "không xóa được ảnh", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeDBNotFound, "ảnh không tồn tại", nil)
	}
	return nil
}

func (s *PhotoService) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperrors.NewAppError(apperrors.ErrCodeValidation, "URL ảnh không hợp lệ", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", apperrors.NewAppError(apperrors.ErrCodeUpstream, "không tải được ảnh", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", apperrors.NewAppError(apperrors.ErrCodeUpstream,
			fmt.Sprintf("tải ảnh trả về status %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apperrors.NewAppError(apperrors.ErrCodeUpstream, "không đọc được body ảnh", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return body, contentType, nil
}
