package rentalconn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"

	json "github.com/goccy/go-json"
)

const requestTimeout = 5 * time.Second

// RemoteUnit là một property phía nguồn rental-connection
type RemoteUnit struct {
	ExternalID   string  `json:"external_id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	MaxOccupancy int     `json:"max_occupancy"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	NightlyPrice float64 `json:"nightly_price"`
}

// RemoteBooking là một khoảng ngày đã có khách phía nguồn
type RemoteBooking struct {
	ExternalID string `json:"external_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // exclusive
	Reference  string `json:"reference"`
}

// Client gọi nguồn rental-connection (Isi, Escapia) bằng HTTP Basic auth.
// Các nguồn này chỉ có chiều đọc: danh sách unit và booking của từng unit.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient tạo Client mới với timeout mặc định 5s
func NewClient(log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     log,
	}
}

// ListUnits lấy toàn bộ unit của một connection
func (c *Client) ListUnits(ctx context.Context, conn *models.RentalConnection) ([]RemoteUnit, error) {
	var out struct {
		Units []RemoteUnit `json:"units"`
	}
	if err := c.get(ctx, conn, "/units", &out); err != nil {
		return nil, err
	}
	return out.Units, nil
}

// ListBookings lấy booking của một unit, nguồn trả cả quá khứ lẫn tương lai
func (c *Client) ListBookings(ctx context.Context, conn *models.RentalConnection, externalID string) ([]RemoteBooking, error) {
	var out struct {
		Bookings []RemoteBooking `json:"bookings"`
	}
	path := fmt.Sprintf("/units/%s/bookings", externalID)
	if err := c.get(ctx, conn, path, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

func (c *Client) get(ctx context.Context, conn *models.RentalConnection, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, conn.BaseURL+path, nil)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "URL connection không hợp lệ", err)
	}
	req.SetBasicAuth(conn.Username, conn.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeUpstream, "không gọi được rental connection", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeUpstream, "không đọc được response", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "rental connection từ chối credentials", nil)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Rental connection %s trả về status %d: %s", conn.Kind, resp.StatusCode, string(body))
		return apperrors.NewAppError(apperrors.ErrCodeUpstream,
			fmt.Sprintf("rental connection trả về status %d", resp.StatusCode), nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "response không phải JSON hợp lệ", err)
	}
	return nil
}
