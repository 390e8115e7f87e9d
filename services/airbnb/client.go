package airbnb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"sync"
	"time"

	"rentalsync/dto"
	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services/logger"
	"rentalsync/services/ratelimit"

	json "github.com/goccy/go-json"
)

const (
	requestTimeout = 5 * time.Second
	maxAttempts    = 3
	listingsPageSize = 50
	photoConcurrency = 2
)

// Client là HTTP client cho Airbnb API.
// Mọi verb đều: chọn throttle set, lấy token hợp lệ, serialize JSON,
// ký header, gọi HTTP, phân loại response thành outcome có kiểu.
type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string

	httpClient *http.Client
	limiter    *ratelimit.Limiter
	tokens     TokenProvider
	logger     logger.Logger
}

// TokenProvider cấp access token hợp lệ cho một account (C3)
type TokenProvider interface {
	GetValidAccessToken(ctx context.Context, account *models.ChannelAccount) (string, error)
	ForceRefresh(ctx context.Context, account *models.ChannelAccount) (string, error)
}

// ClientOptions là tham số khởi tạo Client
type ClientOptions struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Limiter      *ratelimit.Limiter
	Tokens       TokenProvider
	Logger       logger.Logger
}

// NewClient tạo Client mới với timeout mặc định 5s
func NewClient(opts ClientOptions) *Client {
	return &Client{
		BaseURL:      opts.BaseURL,
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		httpClient:   &http.Client{Timeout: requestTimeout},
		limiter:      opts.Limiter,
		tokens:       opts.Tokens,
		logger:       opts.Logger,
	}
}

// do thực hiện một request đã ký. GET/PUT được retry với backoff;
// POST không tự retry, orchestrator quyết định.
func (c *Client) do(ctx context.Context, account *models.ChannelAccount, method, path string, body interface{}, out interface{}) (int, error) {
	var accountID uint
	if account != nil {
		accountID = account.ID
	}
	if err := c.limiter.Check(ctx, path, accountID); err != nil {
		return 0, err
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "không serialize được request", err)
		}
	}

	attempts := 1
	if method == http.MethodGet || method == http.MethodPut {
		attempts = maxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			}
		}

		status, err := c.once(ctx, account, method, path, payload, out)
		if err == nil {
			return status, nil
		}
		lastErr = err
		svcErr := apperrors.AsServiceError(err)
		if svcErr == nil || !svcErr.Retryable() {
			return status, err
		}
	}
	return 0, lastErr
}

func (c *Client) once(ctx context.Context, account *models.ChannelAccount, method, path string, payload []byte, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, &apperrors.ServiceError{Channel: "airbnb", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Airbnb-API-Key", c.ClientID)

	if account != nil {
		token, err := c.tokens.GetValidAccessToken(ctx, account)
		if err != nil {
			return 0, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &apperrors.ServiceError{Channel: "airbnb", Err: err}
	}
	defer resp.Body.Close()

	// token hết hạn giữa chừng: force refresh một lần rồi thử lại
	if resp.StatusCode == http.StatusUnauthorized && account != nil {
		io.Copy(io.Discard, resp.Body)
		if _, err := c.tokens.ForceRefresh(ctx, account); err != nil {
			return resp.StatusCode, err
		}
		return c.onceNoRetry(ctx, account, method, path, payload, out)
	}

	return c.classify(resp, out)
}

func (c *Client) onceNoRetry(ctx context.Context, account *models.ChannelAccount, method, path string, payload []byte, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, &apperrors.ServiceError{Channel: "airbnb", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Airbnb-API-Key", c.ClientID)
	token, err := c.tokens.GetValidAccessToken(ctx, account)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &apperrors.ServiceError{Channel: "airbnb", Err: err}
	}
	defer resp.Body.Close()
	return c.classify(resp, out)
}

func (c *Client) classify(resp *http.Response, out interface{}) (int, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &apperrors.ServiceError{Channel: "airbnb", Err: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return resp.StatusCode, &apperrors.ThrottlingError{Limit: "upstream", RetryAfter: time.Minute}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &apperrors.ServiceError{Channel: "airbnb", Status: resp.StatusCode, Body: string(raw)}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, &apperrors.ServiceError{Channel: "airbnb", Status: resp.StatusCode, Body: "unparseable body", Err: err}
		}
	}
	return resp.StatusCode, nil
}

// --- Listings ---

// GetListing lấy một listing theo external id
func (c *Client) GetListing(ctx context.Context, account *models.ChannelAccount, externalID string) (*dto.AirbnbListing, error) {
	var resp dto.AirbnbListingResponse
	if _, err := c.do(ctx, account, http.MethodGet, "/listings/"+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Listing, nil
}

// GetListings lấy toàn bộ inventory, phân trang song song bằng worker pool.
// Probe count trước để tính offsets, kết quả ráp lại đúng thứ tự trang.
func (c *Client) GetListings(ctx context.Context, account *models.ChannelAccount) ([]dto.AirbnbListing, error) {
	var first dto.AirbnbListingList
	path := fmt.Sprintf("/listings?user_id=%s&limit=%d&offset=0", url.QueryEscape(account.UserID), listingsPageSize)
	if _, err := c.do(ctx, account, http.MethodGet, path, nil, &first); err != nil {
		return nil, err
	}

	total := first.Paging.TotalCount
	if total <= len(first.Listings) {
		return first.Listings, nil
	}

	pages := (total + listingsPageSize - 1) / listingsPageSize
	results := make([][]dto.AirbnbListing, pages)
	results[0] = first.Listings

	type job struct{ page int }
	jobs := make(chan job)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	workers := runtime.NumCPU()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				var page dto.AirbnbListingList
				p := fmt.Sprintf("/listings?user_id=%s&limit=%d&offset=%d",
					url.QueryEscape(account.UserID), listingsPageSize, j.page*listingsPageSize)
				if _, err := c.do(ctx, account, http.MethodGet, p, nil, &page); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				results[j.page] = page.Listings
			}
		}()
	}
	for p := 1; p < pages; p++ {
		jobs <- job{page: p}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	var all []dto.AirbnbListing
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// PushListing tạo hoặc cập nhật listing; trả về listing phía channel
func (c *Client) PushListing(ctx context.Context, account *models.ChannelAccount, listing *dto.AirbnbListing) (*dto.AirbnbListing, error) {
	var resp dto.AirbnbListingResponse
	method, path := http.MethodPost, "/listings"
	if listing.ID != "" {
		method, path = http.MethodPut, "/listings/"+listing.ID
	}
	if _, err := c.do(ctx, account, method, path, dto.AirbnbListingResponse{Listing: *listing}, &resp); err != nil {
		return nil, err
	}
	return &resp.Listing, nil
}

// DeleteListing xóa listing phía channel
func (c *Client) DeleteListing(ctx context.Context, account *models.ChannelAccount, externalID string) error {
	_, err := c.do(ctx, account, http.MethodDelete, "/listings/"+externalID, nil, nil)
	return err
}

// PushListingStatus bật/tắt trạng thái listed của listing
func (c *Client) PushListingStatus(ctx context.Context, account *models.ChannelAccount, externalID string, listed bool) error {
	body := map[string]interface{}{"listing": map[string]interface{}{"has_availability": listed}}
	_, err := c.do(ctx, account, http.MethodPut, "/listings/"+externalID, body, nil)
	return err
}

// PushDescriptions đẩy mô tả theo locale
func (c *Client) PushDescriptions(ctx context.Context, account *models.ChannelAccount, externalID string, desc *dto.AirbnbDescription) error {
	path := "/listing_descriptions/" + externalID + "/" + desc.Locale
	_, err := c.do(ctx, account, http.MethodPut, path, map[string]interface{}{"listing_description": desc}, nil)
	return err
}

// GetDescriptions lấy mô tả theo locale
func (c *Client) GetDescriptions(ctx context.Context, account *models.ChannelAccount, externalID, locale string) (*dto.AirbnbDescription, error) {
	var resp struct {
		ListingDescription dto.AirbnbDescription `json:"listing_description"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/listing_descriptions/"+externalID+"/"+locale, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.ListingDescription, nil
}

// --- Rooms ---

// GetListingRooms liệt kê room của listing
func (c *Client) GetListingRooms(ctx context.Context, account *models.ChannelAccount, externalID string) ([]dto.AirbnbRoom, error) {
	var resp struct {
		ListingRooms []dto.AirbnbRoom `json:"listing_rooms"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/listing_rooms?listing_id="+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ListingRooms, nil
}

// PushListingRooms đẩy từng room; room có id thì update, không thì create
func (c *Client) PushListingRooms(ctx context.Context, account *models.ChannelAccount, rooms []dto.AirbnbRoom) error {
	for i := range rooms {
		room := rooms[i]
		method, path := http.MethodPost, "/listing_rooms"
		if room.ID != "" {
			method, path = http.MethodPut, "/listing_rooms/"+room.ID
		}
		if _, err := c.do(ctx, account, method, path, map[string]interface{}{"listing_room": room}, nil); err != nil {
			return err
		}
	}
	return nil
}

// --- Photos ---

// GetListingPhotos liệt kê ảnh của listing
func (c *Client) GetListingPhotos(ctx context.Context, account *models.ChannelAccount, externalID string) ([]dto.AirbnbPhoto, error) {
	var resp struct {
		ListingPhotos []dto.AirbnbPhoto `json:"listing_photos"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/listing_photos?listing_id="+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ListingPhotos, nil
}

// PushPhotos đẩy ảnh, fan-out tối đa 2 request đồng thời cho mỗi listing.
// Kết quả trả về theo đúng thứ tự ảnh vào.
func (c *Client) PushPhotos(ctx context.Context, account *models.ChannelAccount, photos []dto.AirbnbPhoto) ([]dto.AirbnbPhoto, error) {
	out := make([]dto.AirbnbPhoto, len(photos))
	sem := make(chan struct{}, photoConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := range photos {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			var resp struct {
				ListingPhoto dto.AirbnbPhoto `json:"listing_photo"`
			}
			photo := photos[idx]
			method, path := http.MethodPost, "/listing_photos"
			if photo.ID != "" {
				method, path = http.MethodPut, "/listing_photos/"+photo.ID
			}
			if _, err := c.do(ctx, account, method, path, map[string]interface{}{"listing_photo": photo}, &resp); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			out[idx] = resp.ListingPhoto
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// --- Pricing / booking / availability ---

// GetPricingSettings lấy pricing settings của listing
func (c *Client) GetPricingSettings(ctx context.Context, account *models.ChannelAccount, externalID string) (*dto.AirbnbPricingSettings, error) {
	var resp struct {
		PricingSetting dto.AirbnbPricingSettings `json:"pricing_setting"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/pricing_settings/"+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.PricingSetting, nil
}

// PushPricingSettings đẩy pricing settings
func (c *Client) PushPricingSettings(ctx context.Context, account *models.ChannelAccount, externalID string, settings *dto.AirbnbPricingSettings) error {
	_, err := c.do(ctx, account, http.MethodPut, "/pricing_settings/"+externalID,
		map[string]interface{}{"pricing_setting": settings}, nil)
	return err
}

// GetBookingSettings lấy booking settings của listing
func (c *Client) GetBookingSettings(ctx context.Context, account *models.ChannelAccount, externalID string) (*dto.AirbnbBookingSettings, error) {
	var resp struct {
		BookingSetting dto.AirbnbBookingSettings `json:"booking_setting"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/booking_settings/"+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.BookingSetting, nil
}

// PushBookingSettings đẩy booking settings
func (c *Client) PushBookingSettings(ctx context.Context, account *models.ChannelAccount, externalID string, settings *dto.AirbnbBookingSettings) error {
	_, err := c.do(ctx, account, http.MethodPut, "/booking_settings/"+externalID,
		map[string]interface{}{"booking_setting": settings}, nil)
	return err
}

// GetAvailabilityRule lấy availability rule của listing
func (c *Client) GetAvailabilityRule(ctx context.Context, account *models.ChannelAccount, externalID string) (*dto.AirbnbAvailabilityRule, error) {
	var resp struct {
		AvailabilityRule dto.AirbnbAvailabilityRule `json:"availability_rule"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/availability_rules/"+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.AvailabilityRule, nil
}

// PushAvailabilityRule đẩy availability rule
func (c *Client) PushAvailabilityRule(ctx context.Context, account *models.ChannelAccount, externalID string, rule *dto.AirbnbAvailabilityRule) error {
	_, err := c.do(ctx, account, http.MethodPut, "/availability_rules/"+externalID,
		map[string]interface{}{"availability_rule": rule}, nil)
	return err
}

// PushCalendarRange set availability cho một khoảng ngày cụ thể
func (c *Client) PushCalendarRange(ctx context.Context, account *models.ChannelAccount, externalID, from, to string, available bool) error {
	availability := "unavailable"
	if available {
		availability = "available"
	}
	path := fmt.Sprintf("/calendars/%s/%s/%s", externalID, from, to)
	_, err := c.do(ctx, account, http.MethodPut, path,
		map[string]interface{}{"calendar": map[string]string{"availability": availability}}, nil)
	return err
}

// PushCalendarOperations đẩy toàn bộ calendar operations một lần
func (c *Client) PushCalendarOperations(ctx context.Context, account *models.ChannelAccount, req *dto.AirbnbCalendarOperationsRequest) error {
	_, err := c.do(ctx, account, http.MethodPut, "/calendar_operations?_allow_dates_overlap=true", req, nil)
	return err
}

// --- Link / review ---

// PushLink gắn listing với account (bật synchronization)
func (c *Client) PushLink(ctx context.Context, account *models.ChannelAccount, externalID, scope string) error {
	body := map[string]interface{}{"listing": map[string]string{"synchronization_category": scope}}
	_, err := c.do(ctx, account, http.MethodPut, "/listings/"+externalID, body, nil)
	return err
}

// PushUnlink gỡ listing khỏi sự quản lý của engine
func (c *Client) PushUnlink(ctx context.Context, account *models.ChannelAccount, externalID string) error {
	body := map[string]interface{}{"listing": map[string]interface{}{"synchronization_category": nil}}
	_, err := c.do(ctx, account, http.MethodPut, "/listings/"+externalID, body, nil)
	return err
}

// PushReviewStatus yêu cầu channel review listing
func (c *Client) PushReviewStatus(ctx context.Context, account *models.ChannelAccount, externalID string) error {
	body := map[string]interface{}{"listing": map[string]string{"requested_approval_status_category": "ready_for_review"}}
	_, err := c.do(ctx, account, http.MethodPut, "/listings/"+externalID, body, nil)
	return err
}

// --- Reservations ---

// GetReservations lấy reservation theo listing
func (c *Client) GetReservations(ctx context.Context, account *models.ChannelAccount, externalID string) ([]dto.AirbnbReservation, error) {
	var resp dto.AirbnbReservationList
	if _, err := c.do(ctx, account, http.MethodGet, "/reservations?listing_id="+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reservations, nil
}

// GetReservationByConfirmationCode lấy một reservation theo confirmation code
func (c *Client) GetReservationByConfirmationCode(ctx context.Context, account *models.ChannelAccount, code string) (*dto.AirbnbReservation, error) {
	var resp dto.AirbnbReservationResponse
	if _, err := c.do(ctx, account, http.MethodGet, "/reservations/"+code, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Reservation, nil
}

// PushAcceptReservationRequest chấp nhận reservation request
func (c *Client) PushAcceptReservationRequest(ctx context.Context, account *models.ChannelAccount, code string) error {
	body := map[string]interface{}{"attempt_action": "accept"}
	_, err := c.do(ctx, account, http.MethodPut, "/reservations/"+code, body, nil)
	return err
}

// PushDenyReservationRequest từ chối reservation request
func (c *Client) PushDenyReservationRequest(ctx context.Context, account *models.ChannelAccount, code string) error {
	body := map[string]interface{}{"attempt_action": "deny"}
	_, err := c.do(ctx, account, http.MethodPut, "/reservations/"+code, body, nil)
	return err
}

// --- Messaging ---

// PushMessage gửi tin nhắn vào thread
func (c *Client) PushMessage(ctx context.Context, account *models.ChannelAccount, threadID, message string) (*dto.AirbnbMessage, error) {
	var resp struct {
		Message dto.AirbnbMessage `json:"message"`
	}
	body := map[string]string{"thread_id": threadID, "message": message}
	if _, err := c.do(ctx, account, http.MethodPost, "/messages", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// GetThread lấy một thread theo id
func (c *Client) GetThread(ctx context.Context, account *models.ChannelAccount, threadID string) (*dto.AirbnbThread, error) {
	var resp struct {
		Thread dto.AirbnbThread `json:"thread"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/threads/"+threadID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Thread, nil
}

// GetThreads liệt kê thread của account
func (c *Client) GetThreads(ctx context.Context, account *models.ChannelAccount) ([]dto.AirbnbThread, error) {
	var resp struct {
		Threads []dto.AirbnbThread `json:"threads"`
	}
	if _, err := c.do(ctx, account, http.MethodGet, "/threads", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Threads, nil
}

// GetMeUser lấy profile của user gắn với token
func (c *Client) GetMeUser(ctx context.Context, account *models.ChannelAccount) (*dto.AirbnbUser, error) {
	var resp dto.AirbnbUser
	if _, err := c.do(ctx, account, http.MethodGet, "/users/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Token lifecycle (authenticate bằng client credentials, không cần account) ---

// RefreshToken đổi refresh token lấy access token mới
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*dto.AirbnbTokenResponse, error) {
	var resp dto.AirbnbTokenResponse
	body := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
	}
	if _, err := c.do(ctx, nil, http.MethodPost, "/authorizations", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevokeToken thu hồi access token
func (c *Client) RevokeToken(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, nil, http.MethodDelete, "/authorizations/"+accessToken, nil, nil)
	return err
}

// CheckToken kiểm tra access token còn hợp lệ không
func (c *Client) CheckToken(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, nil, http.MethodGet, "/authorizations/"+accessToken, nil, nil)
	return err
}
