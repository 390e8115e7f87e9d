package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentalsync/models"
	"rentalsync/services/rentalconn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRentalSource dựng nguồn rental-connection giả trả unit và booking cố định
func fakeRentalSource(t *testing.T, bookingStart, bookingEnd string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/units", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"units":[{"external_id":"u-1","name":"Beach House","city":"Da Nang","max_occupancy":6,"bedrooms":3,"bathrooms":2,"nightly_price":150}]}`))
	})
	mux.HandleFunc("/units/u-1/bookings", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"bookings":[{"external_id":"b-1","start_date":%q,"end_date":%q,"reference":"REF-1"}]}`,
			bookingStart, bookingEnd)
	})
	return httptest.NewServer(mux)
}

func newRentalConnService(t *testing.T) (*RentalConnService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	availability := NewAvailabilityService(db, testLogger())
	client := rentalconn.NewClient(testLogger())
	return NewRentalConnService(db, client, availability, testLogger()), db
}

func TestSyncConnectionCreatesAndUpdatesProperty(t *testing.T) {
	svc, db := newRentalConnService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 13).Format("2006-01-02")
	srv := fakeRentalSource(t, start, end)
	defer srv.Close()

	conn := &models.RentalConnection{
		OrganizationID: 1,
		Kind:           "isi",
		Username:       "org-1",
		Password:       "secret",
		BaseURL:        srv.URL,
	}
	require.NoError(t, db.Create(conn).Error)

	require.NoError(t, svc.SyncConnection(ctx, conn))

	var p models.Property
	require.NoError(t, db.Preload("PricingSettings").Where("name = ?", "Beach House").First(&p).Error)
	assert.EqualValues(t, 1, p.OrganizationID)
	assert.Equal(t, 3.0, p.Bedrooms)
	assert.Equal(t, 6, p.MaxGuests)
	require.NotNil(t, p.PricingSettings)
	assert.Equal(t, 150.0, p.PricingSettings.Nightly)

	var link models.RentalConnectionUnit
	require.NoError(t, db.Where("rental_connection_id = ? AND external_id = ?", conn.ID, "u-1").First(&link).Error)
	assert.Equal(t, p.ID, link.PropertyID)

	var blockings []models.Blocking
	require.NoError(t, db.Where("property_id = ?", p.ID).Find(&blockings).Error)
	require.Len(t, blockings, 1)
	assert.Equal(t, "REF-1", blockings[0].Summary)

	var got models.RentalConnection
	require.NoError(t, db.First(&got, conn.ID).Error)
	assert.False(t, got.LastSyncedAt.IsZero())

	// sync lần hai cập nhật property đã link, không tạo bản ghi mới
	require.NoError(t, svc.SyncConnection(ctx, conn))

	var propertyCount, linkCount, blockingCount int64
	require.NoError(t, db.Model(&models.Property{}).Count(&propertyCount).Error)
	require.NoError(t, db.Model(&models.RentalConnectionUnit{}).Count(&linkCount).Error)
	require.NoError(t, db.Model(&models.Blocking{}).Where("property_id = ?", p.ID).Count(&blockingCount).Error)
	assert.EqualValues(t, 1, propertyCount)
	assert.EqualValues(t, 1, linkCount)
	assert.EqualValues(t, 1, blockingCount)
}

func TestSyncConnectionReplacesUpcomingBlockingsOnly(t *testing.T) {
	svc, db := newRentalConnService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 0, 20).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 23).Format("2006-01-02")
	srv := fakeRentalSource(t, start, end)
	defer srv.Close()

	conn := &models.RentalConnection{OrganizationID: 1, Kind: "escapia", BaseURL: srv.URL}
	require.NoError(t, db.Create(conn).Error)
	require.NoError(t, svc.SyncConnection(ctx, conn))

	var link models.RentalConnectionUnit
	require.NoError(t, db.First(&link).Error)

	// thêm một blocking quá khứ và một blocking tương lai do tay người dùng
	today := time.Now().Truncate(24 * time.Hour)
	require.NoError(t, db.Create(&models.Blocking{
		PropertyID: link.PropertyID,
		Lower:      today.AddDate(0, 0, -10),
		Upper:      today.AddDate(0, 0, -7),
		Summary:    "past stay",
	}).Error)
	require.NoError(t, db.Create(&models.Blocking{
		PropertyID: link.PropertyID,
		Lower:      today.AddDate(0, 0, 40),
		Upper:      today.AddDate(0, 0, 42),
		Summary:    "manual hold",
	}).Error)

	require.NoError(t, svc.SyncConnection(ctx, conn))

	var blockings []models.Blocking
	require.NoError(t, db.Where("property_id = ?", link.PropertyID).Order("lower asc").Find(&blockings).Error)
	// quá khứ giữ nguyên, tương lai thay bằng booking của nguồn
	require.Len(t, blockings, 2)
	assert.Equal(t, "past stay", blockings[0].Summary)
	assert.Equal(t, "REF-1", blockings[1].Summary)
}

func TestSyncStaleConnectionsSkipsFresh(t *testing.T) {
	svc, db := newRentalConnService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 12).Format("2006-01-02")
	srv := fakeRentalSource(t, start, end)
	defer srv.Close()

	stale := &models.RentalConnection{OrganizationID: 1, Kind: "isi", BaseURL: srv.URL}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Model(stale).UpdateColumn("last_synced_at", time.Now().Add(-24*time.Hour)).Error)

	fresh := &models.RentalConnection{OrganizationID: 1, Kind: "isi", BaseURL: srv.URL}
	require.NoError(t, db.Create(fresh).Error)
	require.NoError(t, db.Model(fresh).UpdateColumn("last_synced_at", time.Now()).Error)

	svc.SyncStaleConnections(ctx)

	var properties int64
	require.NoError(t, db.Model(&models.Property{}).Count(&properties).Error)
	// chỉ connection stale được sync, mỗi connection tạo một property
	assert.EqualValues(t, 1, properties)
}
