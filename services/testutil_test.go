package services

import (
	"testing"
	"time"

	"rentalsync/models"
	"rentalsync/services/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB mở sqlite in-memory và migrate toàn bộ schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Property{},
		&models.Descriptions{},
		&models.BookingSettings{},
		&models.PricingSettings{},
		&models.AvailabilitySettings{},
		&models.BasicAmenities{},
		&models.Suitability{},
		&models.Image{},
		&models.Video{},
		&models.Room{},
		&models.Bed{},
		&models.Rate{},
		&models.Blocking{},
		&models.Contact{},
		&models.Conversation{},
		&models.Message{},
		&models.Calendar{},
		&models.ExternalCalendarEvent{},
		&models.Reservation{},
		&models.ReservationRate{},
		&models.ReservationFee{},
		&models.ReservationDiscount{},
		&models.ReservationRefund{},
		&models.AdditionalFee{},
		&models.Discount{},
		&models.ChannelAccount{},
		&models.ChannelSync{},
		&models.SyncLog{},
		&models.ExternalReservation{},
		&models.RentalConnection{},
		&models.RentalConnectionUnit{},
	)
	require.NoError(t, err)
	return db
}

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}

// assertDay so sánh một mốc thời gian với ngày mong đợi dạng YYYY-MM-DD
func assertDay(t *testing.T, want string, got time.Time) {
	t.Helper()
	require.Equal(t, want, got.Format("2006-01-02"))
}
