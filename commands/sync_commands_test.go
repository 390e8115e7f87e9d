package commands

import (
	"context"
	"errors"
	"testing"

	"rentalsync/constants"
	apperrors "rentalsync/errors"
	"rentalsync/models"
	"rentalsync/services"
	"rentalsync/services/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSyncService(t *testing.T) (*services.SyncService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Property{},
		&models.Descriptions{},
		&models.BookingSettings{},
		&models.PricingSettings{},
		&models.AvailabilitySettings{},
		&models.BasicAmenities{},
		&models.Suitability{},
		&models.Image{},
		&models.Room{},
		&models.Bed{},
		&models.Rate{},
		&models.AdditionalFee{},
		&models.Discount{},
		&models.ChannelAccount{},
		&models.ChannelSync{},
		&models.SyncLog{},
	))

	log := logger.NewDefaultLogger(logger.ErrorLevel)
	svc := services.NewSyncService(db, nil, nil, nil, services.NewSyncBroadcaster(nil, log), log)
	return svc, db
}

func TestImportListingCommandUnknownAccount(t *testing.T) {
	svc, _ := newSyncService(t)

	cmd := NewImportListingCommand(1, 99, "listing-9", svc)
	err := cmd.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAccountNotFound))
	assert.Nil(t, cmd.Sync())
}

func TestExportListingCommandUnknownAccount(t *testing.T) {
	svc, _ := newSyncService(t)

	cmd := NewExportListingCommand(99, 1, svc)
	err := cmd.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAccountNotFound))
	assert.Nil(t, cmd.Sync())
}

func TestExportListingCommandNotReadySurfacesSync(t *testing.T) {
	svc, db := newSyncService(t)

	account := &models.ChannelAccount{OrganizationID: 1, Channel: constants.ChannelAirbnb, UserID: "host-1"}
	require.NoError(t, db.Create(account).Error)
	p := &models.Property{OrganizationID: 1, Name: "Bare Flat"}
	require.NoError(t, db.Create(p).Error)

	cmd := NewExportListingCommand(account.ID, p.ID, svc)
	err := cmd.Execute(context.Background())
	require.Error(t, err)

	// listing chưa đạt readiness: command vẫn trả về sync row để
	// controller hiển thị các thiếu sót
	sync := cmd.Sync()
	require.NotNil(t, sync)
	assert.Equal(t, constants.ApprovalStatusNotReady, sync.ApprovalStatus)
	assert.NotEmpty(t, sync.Notes)
}

func TestUnlinkCommandUnknownSync(t *testing.T) {
	svc, _ := newSyncService(t)

	cmd := NewUnlinkCommand(404, svc)
	err := cmd.Execute(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrSyncNotFound))
}
