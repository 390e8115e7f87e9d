package routes

import (
	"crypto/rsa"
	"log"

	"rentalsync/config"
	"rentalsync/controllers"
	middlewares "rentalsync/middleware"
	"rentalsync/services"
	"rentalsync/services/airbnb"
	"rentalsync/services/logger"
	"rentalsync/services/ratelimit"
	"rentalsync/services/rentalconn"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AppServices gom các service cần cho jobs sau khi routes đã dựng xong
type AppServices struct {
	Tokens       *services.TokenManager
	Syncs        *services.SyncService
	RentalConns  *services.RentalConnService
	DepositJob   *services.DepositRefundJob
	Reservations *services.ReservationService
}

func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, cld *cloudinary.Cloudinary, m *melody.Melody) *AppServices {

	appLogger := logger.NewDefaultLogger(logger.InfoLevel)

	tokens := services.NewTokenManager(db, appLogger)
	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(redisCli), "airbnb")
	airbnbClient := airbnb.NewClient(airbnb.ClientOptions{
		BaseURL:      config.GetEnvDefault("AIRBNB_API_URL", "https://api.airbnb.com"),
		ClientID:     config.GetEnv("AIRBNB_CLIENT_ID"),
		ClientSecret: config.GetEnv("AIRBNB_CLIENT_SECRET"),
		Limiter:      limiter,
		Tokens:       tokens,
		Logger:       appLogger,
	})
	tokens.SetRefresher(airbnbClient)

	broadcaster := services.NewSyncBroadcaster(m, appLogger)
	if audit, err := logger.NewFileLogger(logger.InfoLevel, config.GetEnvDefault("AUDIT_LOG_DIR", "logs")); err != nil {
		log.Printf("Không mở được audit log, bỏ qua: %v", err)
	} else {
		broadcaster.SetAudit(audit)
	}
	photos := services.NewPhotoService(db, cld, appLogger)
	availability := services.NewAvailabilityService(db, appLogger)
	rates := services.NewRateService(db, appLogger)
	reservations := services.NewReservationService(db, availability, appLogger)
	syncs := services.NewSyncService(db, airbnbClient, photos, reservations, broadcaster, appLogger)
	webhooks := services.NewWebhookService(db, airbnbClient, availability, reservations, appLogger)
	auth := services.NewAuthService(db, appLogger)
	rentalConns := services.NewRentalConnService(db, rentalconn.NewClient(appLogger), availability, appLogger)
	depositJob := services.NewDepositRefundJob(reservations, services.NewLoggingPaymentProvider(appLogger))

	authController := controllers.NewAuthController(auth)
	propertyController := controllers.NewPropertyController(db, photos)
	rateController := controllers.NewRateController(rates, availability)
	reservationController := controllers.NewReservationController(reservations)
	channelController := controllers.NewChannelController(db, redisCli, syncs)
	webhookController := controllers.NewWebhookController(webhooks)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", authController.Login)
	v1.POST("/auth/google", authController.LoginGoogle)
	v1.POST("/auth/register", authController.Register)
	v1.POST("/auth/refresh", authController.Refresh)

	v1.GET("/properties", middlewares.AuthMiddleware(), propertyController.GetProperties)
	v1.GET("/properties/:id", middlewares.AuthMiddleware(), propertyController.GetProperty)
	v1.GET("/properties/:id/readiness", middlewares.AuthMiddleware(), propertyController.CheckReadiness)
	v1.POST("/properties/:id/photos", middlewares.AuthMiddleware(), propertyController.ImportPhoto)
	v1.DELETE("/properties/:id/photos/:imageId", middlewares.AuthMiddleware(), propertyController.DeletePhoto)

	v1.GET("/rates", middlewares.AuthMiddleware(), rateController.GetRates)
	v1.POST("/rates", middlewares.AuthMiddleware(), rateController.CreateRate)
	v1.DELETE("/rates/:id", middlewares.AuthMiddleware(), rateController.DeleteRate)
	v1.GET("/blockings", middlewares.AuthMiddleware(), rateController.GetBlockings)
	v1.POST("/blockings", middlewares.AuthMiddleware(), rateController.CreateBlocking)
	v1.DELETE("/blockings/:id", middlewares.AuthMiddleware(), rateController.DeleteBlocking)

	v1.GET("/reservations/:id", middlewares.AuthMiddleware(), reservationController.GetReservation)
	v1.POST("/reservations", middlewares.AuthMiddleware(), reservationController.CreateReservation)
	v1.PUT("/reservations/:id/accept", middlewares.AuthMiddleware(), reservationController.AcceptReservation)
	v1.PUT("/reservations/:id/decline", middlewares.AuthMiddleware(), reservationController.DeclineReservation)
	v1.PUT("/reservations/:id/cancel", middlewares.AuthMiddleware(), reservationController.CancelReservation)
	v1.POST("/reservations/:id/refunds", middlewares.AuthMiddleware(), reservationController.AddRefund)

	v1.GET("/channel/accounts", middlewares.AuthMiddleware(), channelController.GetAccounts)
	v1.POST("/channel/link", middlewares.AuthMiddleware(), channelController.HandleLinkAction)
	v1.GET("/channel/fetch", middlewares.AuthMiddleware(), channelController.FetchInventory)
	v1.GET("/channel/syncs/:id", middlewares.AuthMiddleware(), channelController.GetSync)
	v1.PUT("/channel/syncs/:id/scope", middlewares.AuthMiddleware(), channelController.SetScope)
	v1.DELETE("/channel/syncs/:id", middlewares.AuthMiddleware(), channelController.Unlink)
	v1.POST("/channel/sync", middlewares.AuthMiddleware(), channelController.TriggerSync)

	v1.POST("/webhooks/airbnb",
		middlewares.SignatureMiddleware(loadWebhookKey()),
		webhookController.HandleAirbnb)

	return &AppServices{
		Tokens:       tokens,
		Syncs:        syncs,
		RentalConns:  rentalConns,
		DepositJob:   depositJob,
		Reservations: reservations,
	}
}

// loadWebhookKey đọc RSA public key của channel từ env; trống thì bỏ
// kiểm tra chữ ký (môi trường dev).
func loadWebhookKey() *rsa.PublicKey {
	pemStr := config.GetEnv("AIRBNB_WEBHOOK_PUBLIC_KEY")
	if pemStr == "" {
		log.Println("AIRBNB_WEBHOOK_PUBLIC_KEY trống, webhook không kiểm tra chữ ký")
		return nil
	}
	pub, err := airbnb.ParsePublicKey([]byte(pemStr))
	if err != nil {
		log.Printf("Không đọc được webhook public key: %v", err)
		return nil
	}
	return pub
}
