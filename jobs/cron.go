package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"rentalsync/constants"
	"rentalsync/models"

	"github.com/robfig/cron/v3"
)

// syncWorkers là số worker của fan-out; mỗi child job fail độc lập
const syncWorkers = 4

// tokenStaleAfter là tuổi tối đa của token trước khi refresh chủ động
const tokenStaleAfter = 12 * time.Hour

// TokenRefresher định nghĩa interface cho việc refresh token chủ động
type TokenRefresher interface {
	RefreshStale(ctx context.Context, staleAfter time.Duration)
}

// SyncRunner định nghĩa interface cho việc đẩy item của các sync đang bật
type SyncRunner interface {
	EnabledSyncs(ctx context.Context) ([]models.ChannelSync, error)
	SyncProperty(ctx context.Context, syncID uint, items []string) error
}

// DepositRefunder định nghĩa interface cho việc hoàn deposit đến hạn
type DepositRefunder interface {
	RefundDueDeposits(ctx context.Context, now time.Time)
}

// ConnectionSyncer định nghĩa interface cho việc sync rental connection
type ConnectionSyncer interface {
	SyncStaleConnections(ctx context.Context)
}

var (
	tokenRefresher   TokenRefresher
	syncRunner       SyncRunner
	depositRefunder  DepositRefunder
	connectionSyncer ConnectionSyncer
)

// SetTokenRefresher thiết lập implementation cho TokenRefresher
func SetTokenRefresher(r TokenRefresher) {
	tokenRefresher = r
}

// SetSyncRunner thiết lập implementation cho SyncRunner
func SetSyncRunner(r SyncRunner) {
	syncRunner = r
}

// SetDepositRefunder thiết lập implementation cho DepositRefunder
func SetDepositRefunder(r DepositRefunder) {
	depositRefunder = r
}

// SetConnectionSyncer thiết lập implementation cho ConnectionSyncer
func SetConnectionSyncer(s ConnectionSyncer) {
	connectionSyncer = s
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron) error {
	// Refresh token chủ động mỗi 12h
	if _, err := c.AddFunc("@every 12h", func() {
		if tokenRefresher == nil {
			log.Printf("Lỗi: TokenRefresher chưa được thiết lập")
			return
		}
		tokenRefresher.RefreshStale(context.Background(), tokenStaleAfter)
	}); err != nil {
		return err
	}

	// Đẩy calendar mỗi 3h
	if _, err := c.AddFunc("@every 3h", func() {
		fanOutSync([]string{constants.SyncItemAvailability})
	}); err != nil {
		return err
	}

	// Đẩy pricing + availability rules mỗi 6h
	if _, err := c.AddFunc("@every 6h", func() {
		fanOutSync([]string{constants.SyncItemPricing, constants.SyncItemAvailability})
	}); err != nil {
		return err
	}

	// Đẩy content (descriptions, photos, rooms, booking settings) mỗi 2h
	if _, err := c.AddFunc("@every 2h", func() {
		fanOutSync([]string{constants.SyncItemContent})
	}); err != nil {
		return err
	}

	// Hoàn deposit đến hạn mỗi 6h
	if _, err := c.AddFunc("@every 6h", func() {
		if depositRefunder == nil {
			log.Printf("Lỗi: DepositRefunder chưa được thiết lập")
			return
		}
		depositRefunder.RefundDueDeposits(context.Background(), time.Now())
	}); err != nil {
		return err
	}

	// Sync rental connection mỗi 15 phút
	if _, err := c.AddFunc("@every 15m", func() {
		if connectionSyncer == nil {
			log.Printf("Lỗi: ConnectionSyncer chưa được thiết lập")
			return
		}
		connectionSyncer.SyncStaleConnections(context.Background())
	}); err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}

// fanOutSync chạy SyncProperty cho mọi sync đang bật qua worker pool
// giới hạn; lỗi từng sync chỉ log, không chặn batch.
func fanOutSync(items []string) {
	if syncRunner == nil {
		log.Printf("Lỗi: SyncRunner chưa được thiết lập")
		return
	}

	ctx := context.Background()
	syncs, err := syncRunner.EnabledSyncs(ctx)
	if err != nil {
		log.Printf("Lỗi khi liệt kê sync đang bật: %v", err)
		return
	}

	jobs := make(chan uint)
	var wg sync.WaitGroup
	for w := 0; w < syncWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for syncID := range jobs {
				if err := syncRunner.SyncProperty(ctx, syncID, items); err != nil {
					log.Printf("Lỗi khi sync %d: %v", syncID, err)
				}
			}
		}()
	}
	for i := range syncs {
		jobs <- syncs[i].ID
	}
	close(jobs)
	wg.Wait()
}
