package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"qc-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	shiftStatsKeyFmt = "shift:%d:stats"
	shiftStatsTTL    = 2 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis
// is unreachable every lookup is a miss and every store is a no-op.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetShiftStatistics returns cached statistics for a shift, if present.
func GetShiftStatistics(ctx context.Context, shiftID int) (*models.ShiftStatistics, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(shiftStatsKeyFmt, shiftID)).Bytes()
	if err != nil {
		return nil, false
	}
	var stats models.ShiftStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// SetShiftStatistics caches statistics for a shift with a short TTL.
func SetShiftStatistics(ctx context.Context, shiftID int, stats *models.ShiftStatistics) {
	if client == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := client.Set(ctx, fmt.Sprintf(shiftStatsKeyFmt, shiftID), data, shiftStatsTTL).Err(); err != nil {
		log.Printf("[Redis] failed to cache shift %d statistics: %v", shiftID, err)
	}
}

// InvalidateShiftStatistics drops the cached statistics for a shift. Called
// whenever its ledger changes.
func InvalidateShiftStatistics(ctx context.Context, shiftID int) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, fmt.Sprintf(shiftStatsKeyFmt, shiftID)).Err(); err != nil {
		log.Printf("[Redis] failed to invalidate shift %d statistics: %v", shiftID, err)
	}
}
