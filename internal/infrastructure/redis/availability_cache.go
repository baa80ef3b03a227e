package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// availabilityTTL は空席数キャッシュの有効期間
// 予約・キャンセルで明示的に無効化されるため、TTL は障害時の保険
const availabilityTTL = 5 * time.Minute

// AvailabilityCache は搭乗クラスごとの空席数キャッシュ
// 正は常にデータベース側にあり、キャッシュミス時はDBへフォールバックする
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

func availabilityKey(flightClassID string) string {
	return fmt.Sprintf("availability:flight_class:%s", flightClassID)
}

// Get はキャッシュされた空席数を返す
// キャッシュミスの場合は found=false を返し、エラーにはしない
func (c *AvailabilityCache) Get(ctx context.Context, flightClassID string) (int, bool, error) {
	val, err := c.client.Get(ctx, availabilityKey(flightClassID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("空席数キャッシュ取得に失敗: %w", err)
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("空席数キャッシュが不正です: %w", err)
	}
	return count, true, nil
}

// Set は空席数をキャッシュする
func (c *AvailabilityCache) Set(ctx context.Context, flightClassID string, count int) error {
	if err := c.client.Set(ctx, availabilityKey(flightClassID), count, availabilityTTL).Err(); err != nil {
		return fmt.Errorf("空席数キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は空席数キャッシュを破棄する
// 予約・キャンセルのコミット後に呼ばれ、次回照会でDBから再取得させる
func (c *AvailabilityCache) Invalidate(ctx context.Context, flightClassID string) error {
	if err := c.client.Del(ctx, availabilityKey(flightClassID)).Err(); err != nil {
		return fmt.Errorf("空席数キャッシュ破棄に失敗: %w", err)
	}
	return nil
}
