package redis_store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"resilience/internal/models"
)

func dbKeyLeaderboard(name string) string {
	return fmt.Sprintf("leaderboard:%s", strings.ToLower(name))
}

func dbKeyPendingNotifications(userID string) string {
	return fmt.Sprintf("notifications:pending:%s", userID)
}

// PendingNotificationTTL bounds how long undelivered toasts sit in redis.
const PendingNotificationTTL = 24 * time.Hour

func SetLeaderboardScore(ctx context.Context, cmd redis.Cmdable, name string, v *models.LeaderboardItem) (*models.LeaderboardItem, error) {
	err := cmd.ZAdd(ctx, dbKeyLeaderboard(name), redis.Z{
		Score:  v.Score,
		Member: v.UserID,
	}).Err()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func ClearLeaderboard(ctx context.Context, cmd redis.Cmdable, name string) error {
	return cmd.Del(ctx, dbKeyLeaderboard(name)).Err()
}

func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, num int) ([]*models.LeaderboardItem, error) {
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	var results []*models.LeaderboardItem
	for i, item := range items {
		id, _ := item.Member.(string)
		results = append(results, &models.LeaderboardItem{
			UserID: id,
			Score:  item.Score,
			Rank:   i + 1,
		})
	}

	return results, nil
}

func GetRankWithScore(ctx context.Context, cmd redis.Cmdable, name string, userID string) (redis.RankScore, error) {
	rank, err := cmd.ZRevRankWithScore(ctx, dbKeyLeaderboard(name), userID).Result()
	if err != nil {
		return redis.RankScore{}, err
	}
	return rank, nil
}

func GetLeaderboardParticipantsCount(ctx context.Context, cmd redis.Cmdable, name string) (int64, error) {
	return cmd.ZCard(ctx, dbKeyLeaderboard(name)).Result()
}

// PushPendingNotification queues a toast for the next client poll,
// msgpack-encoded to match the cache codec.
func PushPendingNotification(ctx context.Context, cmd redis.Cmdable, userID string, notification *models.Notification) error {
	b, err := msgpack.Marshal(notification)
	if err != nil {
		return err
	}

	key := dbKeyPendingNotifications(userID)
	if err := cmd.RPush(ctx, key, b).Err(); err != nil {
		return err
	}
	return cmd.Expire(ctx, key, PendingNotificationTTL).Err()
}

// PopPendingNotifications drains and returns the queued toasts.
func PopPendingNotifications(ctx context.Context, cmd redis.Cmdable, userID string) ([]*models.Notification, error) {
	key := dbKeyPendingNotifications(userID)

	pipe := cmd.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw, err := rangeCmd.Result()
	if err != nil {
		return nil, err
	}

	notifications := make([]*models.Notification, 0, len(raw))
	for _, item := range raw {
		var n models.Notification
		if err := msgpack.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}
