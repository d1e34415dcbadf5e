package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gspotify/db"
	"gspotify/logger"
	"gspotify/model"

	"github.com/redis/go-redis/v9"
)

// TTLs are short: the cache only absorbs read bursts, the database stays the
// source of truth.
const (
	songDetailTTL = 5 * time.Minute
	statsTTL      = time.Minute
)

func songDetailKey(songID int64) string {
	return fmt.Sprintf("song:detail:%d", songID)
}

const platformStatsKey = "stats:platform"

// GetSongDetail returns the cached detail view of a song, or (nil, nil) on a
// cache miss. A nil redis client is treated as a permanent miss.
func GetSongDetail(ctx context.Context, songID int64) (*model.SongWithDetails, error) {
	if db.RedisClient == nil {
		return nil, nil
	}

	data, err := db.RedisClient.Get(ctx, songDetailKey(songID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read song detail cache: %w", err)
	}

	detail := &model.SongWithDetails{}
	if err := json.Unmarshal(data, detail); err != nil {
		// A corrupt entry is dropped, not surfaced.
		db.RedisClient.Del(ctx, songDetailKey(songID))
		return nil, nil
	}
	return detail, nil
}

// SetSongDetail stores the detail view of a song.
func SetSongDetail(ctx context.Context, detail *model.SongWithDetails) {
	if db.RedisClient == nil {
		return
	}

	data, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := db.RedisClient.Set(ctx, songDetailKey(detail.ID), data, songDetailTTL).Err(); err != nil {
		logger.Warn("Failed to cache song detail",
			logger.Int64("songId", detail.ID),
			logger.ErrorField(err),
		)
	}
}

// InvalidateSongDetail drops the cached detail view after a mutation
// (approval, rejection, deletion, lyrics change).
func InvalidateSongDetail(ctx context.Context, songID int64) {
	if db.RedisClient == nil {
		return
	}
	if err := db.RedisClient.Del(ctx, songDetailKey(songID)).Err(); err != nil {
		logger.Warn("Failed to invalidate song detail cache",
			logger.Int64("songId", songID),
			logger.ErrorField(err),
		)
	}
}

// GetPlatformStats returns the cached admin dashboard payload, or nil on miss.
func GetPlatformStats(ctx context.Context) map[string]interface{} {
	if db.RedisClient == nil {
		return nil
	}

	data, err := db.RedisClient.Get(ctx, platformStatsKey).Bytes()
	if err != nil {
		return nil
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil
	}
	return stats
}

// SetPlatformStats caches the admin dashboard payload for a minute.
func SetPlatformStats(ctx context.Context, stats map[string]interface{}) {
	if db.RedisClient == nil {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := db.RedisClient.Set(ctx, platformStatsKey, data, statsTTL).Err(); err != nil {
		logger.Warn("Failed to cache platform stats", logger.ErrorField(err))
	}
}
