package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// RedisService is the side-car store next to the volatile engine: guess rate
// limiting and an archive of completed rounds for the history endpoint. The
// authoritative round state never lives here.
type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(addr, password string, db int) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{
		client: client,
		ctx:    ctx,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// CheckRateLimit allows up to limit actions per window per key, counting
// with INCR and expiring the counter when the window opens.
func (s *RedisService) CheckRateLimit(key, action string, limit int, window time.Duration) (bool, error) {
	rlKey := fmt.Sprintf(KeyRateLimit, key, action)

	count, err := s.client.Incr(s.ctx, rlKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, rlKey, window)
	}

	return count <= int64(limit), nil
}

// ArchiveRound stores a completed round snapshot and indexes it by end time.
func (s *RedisService) ArchiveRound(round models.Round) error {
	key := fmt.Sprintf(KeyRoundArchive, round.ID)

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %v", err)
	}

	if err := s.client.Set(s.ctx, key, data, TTLRoundArchive).Err(); err != nil {
		return fmt.Errorf("failed to archive round: %v", err)
	}

	if err := s.client.ZAdd(s.ctx, KeyCompletedRounds, redis.Z{
		Score:  float64(round.EndedAt.Unix()),
		Member: round.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index round: %v", err)
	}

	// Keep the last 500 completed rounds.
	s.client.ZRemRangeByRank(s.ctx, KeyCompletedRounds, 0, -501)

	return nil
}

// GetRoundHistory returns the most recently completed rounds, newest first.
func (s *RedisService) GetRoundHistory(limit int64) ([]models.Round, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	roundIDs, err := s.client.ZRevRange(s.ctx, KeyCompletedRounds, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round history: %v", err)
	}

	var rounds []models.Round
	for _, id := range roundIDs {
		data, err := s.client.Get(s.ctx, fmt.Sprintf(KeyRoundArchive, id)).Result()
		if err != nil {
			continue
		}

		var round models.Round
		if err := json.Unmarshal([]byte(data), &round); err != nil {
			continue
		}

		rounds = append(rounds, round)
	}

	return rounds, nil
}
