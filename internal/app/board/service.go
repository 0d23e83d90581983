package board

import (
	"context"
	"encoding/json"
	"fmt"

	"bulletin/internal/providers/redis"

	"go.uber.org/zap"
)

type Service interface {
	Post(ctx context.Context, b *Board) (*Board, error)
	Load(ctx context.Context, boardID string) (*Board, error)
	Comment(ctx context.Context, boardID string, cm *Comment) (*Board, error)
	List(ctx context.Context, page, size int) ([]*Board, error)
	Delete(ctx context.Context, boardID string) (string, error)
}

type service struct {
	repo        Repository
	redisP      *redis.RedisProvider
	logger      *zap.SugaredLogger
	cachePrefix string
}

// NewService wraps the repository with a read-through cache on board
// lookups. A nil redis provider disables caching entirely; every cache
// failure is fail-open.
func NewService(repo Repository, redisP *redis.RedisProvider, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		redisP:      redisP,
		logger:      logger.Sugar(),
		cachePrefix: "board",
	}
}

func (s *service) Post(ctx context.Context, b *Board) (*Board, error) {
	return s.repo.Post(ctx, b)
}

func (s *service) Load(ctx context.Context, boardID string) (*Board, error) {
	cacheKey := s.cacheKey(boardID)

	if s.redisP != nil {
		cached, err := s.redisP.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			var b Board
			if json.Unmarshal([]byte(cached), &b) == nil {
				return &b, nil
			}
		}
	}

	b, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if s.redisP != nil {
		if data, err := json.Marshal(b); err == nil {
			s.redisP.SetWithDefaultTTL(ctx, cacheKey, data, 0)
		}
	}
	return b, nil
}

func (s *service) Comment(ctx context.Context, boardID string, cm *Comment) (*Board, error) {
	b, err := s.repo.Comment(ctx, boardID, cm)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, boardID)
	return b, nil
}

func (s *service) List(ctx context.Context, page, size int) ([]*Board, error) {
	return s.repo.List(ctx, page, size)
}

func (s *service) Delete(ctx context.Context, boardID string) (string, error) {
	id, err := s.repo.Delete(ctx, boardID)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, boardID)
	return id, nil
}

func (s *service) invalidate(ctx context.Context, boardID string) {
	if s.redisP == nil {
		return
	}
	if err := s.redisP.Del(ctx, s.cacheKey(boardID)).Err(); err != nil {
		s.logger.Warnw("Failed to invalidate board cache", "board_id", boardID, "error", err)
	}
}

func (s *service) cacheKey(boardID string) string {
	return fmt.Sprintf("%s:%s", s.cachePrefix, boardID)
}
