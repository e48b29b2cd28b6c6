package affinity

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/socialfusion/backend/internal/cache"
	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/repository"
	"go.uber.org/zap"
)

// DefaultLimit is how many suggestions are returned when the caller
// doesn't ask for a specific count
const DefaultLimit = 5

// suggestionTTL bounds how stale a cached suggestion list can get
const suggestionTTL = 5 * time.Minute

// ScoredUser is a suggestion candidate with its affinity score. A
// suggested user is by definition not followed yet.
type ScoredUser struct {
	models.User
	Score       int  `json:"score"`
	IsFollowing bool `json:"is_following"`
}

// Engine produces suggested users for a viewer by scoring every
// candidate they don't already follow
type Engine struct {
	users  repository.UserRepository
	scorer Scorer
	redis  *cache.RedisClient
}

// NewEngine creates a suggestion engine. redis may be nil, which
// disables caching.
func NewEngine(users repository.UserRepository, scorer Scorer, redis *cache.RedisClient) *Engine {
	return &Engine{users: users, scorer: scorer, redis: redis}
}

// SuggestedUsers returns the top-scored candidates for the viewer.
// Ordering is score descending, then follower count descending, then ID
// ascending so equal profiles page deterministically.
func (e *Engine) SuggestedUsers(ctx context.Context, viewer *models.User, limit int) ([]ScoredUser, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := fmt.Sprintf("suggested_users:%s:%d", viewer.ID, limit)
	if e.redis != nil {
		if raw, err := e.redis.Get(ctx, key); err == nil {
			var cached []ScoredUser
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	candidates, err := e.users.GetSuggestionCandidates(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredUser, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, ScoredUser{
			User:  *candidate,
			Score: e.scorer.Score(viewer, candidate),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].FollowerCount != scored[j].FollowerCount {
			return scored[i].FollowerCount > scored[j].FollowerCount
		}
		return scored[i].ID < scored[j].ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	if e.redis != nil {
		if raw, err := json.Marshal(scored); err == nil {
			if err := e.redis.SetEx(ctx, key, raw, suggestionTTL); err != nil {
				logger.Log.Warn("Failed to cache suggestions",
					logger.WithUserID(viewer.ID),
					zap.Error(err),
				)
			}
		}
	}

	return scored, nil
}

// Invalidate drops any cached suggestion lists for the user. Called when
// their follow graph or profile changes.
func (e *Engine) Invalidate(ctx context.Context, userID string) {
	if e.redis == nil {
		return
	}
	keys, err := e.redis.Keys(ctx, fmt.Sprintf("suggested_users:%s:*", userID))
	if err != nil || len(keys) == 0 {
		return
	}
	if err := e.redis.Del(ctx, keys...); err != nil {
		logger.Log.Warn("Failed to invalidate suggestion cache",
			logger.WithUserID(userID),
			zap.Error(err),
		)
	}
}
