package combats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
)

const (
	combatKeyPrefix   = "combat:"
	activeCombatKeyFmt = "game:%s:active_combat"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// redisRepository implements Repository using Redis. The aggregate is stored
// as one JSON blob per combat, with a per-game pointer key for the
// active-combat lookup. Combats are kept without TTL: ended combats remain
// readable history.
type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed combat repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{client: cfg.Client}
}

func combatKey(id string) string {
	return combatKeyPrefix + id
}

func activeCombatKey(gameID string) string {
	return fmt.Sprintf(activeCombatKeyFmt, gameID)
}

// Create stores a new combat
func (r *redisRepository) Create(ctx context.Context, cbt *combat.Combat) error {
	if cbt == nil {
		return rberr.Validation("combat cannot be nil")
	}
	if cbt.ID == "" {
		return rberr.Validation("combat ID cannot be empty")
	}

	data, err := json.Marshal(cbt)
	if err != nil {
		return fmt.Errorf("failed to serialize combat: %w", err)
	}

	exists, err := r.client.Exists(ctx, combatKey(cbt.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check combat existence: %w", err)
	}
	if exists > 0 {
		return rberr.AlreadyExists("combat with ID " + cbt.ID + " already exists")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, combatKey(cbt.ID), data, 0)
	if cbt.Status == combat.StatusActive {
		pipe.Set(ctx, activeCombatKey(cbt.GameID), cbt.ID, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create combat: %w", err)
	}

	return nil
}

// Get retrieves a combat by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*combat.Combat, error) {
	data, err := r.client.Get(ctx, combatKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, rberr.NotFoundf("combat not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get combat: %w", err)
	}

	var cbt combat.Combat
	if err := json.Unmarshal(data, &cbt); err != nil {
		return nil, fmt.Errorf("failed to deserialize combat: %w", err)
	}

	return &cbt, nil
}

// Update modifies an existing combat and maintains the active-combat pointer
func (r *redisRepository) Update(ctx context.Context, cbt *combat.Combat) error {
	if cbt == nil {
		return rberr.Validation("combat cannot be nil")
	}
	if cbt.ID == "" {
		return rberr.Validation("combat ID cannot be empty")
	}

	data, err := json.Marshal(cbt)
	if err != nil {
		return fmt.Errorf("failed to serialize combat: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, combatKey(cbt.ID), data, 0)
	if cbt.Status == combat.StatusEnded {
		pipe.Del(ctx, activeCombatKey(cbt.GameID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update combat: %w", err)
	}

	return nil
}

// Delete removes a combat and its active pointer
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	cbt, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, combatKey(id))
	pipe.Del(ctx, activeCombatKey(cbt.GameID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete combat: %w", err)
	}

	return nil
}

// GetActiveByGame retrieves the active combat for a game, nil when none
func (r *redisRepository) GetActiveByGame(ctx context.Context, gameID string) (*combat.Combat, error) {
	combatID, err := r.client.Get(ctx, activeCombatKey(gameID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active combat pointer: %w", err)
	}

	cbt, err := r.Get(ctx, combatID)
	if err != nil {
		if rberr.IsNotFound(err) {
			// Stale pointer; treat as no active combat
			return nil, nil
		}
		return nil, err
	}

	if cbt.Status != combat.StatusActive {
		return nil, nil
	}

	return cbt, nil
}
