package characters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rollbound/rollbound/internal/domain/character"
	rberr "github.com/rollbound/rollbound/internal/errors"
)

const characterKeyPrefix = "character:"

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{client: cfg.Client}
}

func characterKey(id string) string {
	return characterKeyPrefix + id
}

// Create stores a new character record
func (r *redisRepository) Create(ctx context.Context, char *character.Character) error {
	if char == nil {
		return rberr.Validation("character cannot be nil")
	}
	if char.ID == "" {
		return rberr.Validation("character ID cannot be empty")
	}

	data, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to serialize character: %w", err)
	}

	ok, err := r.client.SetNX(ctx, characterKey(char.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	if !ok {
		return rberr.AlreadyExists("character with ID " + char.ID + " already exists")
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	data, err := r.client.Get(ctx, characterKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, rberr.NotFoundf("character not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var char character.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return nil, fmt.Errorf("failed to deserialize character: %w", err)
	}

	return &char, nil
}

// Update modifies an existing character record
func (r *redisRepository) Update(ctx context.Context, char *character.Character) error {
	if char == nil {
		return rberr.Validation("character cannot be nil")
	}
	if char.ID == "" {
		return rberr.Validation("character ID cannot be empty")
	}

	if _, err := r.Get(ctx, char.ID); err != nil {
		return err
	}

	data, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to serialize character: %w", err)
	}

	if err := r.client.Set(ctx, characterKey(char.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	return nil
}

// Delete removes a character record
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, characterKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if deleted == 0 {
		return rberr.NotFoundf("character not found: %s", id)
	}

	return nil
}
