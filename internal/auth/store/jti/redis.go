package jti

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	id "linkboard/pkg/domain"
	"linkboard/pkg/platform/sentinel"
)

const (
	jtiKeyPrefix   = "cli_jti:"
	ownerKeyPrefix = "cli_jti_owner:"
)

type entryJSON struct {
	OwnerID   string `json:"owner_user_id"`
	CreatedAt int64  `json:"created_at"` // Unix nano
}

// RedisRegistry stores each jti as a string key with no expiry plus a per-owner set
// used for listings. Keys never expire; revocation is DEL.
type RedisRegistry struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed registry.
func NewRedis(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Insert(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entryJSON{
		OwnerID:   entry.OwnerID.String(),
		CreatedAt: entry.CreatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("marshal jti entry: %w", err)
	}

	created, err := r.client.SetNX(ctx, jtiKeyPrefix+entry.JTI, data, 0).Result()
	if err != nil {
		return fmt.Errorf("insert jti: %w", err)
	}
	if !created {
		return fmt.Errorf("insert jti %s: %w", entry.JTI, sentinel.ErrAlreadyUsed)
	}
	if err := r.client.SAdd(ctx, ownerKeyPrefix+entry.OwnerID.String(), entry.JTI).Err(); err != nil {
		// The jti key is the source of truth; an orphan without an owner index would
		// be a valid token nobody can list, so roll it back.
		_ = r.client.Del(ctx, jtiKeyPrefix+entry.JTI).Err()
		return fmt.Errorf("index jti owner: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, jtiKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check jti: %w", err)
	}
	return n == 1, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, jti string) error {
	key := jtiKeyPrefix + jti
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("load jti for delete: %w", err)
	}

	var j entryJSON
	if err := json.Unmarshal([]byte(data), &j); err != nil {
		// Corrupt payload: still revoke.
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			return fmt.Errorf("delete jti: %w", delErr)
		}
		return nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, ownerKeyPrefix+j.OwnerID, jti)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete jti: %w", err)
	}
	return nil
}

func (r *RedisRegistry) ListByOwner(ctx context.Context, owner id.UserID) ([]Entry, error) {
	jtis, err := r.client.SMembers(ctx, ownerKeyPrefix+owner.String()).Result()
	if err != nil {
		return nil, fmt.Errorf("list jtis by owner: %w", err)
	}
	if len(jtis) == 0 {
		return nil, nil
	}

	keys := make([]string, len(jtis))
	for i, j := range jtis {
		keys[i] = jtiKeyPrefix + j
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load jtis: %w", err)
	}

	out := make([]Entry, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var j entryJSON
		if err := json.Unmarshal([]byte(raw), &j); err != nil {
			continue
		}
		ownerID, err := uuid.Parse(j.OwnerID)
		if err != nil {
			continue
		}
		out = append(out, Entry{
			JTI:       jtis[i],
			OwnerID:   id.UserID(ownerID),
			CreatedAt: time.Unix(0, j.CreatedAt).UTC(),
		})
	}
	sortEntries(out)
	return out, nil
}
