package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"wayfarer/internal/preference"
	"wayfarer/pkg/platform/sentinel"
	wstrings "wayfarer/pkg/platform/strings"
)

// Redis key layout. The marker key distinguishes "row exists with empty
// sets" from "no row", which the member set keys alone cannot express.
const (
	prefKeyPrefix = "pref:"

	markerSuffix   = ":row"
	followedSuffix = ":followed"
	keywordsSuffix = ":keywords"
)

// RedisStore is a Redis-backed preference store for deployments that already
// run Redis. SADD/SREM give the atomic set membership the follow path needs
// without any transaction machinery.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed preference store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, memberID uuid.UUID) (preference.Preference, error) {
	base := prefKeyPrefix + memberID.String()

	exists, err := s.client.Exists(ctx, base+markerSuffix).Result()
	if err != nil {
		return preference.Preference{}, fmt.Errorf("get preference marker: %w", err)
	}
	if exists == 0 {
		return preference.Preference{}, sentinel.ErrNotFound
	}

	pipe := s.client.Pipeline()
	followedCmd := pipe.SMembers(ctx, base+followedSuffix)
	keywordsCmd := pipe.SMembers(ctx, base+keywordsSuffix)
	if _, err := pipe.Exec(ctx); err != nil {
		return preference.Preference{}, fmt.Errorf("get preference sets: %w", err)
	}

	return preference.Preference{
		MemberID: memberID,
		Followed: followedCmd.Val(),
		Keywords: keywordsCmd.Val(),
	}, nil
}

func (s *RedisStore) Put(ctx context.Context, pref preference.Preference) error {
	norm := pref.Normalized()
	base := prefKeyPrefix + norm.MemberID.String()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, base+markerSuffix, "1", 0)
	pipe.Del(ctx, base+followedSuffix, base+keywordsSuffix)
	if len(norm.Followed) > 0 {
		pipe.SAdd(ctx, base+followedSuffix, toAny(norm.Followed)...)
	}
	if len(norm.Keywords) > 0 {
		pipe.SAdd(ctx, base+keywordsSuffix, toAny(norm.Keywords)...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

func (s *RedisStore) SyncFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error {
	key := wstrings.NormalizeKey(creator)
	if key == "" {
		return nil
	}
	base := prefKeyPrefix + memberID.String()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, base+markerSuffix, "1", 0)
	if following {
		pipe.SAdd(ctx, base+followedSuffix, key)
	} else {
		pipe.SRem(ctx, base+followedSuffix, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("sync follow: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, memberID uuid.UUID) error {
	base := prefKeyPrefix + memberID.String()
	if err := s.client.Del(ctx, base+markerSuffix, base+followedSuffix, base+keywordsSuffix).Err(); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
