package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/models"
)

const (
	oppKeyPrefix   = "opportunity:"
	oppIndexKey    = "opportunities:ids"
	jobKeyPrefix   = "job:"
	matchKeyPrefix = "matches:"
	savedKeyPrefix = "saved:"

	jobTTL = 24 * time.Hour
)

// RedisStore keeps opportunities and jobs as JSON documents. The opportunity
// index uses a list rather than a set to preserve insertion order for
// deterministic listing.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger.Named("store")}
}

// Connect parses a redis URL, dials it and verifies the connection.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) SaveOpportunity(ctx context.Context, opp models.Opportunity) error {
	raw, err := json.Marshal(opp)
	if err != nil {
		return fmt.Errorf("failed to marshal opportunity: %w", err)
	}

	key := oppKeyPrefix + opp.ID
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check opportunity: %w", err)
	}

	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save opportunity: %w", err)
	}
	if exists == 0 {
		if err := s.client.RPush(ctx, oppIndexKey, opp.ID).Err(); err != nil {
			return fmt.Errorf("failed to index opportunity: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) GetOpportunity(ctx context.Context, id string) (models.Opportunity, error) {
	raw, err := s.client.Get(ctx, oppKeyPrefix+id).Result()
	if err == redis.Nil {
		return models.Opportunity{}, ErrNotFound
	}
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("failed to get opportunity: %w", err)
	}

	var opp models.Opportunity
	if err := json.Unmarshal([]byte(raw), &opp); err != nil {
		return models.Opportunity{}, fmt.Errorf("failed to decode opportunity %s: %w", id, err)
	}
	return opp, nil
}

func (s *RedisStore) ListOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	ids, err := s.client.LRange(ctx, oppIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunity ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = oppKeyPrefix + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	out := make([]models.Opportunity, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var opp models.Opportunity
		if err := json.Unmarshal([]byte(raw), &opp); err != nil {
			s.logger.Warn("skipping undecodable opportunity",
				zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		out = append(out, opp)
	}
	return out, nil
}

func (s *RedisStore) SaveJob(ctx context.Context, job models.DiscoveryJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := s.client.Set(ctx, jobKeyPrefix+job.ID, raw, jobTTL).Err(); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

func (s *RedisStore) GetJob(ctx context.Context, id string) (models.DiscoveryJob, error) {
	raw, err := s.client.Get(ctx, jobKeyPrefix+id).Result()
	if err == redis.Nil {
		return models.DiscoveryJob{}, ErrNotFound
	}
	if err != nil {
		return models.DiscoveryJob{}, fmt.Errorf("failed to get job: %w", err)
	}

	var job models.DiscoveryJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return models.DiscoveryJob{}, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return job, nil
}

func (s *RedisStore) SaveUserMatches(ctx context.Context, userID string, opportunityIDs []string) error {
	raw, err := json.Marshal(opportunityIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	if err := s.client.Set(ctx, matchKeyPrefix+userID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save matches: %w", err)
	}
	return nil
}

func (s *RedisStore) GetUserMatches(ctx context.Context, userID string) ([]string, error) {
	raw, err := s.client.Get(ctx, matchKeyPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	return ids, nil
}

func (s *RedisStore) AddSavedOpportunity(ctx context.Context, userID, opportunityID string) error {
	if err := s.client.SAdd(ctx, savedKeyPrefix+userID, opportunityID).Err(); err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

func (s *RedisStore) RemoveSavedOpportunity(ctx context.Context, userID, opportunityID string) error {
	if err := s.client.SRem(ctx, savedKeyPrefix+userID, opportunityID).Err(); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *RedisStore) GetSavedOpportunities(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, savedKeyPrefix+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}
