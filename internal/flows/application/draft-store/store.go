// internal/flows/application/draft-store/store.go
package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lease-client/internal/common/database"
	"lease-client/internal/common/logger"
	formwizard "lease-client/internal/flows/application/form-wizard"
)

var ErrCorruptDraft = errors.New("CORRUPT_DRAFT")

// Store keeps unfinished application drafts in Redis, one key per listing,
// expiring after the configured TTL.
type Store struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewStore(config *Config, redis *database.RedisClient, log logger.Logger) *Store {
	if config == nil {
		config = LoadConfig(nil)
	}
	return &Store{
		redis:  redis,
		ttl:    config.TTL,
		logger: log.WithFields(map[string]interface{}{"component": "draft-store"}),
	}
}

func Key(listingID string) string {
	return KeyPrefix + listingID
}

func (s *Store) Save(ctx context.Context, listingID string, saved formwizard.SavedDraft) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, Key(listingID), data, s.ttl); err != nil {
		return fmt.Errorf("save draft %s: %w", listingID, err)
	}
	s.logger.Debug("draft saved", map[string]interface{}{
		"listingId": listingID,
		"step":      int(saved.Step),
	})
	return nil
}

// Load returns (nil, nil) when no draft is stored for listingID.
func (s *Store) Load(ctx context.Context, listingID string) (*formwizard.SavedDraft, error) {
	raw, err := s.redis.Get(ctx, Key(listingID))
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", listingID, err)
	}

	var saved formwizard.SavedDraft
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		s.logger.Warn("discarding unreadable draft", map[string]interface{}{
			"listingId": listingID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrCorruptDraft, err)
	}
	return &saved, nil
}

func (s *Store) Delete(ctx context.Context, listingID string) error {
	if err := s.redis.Del(ctx, Key(listingID)); err != nil {
		return fmt.Errorf("delete draft %s: %w", listingID, err)
	}
	return nil
}

var _ formwizard.DraftStore = (*Store)(nil)
