package grant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"bobadash/internal/domain"
)

// CooldownStore records successful grant requests so repeat submissions for
// the same event can be surfaced to the organizer for the next 24 hours.
type CooldownStore interface {
	// Get returns the active marker for the event, or nil when none exists.
	Get(ctx context.Context, eventCode string) (*domain.CooldownMarker, error)
	// Put records a marker with the cooldown window as its TTL.
	Put(ctx context.Context, marker domain.CooldownMarker) error
}

func cooldownKey(eventCode string) string {
	return fmt.Sprintf("grant-request-%s", eventCode)
}

// RedisStore keeps cooldown markers in Redis. The TTL does the expiry work;
// a missing key simply means no request is on record.
type RedisStore struct {
	client goredis.Cmdable
}

func NewRedisStore(client goredis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, eventCode string) (*domain.CooldownMarker, error) {
	raw, err := s.client.Get(ctx, cooldownKey(eventCode)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cooldown marker: %w", err)
	}

	requestedAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Unparseable markers are treated as absent rather than wedging the
		// event until the TTL clears them.
		return nil, nil
	}
	return &domain.CooldownMarker{EventCode: eventCode, RequestedAt: requestedAt}, nil
}

func (s *RedisStore) Put(ctx context.Context, marker domain.CooldownMarker) error {
	value := marker.RequestedAt.UTC().Format(time.RFC3339)
	if err := s.client.Set(ctx, cooldownKey(marker.EventCode), value, domain.CooldownWindow).Err(); err != nil {
		return fmt.Errorf("put cooldown marker: %w", err)
	}
	return nil
}

// MemoryStore is the in-process fallback used when Redis is not configured.
// Markers expire on read.
type MemoryStore struct {
	mu      sync.Mutex
	markers map[string]domain.CooldownMarker
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		markers: make(map[string]domain.CooldownMarker),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, eventCode string) (*domain.CooldownMarker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker, ok := s.markers[eventCode]
	if !ok {
		return nil, nil
	}
	if s.now().Sub(marker.RequestedAt) >= domain.CooldownWindow {
		delete(s.markers, eventCode)
		return nil, nil
	}
	out := marker
	return &out, nil
}

func (s *MemoryStore) Put(_ context.Context, marker domain.CooldownMarker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[marker.EventCode] = marker
	return nil
}
