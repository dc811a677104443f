package services

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"

	"golang.org/x/sync/singleflight"
)

// SettingsService serves the singleton settings row. Reads go through a
// short-lived cache; concurrent misses share one store round trip.
type SettingsService struct {
	base
	cache *cache.LRUCache[core.Settings]
	group singleflight.Group

	// mu guards gen, which Update bumps so a read that raced it cannot
	// put the older row back in the cache.
	mu  sync.Mutex
	gen uint64
}

func NewSettingsService(store *storage.Store, ttl time.Duration, opts Options) *SettingsService {
	return &SettingsService{
		base:  newBase(store, opts, log.ComponentSettings),
		cache: cache.NewLRUCache[core.Settings](1, ttl),
	}
}

// Cache exposes the settings cache so a cache.Manager can sweep it.
func (s *SettingsService) Cache() *cache.LRUCache[core.Settings] {
	return s.cache
}

// GetOrCreate returns the settings row, inserting defaults on first access.
// Calls after the first never write.
func (s *SettingsService) GetOrCreate(ctx context.Context) (core.Settings, error) {
	if cached, ok := s.cache.Get(core.SettingsID); ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(core.SettingsID, func() (any, error) {
		gen := s.generation()
		// shared by every waiter, so one caller's cancellation must not fail the rest
		settings, err := s.store.EnsureSettings(context.WithoutCancel(ctx), core.DefaultSettings(s.now()))
		if err != nil {
			return core.Settings{}, err
		}
		s.cacheIfCurrent(gen, settings)
		return settings, nil
	})
	if err != nil {
		return core.Settings{}, err
	}
	return v.(core.Settings), nil
}

func (s *SettingsService) Update(ctx context.Context, patch core.SettingsUpdate) (core.Settings, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return core.Settings{}, err
	}

	var out core.Settings
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		current, err := q.EnsureSettings(ctx, core.DefaultSettings(s.now()))
		if err != nil {
			return err
		}
		patch.Apply(&current)
		current.UpdatedAt = s.now()
		if err := q.UpdateSettings(ctx, current); err != nil {
			return err
		}
		out, err = q.GetSettings(ctx, core.SettingsID)
		return err
	})
	s.mu.Lock()
	s.gen++
	if err != nil {
		s.cache.Delete(core.SettingsID)
	} else {
		s.cache.Set(core.SettingsID, out)
	}
	s.mu.Unlock()
	if err != nil {
		return core.Settings{}, err
	}

	s.logger.InfoContext(ctx, "Settings updated",
		"currency", out.Currency,
		"ai_provider", string(out.AIProvider))
	s.publish(ctx, amqp.ResourceSettings, amqp.ActionUpdated, out.ID)
	return out, nil
}

func (s *SettingsService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// cacheIfCurrent caches settings unless an Update finished after gen was read.
func (s *SettingsService) cacheIfCurrent(gen uint64, settings core.Settings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.cache.Set(core.SettingsID, settings)
	return true
}
