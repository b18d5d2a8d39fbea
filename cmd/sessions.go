package cmd

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iksnae/session-handoff/internal/cache"
	"github.com/iksnae/session-handoff/internal/log"
	"github.com/iksnae/session-handoff/internal/source"
)

// activeRegistry returns the adapter registry with config-disabled
// sources filtered out.
func activeRegistry() *source.Registry {
	all := source.DefaultRegistry()
	var enabled []source.Adapter
	for _, adapter := range all.Adapters() {
		if cfg.SourceEnabled(adapter.Tag()) {
			enabled = append(enabled, adapter)
		}
	}
	return source.NewRegistry(enabled...)
}

func cacheManager() *cache.Manager {
	return cache.NewManager(cfg.CacheDir)
}

// buildIndex discovers sessions across all enabled adapters and
// refreshes the cached index. Cached summaries are carried over for
// artifacts that have not changed.
func buildIndex(registry *source.Registry, cm *cache.Manager) (*cache.Index, error) {
	previous, err := cm.LoadIndex()
	if err != nil {
		log.L().Warn("failed to load cached index", zap.Error(err))
	}
	known := make(map[string]cache.IndexEntry)
	if previous != nil {
		for _, entry := range previous.Entries {
			known[entry.ID] = entry
		}
	}

	index := &cache.Index{}
	for _, adapter := range registry.Adapters() {
		refs, err := adapter.Discover()
		if err != nil {
			log.L().Warn("session discovery failed",
				zap.String("source", adapter.Tag()), zap.Error(err))
			continue
		}
		for _, ref := range refs {
			entry := cache.IndexEntry{
				ID:      ref.ID,
				Source:  adapter.Tag(),
				Path:    ref.Path,
				ModTime: ref.ModTime,
			}
			if prev, ok := known[ref.ID]; ok && prev.ModTime.Equal(ref.ModTime) {
				entry.Summary = prev.Summary
				entry.MessageCount = prev.MessageCount
				entry.UpdatedAt = prev.UpdatedAt
			}
			index.Entries = append(index.Entries, entry)
		}
	}

	if err := cm.SaveIndex(index); err != nil {
		log.L().Warn("failed to save index", zap.Error(err))
	}
	return index, nil
}

// resolveSession finds one session by (possibly abbreviated) ID and
// loads it, going through the cache when the backing artifact is
// unchanged.
func resolveSession(registry *source.Registry, cm *cache.Manager, sessionID string) (*source.LoadedSession, error) {
	index, err := buildIndex(registry, cm)
	if err != nil {
		return nil, err
	}

	var match *cache.IndexEntry
	for i := range index.Entries {
		entry := &index.Entries[i]
		if entry.ID == sessionID {
			match = entry
			break
		}
		if strings.HasPrefix(entry.ID, sessionID) {
			if match != nil {
				return nil, fmt.Errorf("session ID %q is ambiguous (use 'session-handoff list' to see full IDs)", sessionID)
			}
			match = entry
		}
	}
	if match == nil {
		return nil, fmt.Errorf("session not found: %s (use 'session-handoff list' to see available sessions)", sessionID)
	}

	if cm.IsFresh(*match) {
		if cached, err := cm.LoadSession(match.ID); err == nil && cached != nil {
			log.L().Debug("loaded session from cache", zap.String("id", match.ID))
			return cached, nil
		}
	}

	adapter, ok := registry.ByTag(match.Source)
	if !ok {
		return nil, fmt.Errorf("no adapter registered for source %q", match.Source)
	}
	loaded, err := adapter.Load(source.SessionRef{
		ID: match.ID, Path: match.Path, ModTime: match.ModTime,
	})
	if err != nil {
		return nil, err
	}

	if err := cm.SaveSession(match.ID, loaded); err != nil {
		log.L().Warn("failed to cache session", zap.String("id", match.ID), zap.Error(err))
	}
	match.Summary = loaded.Session.Summary
	match.MessageCount = loaded.Session.MessageCount
	match.UpdatedAt = loaded.Session.UpdatedAt
	if err := cm.SaveIndex(index); err != nil {
		log.L().Warn("failed to save index", zap.Error(err))
	}
	return loaded, nil
}
