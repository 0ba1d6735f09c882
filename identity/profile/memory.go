package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/exp/maps"
)

// MemoryStore is an in-memory Store. Records are kept as marshaled JSON so
// readers always get an independent copy. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string][]byte
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string][]byte)}
}

// Get returns the profile stored for identity, or (nil, nil) when absent.
func (s *MemoryStore) Get(_ context.Context, identity string) (*Profile, error) {
	s.mu.RLock()
	data, exists := s.profiles[identity]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %q: %w", identity, err)
	}
	return &profile, nil
}

// Set stores the profile under its identity.
func (s *MemoryStore) Set(_ context.Context, profile *Profile) error {
	if profile == nil || profile.Identity == "" {
		return fmt.Errorf("profile identity is empty")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile %q: %w", profile.Identity, err)
	}

	s.mu.Lock()
	s.profiles[profile.Identity] = data
	s.mu.Unlock()
	return nil
}

// Delete removes the profile stored for identity, if any.
func (s *MemoryStore) Delete(_ context.Context, identity string) error {
	s.mu.Lock()
	delete(s.profiles, identity)
	s.mu.Unlock()
	return nil
}

// List returns every stored profile ordered by identity.
func (s *MemoryStore) List(ctx context.Context) ([]*Profile, error) {
	s.mu.RLock()
	identities := maps.Keys(s.profiles)
	s.mu.RUnlock()
	sort.Strings(identities)

	profiles := make([]*Profile, 0, len(identities))
	for _, identity := range identities {
		profile, err := s.Get(ctx, identity)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}
