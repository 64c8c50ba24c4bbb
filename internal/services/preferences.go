package services

import (
	"context"
	"strings"

	"grana/internal/core"
	"grana/internal/memstore"
)

// profileKey is the single document per user holding the flat preference
// profile under the (user, "prefs") namespace.
const profileKey = "profile"

func prefsNamespace(userID string) []string {
	return []string{userID, "prefs"}
}

// PreferenceService stores a flat preference profile per user. The
// generic store has no partial merge, so Set is read-modify-write over
// the whole profile document.
type PreferenceService struct {
	store *memstore.Store
}

func NewPreferenceService(store *memstore.Store) *PreferenceService {
	return &PreferenceService{store: store}
}

// Set upserts one preference, preserving all the others.
func (s *PreferenceService) Set(ctx context.Context, userID, key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &core.ValidationError{Field: "preference key", Reason: "must not be empty"}
	}

	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = map[string]any{}
	}
	profile[key] = value

	return s.store.Put(ctx, prefsNamespace(userID), profileKey, profile)
}

// Profile returns the whole preference profile, nil when none is stored.
func (s *PreferenceService) Profile(ctx context.Context, userID string) (map[string]any, error) {
	doc, ok, err := s.store.Get(ctx, prefsNamespace(userID), profileKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var profile map[string]any
	if err := doc.Decode(&profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Get returns one preference value; the boolean reports presence.
func (s *PreferenceService) Get(ctx context.Context, userID, key string) (any, bool, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	value, ok := profile[key]
	return value, ok, nil
}
