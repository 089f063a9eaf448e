package nhctax

import (
	"context"
	"sync"
	"time"
)

// upstream tokens live around twenty minutes, refresh before that
const tokenFreshness = 15 * time.Minute

// formToken is the ASP.NET state a search submission must echo back.
type formToken struct {
	ViewState       string
	EventValidation string

	fetchedAt time.Time
}

type tokenSlot struct {
	mu    sync.Mutex
	token formToken
	valid bool
}

// tokenStore holds one token per search mode. Acquisition is
// serialized per mode so concurrent callers prime a slot exactly
// once, while different modes refresh independently.
type tokenStore struct {
	mu    sync.Mutex
	slots map[SearchMode]*tokenSlot
}

func newTokenStore() *tokenStore {
	return &tokenStore{slots: map[SearchMode]*tokenSlot{}}
}

func (s *tokenStore) slot(mode SearchMode) *tokenSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[mode]
	if !ok {
		slot = &tokenSlot{}
		s.slots[mode] = slot
	}
	return slot
}

// get returns the mode's token, calling prime to fetch a fresh one
// when the slot is empty, invalidated or past the freshness window.
func (s *tokenStore) get(
	ctx context.Context,
	mode SearchMode,
	prime func(ctx context.Context) (formToken, error),
) (formToken, error) {
	slot := s.slot(mode)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.valid && time.Since(slot.token.fetchedAt) < tokenFreshness {
		return slot.token, nil
	}

	token, err := prime(ctx)
	if err != nil {
		return formToken{}, err
	}
	token.fetchedAt = time.Now()
	slot.token = token
	slot.valid = true
	return token, nil
}

func (s *tokenStore) invalidate(mode SearchMode) {
	slot := s.slot(mode)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.valid = false
}
