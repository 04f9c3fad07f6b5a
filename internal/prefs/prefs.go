// Package prefs persists user preferences in the settings table and lets
// observers react to changes.
package prefs

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

const darkModeKey = "dark_mode"

// Settings is the key-value slice of the store that preferences live in.
type Settings interface {
	Setting(ctx context.Context, key string) (value string, ok bool, err error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store reads and writes preferences. Subscribers are notified after each
// successful write.
type Store struct {
	settings Settings

	mu   sync.Mutex
	subs []chan struct{}
}

func NewStore(settings Settings) *Store {
	return &Store{settings: settings}
}

// DarkMode returns the persisted dark-mode flag. Unset means false.
func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	value, ok, err := s.settings.Setting(ctx, darkModeKey)
	if err != nil {
		return false, fmt.Errorf("read dark mode: %w", err)
	}
	if !ok {
		return false, nil
	}
	dark, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse dark mode %q: %w", value, err)
	}
	return dark, nil
}

// SetDarkMode persists the flag and notifies subscribers.
func (s *Store) SetDarkMode(ctx context.Context, dark bool) error {
	if err := s.settings.SetSetting(ctx, darkModeKey, strconv.FormatBool(dark)); err != nil {
		return fmt.Errorf("write dark mode: %w", err)
	}
	s.notify()
	return nil
}

// Subscribe returns a channel that receives a coalesced signal after each
// preference change.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
