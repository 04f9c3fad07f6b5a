package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dailybalance/internal/core"
)

// FoodHolder backs the food entry screen.
type FoodHolder struct {
	store ActionStore
	now   func() time.Time

	mu          sync.Mutex
	description string

	notifier notifier
}

func NewFoodHolder(store ActionStore) *FoodHolder {
	return &FoodHolder{store: store, now: time.Now}
}

func (h *FoodHolder) Updates() <-chan struct{} {
	return h.notifier.subscribe()
}

func (h *FoodHolder) Description() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.description
}

func (h *FoodHolder) SetDescription(description string) {
	h.mu.Lock()
	h.description = description
	h.mu.Unlock()
	h.notifier.notify()
}

// RegisterFood logs a food action with the current description.
func (h *FoodHolder) RegisterFood(ctx context.Context) error {
	h.mu.Lock()
	description := h.description
	h.mu.Unlock()

	rec := core.ActionRecord{
		Type:        core.ActionFood,
		Timestamp:   h.now().UnixMilli(),
		Description: description,
	}
	if _, err := h.store.InsertAction(ctx, rec); err != nil {
		return fmt.Errorf("register food: %w", err)
	}
	return nil
}

func (h *FoodHolder) Reset() {
	h.mu.Lock()
	h.description = ""
	h.mu.Unlock()
	h.notifier.notify()
}
