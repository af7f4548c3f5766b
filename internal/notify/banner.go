// Package notify holds transient user-visible notifications.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Sink displays a message and clears it after ttl.
type Sink interface {
	Show(message string, ttl time.Duration)
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) *time.Timer

// Banner keeps the current notification text. Every Show schedules its own
// clear; an earlier timer may clear a later message.
type Banner struct {
	mu      sync.Mutex
	message string
	after   AfterFunc
}

func NewBanner() *Banner {
	return &Banner{after: time.AfterFunc}
}

// NewBannerWithTimer is NewBanner with a custom scheduler, used in tests.
func NewBannerWithTimer(after AfterFunc) *Banner {
	return &Banner{after: after}
}

func (b *Banner) Show(message string, ttl time.Duration) {
	b.mu.Lock()
	b.message = message
	b.mu.Unlock()

	b.after(ttl, b.Clear)
}

// Clear removes the message. Clearing twice is harmless.
func (b *Banner) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = ""
}

// Message returns the visible text, empty when nothing is shown.
func (b *Banner) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

// Fanout shows a message on several sinks.
type Fanout []Sink

func (f Fanout) Show(message string, ttl time.Duration) {
	for _, sink := range f {
		if sink != nil {
			sink.Show(message, ttl)
		}
	}
}
