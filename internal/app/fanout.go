package app

import (
	"sync"
	"time"

	"github.com/ayusman/pingpoint/internal/config"
	"github.com/ayusman/pingpoint/internal/event"
)

// Point is a detection event enriched for presentation collaborators.
type Point struct {
	ID    string      `json:"id"`
	Team  event.Team  `json:"team"`
	Mode  config.Mode `json:"mode"`
	Label string      `json:"label,omitempty"`
	Time  time.Time   `json:"time"`
}

// Subscriber receives published points. It runs on the detection goroutine
// and must not block.
type Subscriber func(p Point)

// Fanout delivers each point to every subscriber, in subscription order.
type Fanout struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Subscriber
	order  []int
}

// NewFanout creates an empty Fanout.
func NewFanout() *Fanout {
	return &Fanout{subs: make(map[int]Subscriber)}
}

// Subscribe adds fn and returns a function that removes it.
func (f *Fanout) Subscribe(fn Subscriber) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.order = append(f.order, id)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		delete(f.subs, id)
		for i, o := range f.order {
			if o == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
}

// Publish calls every subscriber with p.
func (f *Fanout) Publish(p Point) {
	f.mu.RLock()
	subs := make([]Subscriber, 0, len(f.order))
	for _, id := range f.order {
		subs = append(subs, f.subs[id])
	}
	f.mu.RUnlock()

	for _, fn := range subs {
		fn(p)
	}
}

// Len returns the number of subscribers.
func (f *Fanout) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.order)
}
