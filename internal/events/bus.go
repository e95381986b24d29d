// Package events is the in-process channel between independently
// rendered dashboard regions. The overview region publishes a campaign
// change after saving credentials; the calls region re-reads the store
// when it observes one.
package events

import "sync"

// CampaignChanged signals that another region updated the stored
// credentials or the selected campaign.
type CampaignChanged struct {
	CampaignID string
}

// Bus is a synchronous best-effort publish/subscribe channel. Events
// are not persisted or replayed: a subscriber registered after a
// publish never sees it, and a subscriber that is not draining its
// channel is skipped rather than blocking the publisher.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan CampaignChanged
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan CampaignChanged)}
}

// Subscribe registers a listener. The returned cancel function removes
// it; calling cancel more than once is safe.
func (b *Bus) Subscribe() (<-chan CampaignChanged, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan CampaignChanged, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber.
func (b *Bus) Publish(e CampaignChanged) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
