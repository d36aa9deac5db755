package services

import "sync"

const (
	EventStateChanged = "sync"
	EventNewPosts     = "new_posts"
)

// SyncEvent tells the push channel that the dashboard state moved. Delivery
// is fire-and-forget: a subscriber that cannot keep up misses events and
// recovers on its next sync.
type SyncEvent struct {
	Type    string `json:"type"`
	Hashtag string `json:"hashtag,omitempty"`
}

type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan SyncEvent]struct{}
}

// Live is the process-wide notification boundary between the ingestion
// engine and dashboard subscribers.
var Live = NewBroadcaster()

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: map[chan SyncEvent]struct{}{}}
}

func (b *Broadcaster) Subscribe() chan SyncEvent {
	ch := make(chan SyncEvent, 8)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan SyncEvent) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
}

func (b *Broadcaster) publish(event SyncEvent) {
	FlushDashboardCache()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (b *Broadcaster) NotifyStateChanged() {
	b.publish(SyncEvent{Type: EventStateChanged})
}

func (b *Broadcaster) NotifyNewPosts(hashtagName string) {
	b.publish(SyncEvent{Type: EventNewPosts, Hashtag: hashtagName})
}
