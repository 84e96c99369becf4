package events

import (
	"sync"
)

// Stage names a point in the plan generation lifecycle.
type Stage string

const (
	StageGenerating   Stage = "generating"
	StagePlanReady    Stage = "plan_ready"
	StageImagePending Stage = "image_pending"
	StageImageReady   Stage = "image_ready"
	StageImageFailed  Stage = "image_failed"
	StageSaved        Stage = "saved"
)

// Event describes a lifecycle update for a plan.
type Event struct {
	PlanID string `json:"plan_id"`
	Stage  Stage  `json:"stage"`
	Detail string `json:"detail,omitempty"`
}

// Broker manages SSE subscribers.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewBroker constructs a broker instance.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from the broker.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
	close(ch)
}

// Publish fan-outs the event to all subscribers.
func (b *Broker) Publish(evt Event) {
	b.mu.RLock()
	for ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			// drop if subscriber is slow
		}
	}
	b.mu.RUnlock()
}
