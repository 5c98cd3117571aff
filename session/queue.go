package session

import (
	"sync"

	"github.com/achilleasa/gravlens/scene"
)

// Queue is a goroutine-safe FIFO of input events. Input callbacks post
// events at any time; the session drains the queue at the start of a frame.
type Queue struct {
	sync.Mutex
	events []scene.Event
}

// Append an event to the queue.
func (q *Queue) Post(ev scene.Event) {
	q.Lock()
	q.events = append(q.events, ev)
	q.Unlock()
}

// Remove and return all queued events in the order they were posted.
func (q *Queue) Drain() []scene.Event {
	q.Lock()
	defer q.Unlock()

	events := q.events
	q.events = nil
	return events
}

// Get the number of queued events.
func (q *Queue) Len() int {
	q.Lock()
	defer q.Unlock()
	return len(q.events)
}
