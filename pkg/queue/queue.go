// queue package

package queue

import "github.com/cbodonnell/keygrid/pkg/keypad"

// EventQueue is a bounded in-memory FIFO of key events. It is safe for one
// producer (the input driver) and one consumer (the host loop).
type EventQueue struct {
	ch chan keypad.Event
}

// NewEventQueue creates a new queue holding at most size events.
func NewEventQueue(size int) *EventQueue {
	return &EventQueue{
		ch: make(chan keypad.Event, size),
	}
}

// Enqueue adds an event to the end of the queue. It returns false if the
// queue is full, in which case the event is dropped.
func (q *EventQueue) Enqueue(event keypad.Event) bool {
	select {
	case q.ch <- event:
		return true
	default:
		return false
	}
}

// Dequeue removes and returns the event at the front of the queue.
// It does not block; the second return value reports whether an event
// was available.
func (q *EventQueue) Dequeue() (keypad.Event, bool) {
	select {
	case event := <-q.ch:
		return event, true
	default:
		return keypad.Event{}, false
	}
}

// Size returns the current size of the queue.
func (q *EventQueue) Size() int {
	return len(q.ch)
}

// Clear discards all pending events.
func (q *EventQueue) Clear() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}
