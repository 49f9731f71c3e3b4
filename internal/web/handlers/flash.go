package handlers

import "sync"

// Flash is a one-shot notification rendered on the next page load.
type Flash struct {
	Kind    string
	Message string
}

// FlashQueue collects notifications from handlers and background watchers
// until a page render drains them. It implements state.Notifier and
// watch.Notifier.
type FlashQueue struct {
	mu      sync.Mutex
	flashes []Flash
}

func NewFlashQueue() *FlashQueue {
	return &FlashQueue{}
}

func (q *FlashQueue) Success(message string) {
	q.push("success", message)
}

func (q *FlashQueue) Error(message string) {
	q.push("error", message)
}

func (q *FlashQueue) push(kind, message string) {
	q.mu.Lock()
	q.flashes = append(q.flashes, Flash{Kind: kind, Message: message})
	q.mu.Unlock()
}

// Drain returns all pending flashes and clears the queue.
func (q *FlashQueue) Drain() []Flash {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.flashes
	q.flashes = nil
	return out
}
