package state

import (
	"sort"
	"sync"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// BulkSelection is the set of lead ids checked for a bulk send. It survives
// page changes within the list view and is cleared only when a bulk send
// succeeds for at least one lead, so an all-failed batch can be retried
// without re-checking anything.
type BulkSelection struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewBulkSelection() *BulkSelection {
	return &BulkSelection{ids: make(map[string]struct{})}
}

func (s *BulkSelection) Add(id string) {
	s.mu.Lock()
	s.ids[id] = struct{}{}
	s.mu.Unlock()
}

func (s *BulkSelection) Remove(id string) {
	s.mu.Lock()
	delete(s.ids, id)
	s.mu.Unlock()
}

// Toggle flips membership and reports the new state.
func (s *BulkSelection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *BulkSelection) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *BulkSelection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected ids in stable order.
func (s *BulkSelection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *BulkSelection) Clear() {
	s.mu.Lock()
	s.ids = make(map[string]struct{})
	s.mu.Unlock()
}

// ApplyBulkResult clears the selection only when the batch had at least one
// successful send. A zero-success outcome leaves the selection intact.
func (s *BulkSelection) ApplyBulkResult(resp *backend.BulkSendResponse) {
	if resp == nil || resp.Successful == 0 {
		return
	}
	s.Clear()
}
