package memory

import (
	"slices"
	"sync"

	"dispatch/internal/core/ports"
)

// FlowRunStore holds the latest flow sweep summary in process memory.
type FlowRunStore struct {
	mu   sync.RWMutex
	last *ports.FlowRun
}

func NewFlowRunStore() *FlowRunStore {
	return &FlowRunStore{}
}

func (s *FlowRunStore) Save(run ports.FlowRun) {
	run.Moved = slices.Clone(run.Moved)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &run
}

func (s *FlowRunStore) Last() (ports.FlowRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return ports.FlowRun{}, false
	}
	run := *s.last
	run.Moved = slices.Clone(run.Moved)
	return run, true
}
