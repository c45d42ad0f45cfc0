package agent

import "sync"

// SessionStore keeps the ephemeral per-run memory in process. Turns within
// one run are not commutative (counter increment, stage recompute), so the
// store hands out a per-run lock; distinct runs proceed fully in parallel.
// Memory lost to a restart is rebuilt from persisted turns by the caller.
type SessionStore struct {
	mu   sync.Mutex
	runs map[string]*runEntry
}

type runEntry struct {
	mu  sync.Mutex
	mem *SessionMemory
}

func NewSessionStore() *SessionStore {
	return &SessionStore{runs: make(map[string]*runEntry)}
}

// Lock serializes turn processing for one run. The returned function releases
// the run.
func (s *SessionStore) Lock(runID string) func() {
	s.mu.Lock()
	entry, ok := s.runs[runID]
	if !ok {
		entry = &runEntry{}
		s.runs[runID] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	return entry.mu.Unlock
}

// Get returns the memory for a run, or nil when the run is unknown (e.g.
// after a restart). Callers must hold the run lock.
func (s *SessionStore) Get(runID string) *SessionMemory {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.runs[runID]; ok {
		return entry.mem
	}
	return nil
}

// Put stores the memory for a run. Callers must hold the run lock.
func (s *SessionStore) Put(runID string, mem *SessionMemory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.runs[runID]
	if !ok {
		entry = &runEntry{}
		s.runs[runID] = entry
	}
	entry.mem = mem
}

// Delete discards a run's memory once the run ends.
func (s *SessionStore) Delete(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}
