package state

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/cellgit/BearBasic/internal/envelope"
	"github.com/cellgit/BearBasic/internal/jsonvalue"
)

// Snapshot represents the latest watched call available to the UI.
type Snapshot struct {
	Message             string
	Data                jsonvalue.Object
	HasData             bool
	LastCode            int // code from the last failed call's envelope, 0 otherwise
	LastUpdated         time.Time
	LastError           error
	Polls               int
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has failed for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records one poll. When err is non-nil the previous data is kept but
// the error and its envelope code are recorded for visibility.
func (s *Store) Update(resp *envelope.Response[jsonvalue.Object], err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Polls++
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastCode, _, _ = envelope.CodeOf(err)
		s.snapshot.ConsecutiveFailures++
		return
	}

	if resp != nil {
		s.snapshot.Message = resp.Message
		s.snapshot.Data = maps.Clone(resp.Data)
		s.snapshot.HasData = true
	} else {
		s.snapshot.Message = ""
		s.snapshot.Data = nil
		s.snapshot.HasData = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastCode = 0
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Data = maps.Clone(s.snapshot.Data)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
