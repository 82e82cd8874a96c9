package operations

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of one pipeline run.
type RunStatus string

const (
	StatusLoaded          RunStatus = "loaded"
	StatusColumnsResolved RunStatus = "columns_resolved"
	StatusPunchesParsed   RunStatus = "punches_parsed"
	StatusGrouped         RunStatus = "grouped"
	StatusAggregated      RunStatus = "aggregated"
	StatusSorted          RunStatus = "sorted"
	StatusDone            RunStatus = "done"
	StatusFailed          RunStatus = "failed"
)

// validTransitions is the complete transition table. A run advances
// through the stages in order; it can fail only while resolving columns
// (still loaded) or after aggregation produced nothing.
var validTransitions = map[RunStatus][]RunStatus{
	StatusLoaded:          {StatusColumnsResolved, StatusFailed},
	StatusColumnsResolved: {StatusPunchesParsed},
	StatusPunchesParsed:   {StatusGrouped},
	StatusGrouped:         {StatusAggregated},
	StatusAggregated:      {StatusSorted, StatusFailed},
	StatusSorted:          {StatusDone},
	StatusDone:            {},
	StatusFailed:          {},
}

// RunState tracks one pipeline run. All mutation goes through the
// transition methods; direct field writes are not safe.
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Counters RunCounters `json:"counters"`

	// Error is set when Status is StatusFailed
	Error error `json:"-"`
}

// NewRunState creates a run in the loaded state with a fresh ID.
func NewRunState() *RunState {
	return &RunState{
		ID:        uuid.New().String(),
		Status:    StatusLoaded,
		StartTime: time.Now(),
	}
}

// Advance moves the run to the next status. Transitions outside the
// table are rejected.
func (s *RunState) Advance(next RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !transitionAllowed(s.Status, next) {
		return fmt.Errorf("invalid run transition: %s -> %s", s.Status, next)
	}

	s.Status = next
	if next == StatusDone || next == StatusFailed {
		now := time.Now()
		s.EndTime = &now
	}
	return nil
}

// Fail marks the run as failed with the given cause. The same
// transition table applies, so failing is only possible from the loaded
// and aggregated states.
func (s *RunState) Fail(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !transitionAllowed(s.Status, StatusFailed) {
		return fmt.Errorf("invalid run transition: %s -> %s", s.Status, StatusFailed)
	}

	s.Status = StatusFailed
	s.Error = cause
	now := time.Now()
	s.EndTime = &now
	return nil
}

func transitionAllowed(from, to RunStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CurrentStatus returns the run status under the read lock.
func (s *RunState) CurrentStatus() RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// SetCounters replaces the run counters.
func (s *RunState) SetCounters(c RunCounters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Counters = c
}

// GetCounters returns a copy of the run counters.
func (s *RunState) GetCounters() RunCounters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Counters
}

// Err returns the failure cause, nil unless the run failed.
func (s *RunState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Error
}

// Duration returns how long the run has been executing, or its total
// duration once finished.
func (s *RunState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// IsTerminal reports whether the run reached done or failed.
func (s *RunState) IsTerminal() bool {
	status := s.CurrentStatus()
	return status == StatusDone || status == StatusFailed
}
