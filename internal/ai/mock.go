package ai

import (
	"context"
	"sync"
)

// Mock is a deterministic Grader for tests and offline deployments.
// Grade outcomes are returned in FIFO order; when the queue is empty the
// mock reports StatusUnavailable, which exercises the fallback paths.
type Mock struct {
	mu       sync.Mutex
	outcomes []Outcome
	texts    []string

	GradeCalls    []GradeRequest
	GenerateCalls []GenerateRequest
}

func NewMock(outcomes ...Outcome) *Mock {
	return &Mock{outcomes: outcomes}
}

func (m *Mock) Grade(_ context.Context, req GradeRequest) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GradeCalls = append(m.GradeCalls, req)
	if len(m.outcomes) == 0 {
		return Unavailable("mock queue empty")
	}
	out := m.outcomes[0]
	m.outcomes = m.outcomes[1:]
	return out
}

func (m *Mock) Generate(_ context.Context, req GenerateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	if len(m.texts) == 0 {
		return "", nil
	}
	t := m.texts[0]
	m.texts = m.texts[1:]
	return t, nil
}

// AddOutcome appends a canned grading outcome.
func (m *Mock) AddOutcome(out Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, out)
}

// AddText appends a canned Generate response.
func (m *Mock) AddText(t string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, t)
}

// GradeCount reports how many grading calls were made.
func (m *Mock) GradeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GradeCalls)
}
