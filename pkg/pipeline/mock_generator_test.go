package pipeline

import (
	"context"
	"sync"
)

type MockGenerator struct {
	GenerateFunc func(ctx context.Context, parts []Part) (string, error)

	mu    sync.Mutex
	calls [][]Part
}

func (m *MockGenerator) Generate(ctx context.Context, parts []Part) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, parts)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, parts)
	}
	return "  generated text  ", nil
}

func (m *MockGenerator) Calls() [][]Part {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
