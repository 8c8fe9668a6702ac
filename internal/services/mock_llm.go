package services

import (
	"context"
	"sync"
)

// GenerateCall records one Generate invocation for assertions.
type GenerateCall struct {
	Prompt string
	Opts   GenerateOptions
}

// MockTextService is a test double for TextService. Set the Func
// fields to script behavior; calls are recorded under a mutex.
type MockTextService struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	GenerateFunc  func(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	mu            sync.Mutex
	InitCalls     []string
	GenerateCalls []GenerateCall
}

// NewMockTextService returns a mock that succeeds with empty output by
// default.
func NewMockTextService() *MockTextService {
	return &MockTextService{}
}

func (m *MockTextService) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	m.InitCalls = append(m.InitCalls, modelName)
	m.mu.Unlock()

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockTextService) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, GenerateCall{Prompt: prompt, Opts: opts})
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	return "", nil
}

// CallCount returns how many Generate calls the mock has seen.
func (m *MockTextService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// LastCall returns the most recent Generate call, or nil.
func (m *MockTextService) LastCall() *GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.GenerateCalls) == 0 {
		return nil
	}
	call := m.GenerateCalls[len(m.GenerateCalls)-1]
	return &call
}
