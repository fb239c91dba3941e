package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/processor-go/internal/application/common"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
)

// MockMediator is a test double for the Mediator interface.
// By default it answers TickUnitsCommand with an empty response and records every tick.
type MockMediator struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	callLog  []string
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{
		callLog: []string{},
	}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.mu.Lock()
	if req, ok := request.(*processingCommands.TickUnitsCommand); ok {
		m.callLog = append(m.callLog, fmt.Sprintf("Tick:%s:%d", req.Cadence, req.Elapsed))
	} else {
		m.callLog = append(m.callLog, fmt.Sprintf("%T", request))
	}
	fn := m.sendFunc
	m.mu.Unlock()

	// Use custom function if provided
	if fn != nil {
		return fn(ctx, request)
	}

	switch request.(type) {
	case *processingCommands.TickUnitsCommand:
		return &processingCommands.TickUnitsResponse{}, nil
	default:
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// GetCallLog returns the list of commands that were called
func (m *MockMediator) GetCallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.callLog...)
}

// ClearCallLog clears the call log
func (m *MockMediator) ClearCallLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callLog = []string{}
}

// CountTicks counts the recorded tick commands for a cadence
func (m *MockMediator) CountTicks(cadence string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := "Tick:" + cadence + ":"
	n := 0
	for _, call := range m.callLog {
		if len(call) > len(prefix) && call[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Register implements the Mediator interface (no-op for tests)
func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

// RegisterMiddleware implements the Mediator interface (no-op for tests)
func (m *MockMediator) RegisterMiddleware(middleware common.Middleware) {}

// Ensure MockMediator implements the common.Mediator interface
var _ common.Mediator = (*MockMediator)(nil)
