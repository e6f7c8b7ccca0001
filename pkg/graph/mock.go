package graph

import (
	"context"
	"strings"
	"sync"
)

// ExecutedStatement is one statement captured by the mock, in call order.
type ExecutedStatement struct {
	Query  string
	Params map[string]any
}

type mockStub struct {
	substr string
	rows   []Record
	err    error
}

// MockGateway is an in-memory Gateway for unit tests. Result rows are
// stubbed per query substring; every executed statement is captured for
// assertions.
type MockGateway struct {
	mu          sync.Mutex
	caps        Capabilities
	stubs       []mockStub
	writeErr    error
	statsResult StoreStats

	Queries []ExecutedStatement
	Writes  []ExecutedStatement
	Cleared bool
}

// NewMockGateway creates an empty mock with no capabilities.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// SetCapabilities sets the capability flags the mock reports.
func (m *MockGateway) SetCapabilities(caps Capabilities) {
	m.caps = caps
}

// StubQuery registers result rows for any query containing substr.
// Stubs are matched in registration order.
func (m *MockGateway) StubQuery(substr string, rows []Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{substr: substr, rows: rows, err: err})
}

// FailWrites makes every ExecuteWrite call return err.
func (m *MockGateway) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// SetStats sets the counts returned by Stats.
func (m *MockGateway) SetStats(stats StoreStats) {
	m.statsResult = stats
}

func (m *MockGateway) ExecuteQuery(_ context.Context, query string, params map[string]any) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, ExecutedStatement{Query: query, Params: params})
	for _, stub := range m.stubs {
		if strings.Contains(query, stub.substr) {
			return stub.rows, stub.err
		}
	}
	return nil, nil
}

func (m *MockGateway) ExecuteWrite(_ context.Context, query string, params map[string]any) (WriteSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes = append(m.Writes, ExecutedStatement{Query: query, Params: params})
	if m.writeErr != nil {
		return WriteSummary{}, m.writeErr
	}
	return WriteSummary{}, nil
}

func (m *MockGateway) SetupConstraints(context.Context) error { return nil }

func (m *MockGateway) ClearDatabase(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared = true
	return nil
}

func (m *MockGateway) Stats(context.Context) (StoreStats, error) {
	return m.statsResult, nil
}

func (m *MockGateway) Capabilities() Capabilities { return m.caps }

func (m *MockGateway) Ping(context.Context) error { return nil }

func (m *MockGateway) Close(context.Context) error { return nil }
