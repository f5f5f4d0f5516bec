package service

import "context"

// EventEmitter decouples services from whatever front end is attached
// (TUI, MCP notifications). Services receive this interface instead of
// a UI handle, which keeps them independently testable with a mock
// emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Events emitted by the services.
const (
	EventLayoutChanged = "layout:changed"
	EventPageChanged   = "page:changed"
)

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}
