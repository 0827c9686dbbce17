package testutil

import (
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	Events []websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.Events = append(m.Events, event)
}
