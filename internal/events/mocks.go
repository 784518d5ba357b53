package events

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier records published events.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, event DirectoryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotifier) Close() {
	m.Called()
}
