package vision

import (
	"context"
	"time"
)

const mockDescription = "A scenic outdoor photograph taken at a memorable location"

// MockProvider is the default offline-safe backend. It always succeeds after
// a short fixed delay and returns a constant description.
type MockProvider struct {
	delay time.Duration
}

// NewMockProvider creates a new MockProvider
func NewMockProvider() *MockProvider {
	return &MockProvider{delay: 100 * time.Millisecond}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) Describe(ctx context.Context, storedPath string) (string, error) {
	select {
	case <-time.After(p.delay):
		return mockDescription, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
