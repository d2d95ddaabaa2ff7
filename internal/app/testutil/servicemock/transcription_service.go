// Package servicemock holds testify mocks of the v1 API services. It is
// separate from testutil so packages below the API layer can use testutil
// without an import cycle.
package servicemock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"a2t/internal/api/v1/dto"
	"a2t/internal/api/v1/services"
	"a2t/internal/app/pipeline"
	"a2t/internal/app/session"
)

// MockServices contains all mock services for testing
type MockServices struct {
	TranscriptionService *MockTranscriptionService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		TranscriptionService: NewMockTranscriptionService(t),
	}
}

// MockTranscriptionService is a mock implementation of TranscriptionService
type MockTranscriptionService struct {
	mock.Mock
}

func NewMockTranscriptionService(t *testing.T) *MockTranscriptionService {
	m := &MockTranscriptionService{}
	m.Test(t)
	return m
}

func (m *MockTranscriptionService) TranscribeFile(ctx context.Context, upload pipeline.Upload) (*dto.TranscriptionResponse, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscriptionResponse), args.Error(1)
}

func (m *MockTranscriptionService) TranscribeForSession(ctx context.Context, sessionID string, upload pipeline.Upload) (session.State, error) {
	args := m.Called(ctx, sessionID, upload)
	return args.Get(0).(session.State), args.Error(1)
}

func (m *MockTranscriptionService) Reject(ctx context.Context, sessionID, filename, message string) (session.State, error) {
	args := m.Called(ctx, sessionID, filename, message)
	return args.Get(0).(session.State), args.Error(1)
}

func (m *MockTranscriptionService) CurrentState(ctx context.Context, sessionID string) (session.State, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(session.State), args.Error(1)
}

var _ services.TranscriptionService = (*MockTranscriptionService)(nil)
