package inspect

import (
	"context"
	"sync"

	"ddn-storage/core/storage"

	"go.uber.org/zap"
)

// Service serializes access to a single storage client.
type Service struct {
	mu     sync.Mutex
	client *storage.Client
	logger *zap.Logger
}

// NewService creates a new inspect service owning client.
func NewService(client *storage.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Status returns the client status.
func (s *Service) Status() storage.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Status()
}

// Initialize initializes the client.
func (s *Service) Initialize(ctx context.Context) (storage.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.client.Initialize(ctx)
	return s.client.Status(), err
}

// Connect connects the client with retries.
func (s *Service) Connect(ctx context.Context) (bool, storage.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.client.Connect(ctx)
	return ok, s.client.Status()
}

// Disconnect closes the client transport.
func (s *Service) Disconnect() storage.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.Disconnect()
	return s.client.Status()
}

// Cleanup releases the client resources.
func (s *Service) Cleanup() storage.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.Cleanup()
	return s.client.Status()
}

// Write writes data through the client.
func (s *Service) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Write(ctx, data)
}

// Read reads size bytes and returns a copy that outlives the client buffer.
func (s *Service) Read(ctx context.Context, size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, err := s.client.Read(ctx, size)
	if err != nil {
		return nil, err
	}
	return buf.Copy(), nil
}

// Allocate replaces the client buffer.
func (s *Service) Allocate(ctx context.Context, size int) (storage.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.client.Allocate(ctx, size)
	return s.client.Status(), err
}
