package testhelpers

import (
	"context"
	"sync"

	"skullbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockRenderer is a mock implementation of Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderSnapshot(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockRenderer) RenderFinal(ctx context.Context, lottery *entities.Lottery, includeActions bool) error {
	args := m.Called(ctx, lottery, includeActions)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyWinner(ctx context.Context, account string, lottery *entities.Lottery) error {
	args := m.Called(ctx, account, lottery)
	return args.Error(0)
}

func (m *MockNotifier) NotifyJoin(ctx context.Context, account string, lottery *entities.Lottery) error {
	args := m.Called(ctx, account, lottery)
	return args.Error(0)
}

func (m *MockNotifier) NotifyLeave(ctx context.Context, account string, lottery *entities.Lottery) error {
	args := m.Called(ctx, account, lottery)
	return args.Error(0)
}

func (m *MockNotifier) AnnounceResult(ctx context.Context, lottery *entities.Lottery, winners []string) error {
	args := m.Called(ctx, lottery, winners)
	return args.Error(0)
}

func (m *MockNotifier) AnnounceInsufficientParticipants(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

// MockAuthoritativeStore is a mock implementation of AuthoritativeStore
type MockAuthoritativeStore struct {
	mock.Mock
}

func (m *MockAuthoritativeStore) Pull(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAuthoritativeStore) Push(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// MemorySnapshotStore is an in-memory SnapshotStore for tests
type MemorySnapshotStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{blobs: make(map[string][]byte)}
}

func (s *MemorySnapshotStore) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	return data, ok, nil
}

func (s *MemorySnapshotStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

// NoopMetrics is a MetricsRecorder that records nothing
type NoopMetrics struct{}

func (NoopMetrics) RecordJoin(ctx context.Context, paid bool)                {}
func (NoopMetrics) RecordLeave(ctx context.Context)                          {}
func (NoopMetrics) RecordTicketPurchase(ctx context.Context, quantity int)   {}
func (NoopMetrics) RecordDraw(ctx context.Context, winners int)              {}
func (NoopMetrics) RecordLedgerTransaction(ctx context.Context, kind string) {}
