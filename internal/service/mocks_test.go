package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/events"
	"github.com/phrazzld/todo-summary-api/internal/notify"
	"github.com/phrazzld/todo-summary-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockPendingLister mocks store.PendingLister
type MockPendingLister struct {
	mock.Mock
}

func (m *MockPendingLister) ListPending(ctx context.Context) ([]*domain.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Todo), args.Error(1)
}

// MockSummarizer mocks generation.Summarizer
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockNotifier mocks notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Deliver(ctx context.Context, payload notify.Payload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.SummaryEvent
	err    error
}

func (r *recordingEmitter) EmitEvent(_ context.Context, event *events.SummaryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEmitter) Events() []*events.SummaryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*events.SummaryEvent(nil), r.events...)
}

// MockTodoStore mocks store.TodoStore
type MockTodoStore struct {
	mock.Mock
	db *sql.DB
}

func (m *MockTodoStore) ListPending(ctx context.Context) ([]*domain.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Todo), args.Error(1)
}

func (m *MockTodoStore) List(ctx context.Context) ([]*domain.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Todo), args.Error(1)
}

func (m *MockTodoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Todo), args.Error(1)
}

func (m *MockTodoStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Todo), args.Error(1)
}

func (m *MockTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockTodoStore) Update(ctx context.Context, todo *domain.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockTodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx returns the same mock so expectations cover transactional calls too.
func (m *MockTodoStore) WithTx(*sql.Tx) store.TodoStore {
	return m
}

func (m *MockTodoStore) DB() *sql.DB {
	return m.db
}
