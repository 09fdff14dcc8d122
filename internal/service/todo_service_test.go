package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTodoServiceFixture(t *testing.T) (TodoService, *MockTodoStore, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	todoStore := &MockTodoStore{db: db}
	svc, err := NewTodoService(todoStore, nil)
	require.NoError(t, err)

	return svc, todoStore, sqlMock
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestNewTodoService_NilStore(t *testing.T) {
	svc, err := NewTodoService(nil, nil)

	assert.Nil(t, svc)
	var serviceErr *TodoServiceError
	assert.ErrorAs(t, err, &serviceErr)
}

func TestTodoService_ListTodos(t *testing.T) {
	svc, todoStore, _ := newTodoServiceFixture(t)
	todos := []*domain.Todo{pendingTodo("a", fixedNow)}
	todoStore.On("List", mock.Anything).Return(todos, nil)

	got, err := svc.ListTodos(context.Background())

	require.NoError(t, err)
	assert.Equal(t, todos, got)
}

func TestTodoService_ListTodos_StoreError(t *testing.T) {
	svc, todoStore, _ := newTodoServiceFixture(t)
	todoStore.On("List", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.ListTodos(context.Background())

	var serviceErr *TodoServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "list_todos", serviceErr.Operation)
}

func TestTodoService_CreateTodo(t *testing.T) {
	t.Run("defaults priority", func(t *testing.T) {
		svc, todoStore, _ := newTodoServiceFixture(t)
		todoStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Todo")).Return(nil)

		todo, err := svc.CreateTodo(context.Background(), "  Buy milk  ", "")

		require.NoError(t, err)
		assert.Equal(t, "Buy milk", todo.Title)
		assert.Equal(t, domain.PriorityMedium, todo.Priority)
		assert.False(t, todo.IsCompleted)
		todoStore.AssertExpectations(t)
	})

	t.Run("empty title never reaches the store", func(t *testing.T) {
		svc, todoStore, _ := newTodoServiceFixture(t)

		_, err := svc.CreateTodo(context.Background(), "   ", domain.PriorityHigh)

		assert.ErrorIs(t, err, domain.ErrEmptyTodoTitle)
		todoStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		svc, todoStore, _ := newTodoServiceFixture(t)
		todoStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrDuplicate)

		_, err := svc.CreateTodo(context.Background(), "Buy milk", domain.PriorityLow)

		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestTodoService_UpdateTodo(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		svc, todoStore, _ := newTodoServiceFixture(t)

		_, err := svc.UpdateTodo(context.Background(), uuid.New(), domain.TodoPatch{})

		assert.ErrorIs(t, err, ErrNoUpdateFields)
		todoStore.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("success commits", func(t *testing.T) {
		svc, todoStore, sqlMock := newTodoServiceFixture(t)
		existing := pendingTodo("Buy milk", fixedNow)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		todoStore.On("GetByIDForUpdate", mock.Anything, existing.ID).Return(existing, nil)
		todoStore.On("Update", mock.Anything, mock.AnythingOfType("*domain.Todo")).Return(nil)

		updated, err := svc.UpdateTodo(context.Background(), existing.ID, domain.TodoPatch{
			Title:       strPtr("Buy oat milk"),
			IsCompleted: boolPtr(true),
		})

		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", updated.Title)
		assert.True(t, updated.IsCompleted)
		assert.True(t, updated.CreatedAt.Equal(fixedNow))
		todoStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("not found rolls back", func(t *testing.T) {
		svc, todoStore, sqlMock := newTodoServiceFixture(t)
		id := uuid.New()
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		todoStore.On("GetByIDForUpdate", mock.Anything, id).Return(nil, store.ErrTodoNotFound)

		_, err := svc.UpdateTodo(context.Background(), id, domain.TodoPatch{IsCompleted: boolPtr(true)})

		assert.ErrorIs(t, err, ErrTodoNotFound)
		todoStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid priority is a validation error", func(t *testing.T) {
		svc, todoStore, sqlMock := newTodoServiceFixture(t)
		existing := pendingTodo("Buy milk", fixedNow)
		bad := domain.Priority("Urgent")
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		todoStore.On("GetByIDForUpdate", mock.Anything, existing.ID).Return(existing, nil)

		_, err := svc.UpdateTodo(context.Background(), existing.ID, domain.TodoPatch{Priority: &bad})

		assert.ErrorIs(t, err, domain.ErrInvalidPriority)
		assert.True(t, domain.IsValidationError(err))
	})
}

func TestTodoService_DeleteTodo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, todoStore, _ := newTodoServiceFixture(t)
		id := uuid.New()
		todoStore.On("Delete", mock.Anything, id).Return(nil)

		assert.NoError(t, svc.DeleteTodo(context.Background(), id))
	})

	t.Run("not found", func(t *testing.T) {
		svc, todoStore, _ := newTodoServiceFixture(t)
		id := uuid.New()
		todoStore.On("Delete", mock.Anything, id).Return(store.ErrTodoNotFound)

		assert.ErrorIs(t, svc.DeleteTodo(context.Background(), id), ErrTodoNotFound)
	})
}
