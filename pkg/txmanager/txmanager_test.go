package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
)

// fakeTx учитывает вызовы Commit/Rollback; запросы в тестах не выполняются
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs []*fakeTx
}

func (f *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	f.txs = append(f.txs, tx)
	return tx, nil
}

func serializationError() error {
	return &pq.Error{Code: "40001"}
}

func deadlockError() error {
	return &pq.Error{Code: "40P01"}
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(serializationError()))
	assert.True(t, IsSerializationFailure(deadlockError()))

	// Обёрнутые ошибки тоже распознаются
	assert.True(t, IsSerializationFailure(fmt.Errorf("query failed: %w", serializationError())))

	assert.False(t, IsSerializationFailure(errors.New("logical error")))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"})) // unique_violation
	assert.False(t, IsSerializationFailure(nil))
}

func TestDoSerializable_Success(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		// Транзакционный executor лежит в контексте
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, beginner.txs, 1)
	assert.True(t, beginner.txs[0].committed)
	assert.False(t, beginner.txs[0].rolledBack)
}

func TestDoSerializable_RetriesOnSerializationFailure(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return serializationError()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, beginner.txs, 3)
	assert.True(t, beginner.txs[0].rolledBack)
	assert.True(t, beginner.txs[1].rolledBack)
	assert.True(t, beginner.txs[2].committed)
}

func TestDoSerializable_GivesUpAfterMaxAttempts(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return deadlockError()
	})

	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.Equal(t, maxSerializableAttempts, calls)
}

func TestDoSerializable_LogicalErrorsNotRetried(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	logical := errors.New("slot conflict")
	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return logical
	})

	assert.ErrorIs(t, err, logical)
	assert.Equal(t, 1, calls)
	require.Len(t, beginner.txs, 1)
	assert.True(t, beginner.txs[0].rolledBack)
	assert.False(t, beginner.txs[0].committed)
}
