package memory

import (
	"context"
	"fmt"
)

type txKey struct{}

type tx struct {
	held     map[string]struct{}
	order    []string
	undo     []func()
	readOnly bool
}

func txFromContext(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txKey{}).(*tx)
	return t, ok
}

func isInTransaction(ctx context.Context) bool {
	_, ok := txFromContext(ctx)
	return ok
}

// TxManager повторяет контракт pkg/txmanager для хранилища в памяти.
// Изменения пишутся сразу, при ошибке fn откатываются в обратном порядке.
// Блокировки держатся до конца транзакции; вложенные вызовы присоединяются к внешней.
type TxManager struct {
	store *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, false, fn)
}

// DoSerializable выполняет fn в транзакции. Сериализация обеспечивается блокировками областей,
// которые берёт сам fn (LockStaffDay, GetByIDForUpdate).
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, false, fn)
}

// DoReadOnly выполняет fn в транзакции, запрещающей запись
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, true, fn)
}

func (m *TxManager) run(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) (err error) {
	if isInTransaction(ctx) {
		return fn(ctx)
	}

	t := &tx{held: make(map[string]struct{}), readOnly: readOnly}
	defer m.finish(t)

	defer func() {
		if p := recover(); p != nil {
			m.rollback(t)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		m.rollback(t)
		return err
	}
	return nil
}

func (m *TxManager) rollback(t *tx) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (m *TxManager) finish(t *tx) {
	for i := len(t.order) - 1; i >= 0; i-- {
		m.store.locks.release(t.order[i])
	}
}

// lock берёт именованную блокировку до конца транзакции из контекста. Повторный вызов с тем же ключом ничего не делает.
func (s *Store) lock(ctx context.Context, key string) error {
	t, ok := txFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if _, held := t.held[key]; held {
		return nil
	}
	if err := s.locks.acquire(ctx, key); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLockTimeout, key, err)
	}
	t.held[key] = struct{}{}
	t.order = append(t.order, key)
	return nil
}
