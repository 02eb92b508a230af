// Package memory is an in-process implementation of the booking, catalog and
// config repositories. It keeps the same locking contract as the postgres
// storage: LockStaffDay and GetByIDForUpdate hold until the transaction ends.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

// Store holds all tenants' data. Each Store is isolated; tests create their own.
type Store struct {
	mu       sync.RWMutex
	bookings map[string]map[string]*domain.Booking
	staff    map[string]map[string]*domain.StaffMember
	services map[string]map[string]*domain.Service
	configs  map[string]*domain.SchedulingConfig

	locks *keyedLocks
	now   func() time.Time
}

// Option настраивает Store
type Option func(*Store)

// WithClock задает источник времени для created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore создает пустое хранилище
func NewStore(opts ...Option) *Store {
	s := &Store{
		bookings: make(map[string]map[string]*domain.Booking),
		staff:    make(map[string]map[string]*domain.StaffMember),
		services: make(map[string]map[string]*domain.Service),
		configs:  make(map[string]*domain.SchedulingConfig),
		locks:    newKeyedLocks(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bookings возвращает репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Catalog возвращает репозиторий каталога поверх хранилища
func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{store: s}
}

// Configs возвращает репозиторий политик поверх хранилища
func (s *Store) Configs() *ConfigRepository {
	return &ConfigRepository{store: s}
}

// TxManager возвращает менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

func requireOrg(ctx context.Context) (string, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return "", ErrTenantRequired
	}
	return orgID, nil
}

// recordUndo регистрирует откат изменения в транзакции из контекста; вне транзакции изменение сразу окончательное.
func recordUndo(ctx context.Context, undo func()) error {
	t, ok := txFromContext(ctx)
	if !ok {
		return nil
	}
	if t.readOnly {
		return ErrReadOnlyTransaction
	}
	t.undo = append(t.undo, undo)
	return nil
}

// keyedLocks набор именованных блокировок; ожидание прерывается отменой контекста.
type keyedLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{entries: make(map[string]*lockEntry)}
}

func (l *keyedLocks) acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(key, entry)
		return ctx.Err()
	}
}

func (l *keyedLocks) release(key string) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	l.mu.Unlock()
	if !ok {
		return
	}
	<-entry.ch
	l.unref(key, entry)
}

func (l *keyedLocks) unref(key string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
