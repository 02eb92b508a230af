package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository хранит бронирования в памяти с тем же контрактом, что и postgres репозиторий
type BookingRepository struct {
	store *Store
}

// Create сохраняет новое бронирование.
// Пересечение с активным бронированием сотрудника отклоняется (аналог exclusion constraint).
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.OrganizationID = orgID
	booking.Date = domain.DateOnly(booking.Date)

	if booking.IsActive() && s.overlapsLocked(orgID, booking) {
		return nil, ErrSlotOccupied
	}

	now := s.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := recordUndo(ctx, func() { delete(s.bookings[orgID], booking.ID) }); err != nil {
		return nil, err
	}

	if s.bookings[orgID] == nil {
		s.bookings[orgID] = make(map[string]*domain.Booking)
	}
	s.bookings[orgID][booking.ID] = booking.Clone()

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[orgID][id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking.Clone(), nil
}

// GetByIDForUpdate получает бронирование и блокирует его до конца транзакции.
// Вне транзакции ведёт себя как GetByID.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	if isInTransaction(ctx) {
		if err := r.store.lock(ctx, fmt.Sprintf("booking|%s|%s", orgID, id)); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// List получает бронирования организации с фильтрацией, отсортированные по дате и времени начала
func (r *BookingRepository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	result := make([]*domain.Booking, 0)
	for _, booking := range r.store.bookings[orgID] {
		if filter.Matches(booking) {
			result = append(result, booking.Clone())
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if filter.NewestFirst {
			return bookingLess(result[j], result[i])
		}
		return bookingLess(result[i], result[j])
	})

	return result, nil
}

// ListActiveByStaffAndDate возвращает pending/confirmed бронирования сотрудника на дату
func (r *BookingRepository) ListActiveByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]*domain.Booking, error) {
	day := domain.DateOnly(date)
	return r.List(ctx, domain.BookingsFilter{
		StaffID:    &staffID,
		StartDate:  &day,
		EndDate:    &day,
		ActiveOnly: true,
	})
}

// LockStaffDay сериализует создание и перенос бронирований одного сотрудника на одну дату
func (r *BookingRepository) LockStaffDay(ctx context.Context, staffID string, date time.Time) error {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return err
	}
	return r.store.lock(ctx, fmt.Sprintf("%s|%s|%s", orgID, staffID, date.Format(domain.DateFormat)))
}

// UpdateStatus сохраняет статус и связанные с ним отметки времени
func (r *BookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, booking.ID, func(stored *domain.Booking) error {
		stored.Status = booking.Status
		stored.StatusChangedAt = booking.StatusChangedAt
		stored.ConfirmedAt = booking.ConfirmedAt
		stored.CompletedAt = booking.CompletedAt
		stored.CancelledAt = booking.CancelledAt
		stored.CancellationReason = booking.CancellationReason
		stored.UpdatedAt = booking.UpdatedAt
		return nil
	})
}

// Reschedule сохраняет новые сотрудника, услугу, дату и интервал
func (r *BookingRepository) Reschedule(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, booking.ID, func(stored *domain.Booking) error {
		candidate := stored.Clone()
		candidate.StaffID = booking.StaffID
		candidate.Date = domain.DateOnly(booking.Date)
		candidate.StartTime = booking.StartTime
		candidate.EndTime = booking.EndTime
		if candidate.IsActive() && r.store.overlapsLocked(stored.OrganizationID, candidate) {
			return ErrSlotOccupied
		}

		stored.StaffID = booking.StaffID
		stored.ServiceID = booking.ServiceID
		stored.ServiceName = booking.ServiceName
		stored.Date = domain.DateOnly(booking.Date)
		stored.StartTime = booking.StartTime
		stored.EndTime = booking.EndTime
		stored.DurationMinutes = booking.DurationMinutes
		stored.Amount = booking.Amount
		stored.UpdatedAt = booking.UpdatedAt
		return nil
	})
}

// UpdateNotes обновляет заметки
func (r *BookingRepository) UpdateNotes(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, booking.ID, func(stored *domain.Booking) error {
		stored.Notes = booking.Notes
		stored.UpdatedAt = booking.UpdatedAt
		return nil
	})
}

func (r *BookingRepository) update(ctx context.Context, id string, apply func(stored *domain.Booking) error) error {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[orgID][id]
	if !ok {
		return ErrBookingNotFound
	}

	before := stored.Clone()
	if err := apply(stored); err != nil {
		*stored = *before
		return err
	}
	if err := recordUndo(ctx, func() { *s.bookings[orgID][id] = *before }); err != nil {
		*stored = *before
		return err
	}
	return nil
}

func bookingLess(a, b *domain.Booking) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.StartTime != b.StartTime {
		return a.StartTime.Minutes() < b.StartTime.Minutes()
	}
	return a.ID < b.ID
}

// overlapsLocked ищет активное бронирование того же сотрудника, пересекающееся с booking. Вызывается под s.mu.
func (s *Store) overlapsLocked(orgID string, booking *domain.Booking) bool {
	for _, other := range s.bookings[orgID] {
		if other.ID == booking.ID || other.StaffID != booking.StaffID || !other.IsActive() {
			continue
		}
		if domain.SameDate(other.Date, booking.Date) && other.Range().Overlaps(booking.Range()) {
			return true
		}
	}
	return false
}
