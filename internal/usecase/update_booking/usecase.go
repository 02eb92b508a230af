package update_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для PUT /bookings/{id}: перенос, заметки и смена статуса одной транзакцией
type UseCase struct {
	bookingRepo  BookingRepository
	rescheduler  Rescheduler
	statuses     StatusService
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rescheduler Rescheduler,
	statuses StatusService,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		rescheduler:  rescheduler,
		statuses:     statuses,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute применяет изменения в порядке: перенос, заметки, статус.
// Любая ошибка откатывает всё; события публикуются только после коммита.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("UpdateBooking: booking id=%s", req.BookingID)

	// 1. Валидация входных данных
	status, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking
	var events []domain.BookingEvent

	// 2. Все изменения в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Повторная попытка транзакции начинается с чистого списка событий
		events = events[:0]

		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			return uc.repositoryError("failed to get booking", req.BookingID, err)
		}

		// 2.1. Перенос
		if !req.Changes.IsEmpty() {
			event, err := uc.rescheduler.Apply(txCtx, booking, req.Changes)
			if err != nil {
				return err
			}
			if event != nil {
				events = append(events, *event)
			}
		}

		// 2.2. Заметки
		if req.Notes != nil {
			notes := normalize(req.Notes)
			if !sameString(notes, booking.Notes) {
				booking.Notes = notes
				booking.UpdatedAt = uc.timeProvider.Now()
				if err := uc.bookingRepo.UpdateNotes(txCtx, booking); err != nil {
					return uc.repositoryError("failed to update notes", booking.ID, err)
				}
			}
		}

		// 2.3. Статус: совпадающий с текущим считается неизменным
		if status != nil && (*status != booking.Status || *status == domain.StatusCancelled) {
			var event *domain.BookingEvent
			if *status == domain.StatusCancelled {
				event, err = uc.statuses.ApplyCancel(txCtx, booking, req.CancellationReason)
			} else {
				event, err = uc.statuses.ApplyTransition(txCtx, booking, *status)
			}
			if err != nil {
				return err
			}
			if event != nil {
				events = append(events, *event)
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) && uc.metrics != nil {
			uc.metrics.IncBookingConflict("update")
		}
		return nil, uc.storageError("transaction failed", err)
	}

	uc.statuses.Publish(ctx, events...)
	uc.logger.Info("UpdateBooking: booking id=%s updated, %d events", result.ID, len(events))
	return result, nil
}

func (uc *UseCase) storageError(step string, err error) error {
	if domain.KindOf(err) != nil {
		return err
	}
	uc.logger.Error("UpdateBooking: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, step, err)
}

func (uc *UseCase) repositoryError(step, id string, err error) error {
	switch domain.KindOf(err) {
	case domain.ErrNotFound:
		uc.logger.Warn("UpdateBooking: booking id=%s not found", id)
		return fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	case nil:
		uc.logger.Error("UpdateBooking: %s: %v", step, err)
		return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, step, err)
	default:
		return err
	}
}

func normalize(s *string) *string {
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
