package bookings

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и смены их статуса
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID в организации из контекста
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repositoryError("GetByID", id, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования организации с фильтрацией, по возрастанию даты и времени начала
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, s.repositoryError("List", "-", err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// CustomerBookings история бронирований клиента, сначала новые
func (s *Service) CustomerBookings(ctx context.Context, customerID string, status *string) (*models.BookingListResponse, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}

	filter := domain.BookingsFilter{
		CustomerID:  &customerID,
		NewestFirst: true,
	}
	if status != nil {
		parsed, err := models.ToDomainBookingStatus(*status)
		if err != nil {
			s.logger.Warn("CustomerBookings: invalid status=%s for customer=%s", *status, customerID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &parsed
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, s.repositoryError("CustomerBookings", customerID, err)
	}

	s.logger.Info("CustomerBookings: fetched %d bookings for customer=%s", len(bookings), customerID)
	return models.FromDomainBookingList(bookings), nil
}

// Transition переводит бронирование в следующий статус по таблице переходов.
// Повторный переход в текущий статус отклоняется.
func (s *Service) Transition(ctx context.Context, id string, next domain.BookingStatus) (*models.BookingResponse, error) {
	s.logger.Info("Transition: booking id=%s to status=%s", id, next)

	var updated *domain.Booking
	var event *domain.BookingEvent
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repositoryError("Transition", id, err)
		}
		event, err = s.ApplyTransition(txCtx, booking, next)
		if err != nil {
			return err
		}
		updated = booking
		return nil
	})
	if err != nil {
		return nil, s.transactionError(err)
	}

	if event != nil {
		s.Publish(ctx, *event)
	}
	s.logger.Info("Transition: booking id=%s is now %s", id, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// ApplyTransition меняет статус уже заблокированного бронирования внутри транзакции вызывающего.
// booking изменяется на месте. Событие нужно опубликовать после коммита через Publish.
func (s *Service) ApplyTransition(ctx context.Context, booking *domain.Booking, next domain.BookingStatus) (*domain.BookingEvent, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, next)
	}

	previous := booking.Status
	if !previous.CanTransitionTo(next) {
		s.logger.Warn("ApplyTransition: booking id=%s cannot move from %s to %s", booking.ID, previous, next)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, next)
	}

	now := s.timeProvider.Now()
	booking.ApplyStatus(next, now)
	if err := s.bookingRepo.UpdateStatus(ctx, booking); err != nil {
		return nil, s.repositoryError("ApplyTransition", booking.ID, err)
	}

	event, ok := domain.NewTransitionEvent(booking, previous, now)
	if !ok {
		return nil, nil
	}
	return &event, nil
}

// Cancel отменяет бронирование. Отмена уже отменённого бронирования успешна и ничего не меняет.
func (s *Service) Cancel(ctx context.Context, id string, reason *string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	if err := validateReason(reason); err != nil {
		return nil, err
	}

	var updated *domain.Booking
	var event *domain.BookingEvent
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repositoryError("Cancel", id, err)
		}
		event, err = s.ApplyCancel(txCtx, booking, reason)
		if err != nil {
			return err
		}
		updated = booking
		return nil
	})
	if err != nil {
		return nil, s.transactionError(err)
	}

	if event == nil {
		s.logger.Info("Cancel: booking id=%s was already cancelled", id)
		return models.FromDomainBooking(updated), nil
	}

	s.Publish(ctx, *event)
	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)
	return models.FromDomainBooking(updated), nil
}

// ApplyCancel отменяет заблокированное бронирование внутри транзакции вызывающего.
// Для уже отменённого возвращает nil событие и nil ошибку.
func (s *Service) ApplyCancel(ctx context.Context, booking *domain.Booking, reason *string) (*domain.BookingEvent, error) {
	if booking.Status == domain.StatusCancelled {
		return nil, nil
	}
	if !booking.CanBeCancelled() {
		s.logger.Warn("ApplyCancel: booking id=%s cannot be cancelled, status=%s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusCancelled)
	}

	if reason != nil && strings.TrimSpace(*reason) != "" {
		trimmed := strings.TrimSpace(*reason)
		booking.CancellationReason = &trimmed
	}
	return s.ApplyTransition(ctx, booking, domain.StatusCancelled)
}

// Publish считает переходы и отправляет события. Вызывается только после коммита.
func (s *Service) Publish(ctx context.Context, events ...domain.BookingEvent) {
	for _, event := range events {
		if event.PreviousStatus != "" && s.metrics != nil {
			s.metrics.IncBookingTransition(string(event.PreviousStatus), string(event.Status))
		}
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, events...)
	}
}

// Вспомогательные методы

// repositoryError пропускает ошибки с доменным видом и прячет остальные за ErrStorageUnavailable.
// Исходная ошибка остаётся в цепочке, чтобы менеджер транзакций видел коды postgres.
func (s *Service) repositoryError(op, id string, err error) error {
	switch domain.KindOf(err) {
	case domain.ErrNotFound:
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	case nil:
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
	default:
		return err
	}
}

// transactionError прячет за ErrStorageUnavailable сбои самой транзакции: begin, commit, исчерпанные повторы
func (s *Service) transactionError(err error) error {
	if domain.KindOf(err) != nil {
		return err
	}
	s.logger.Error("transaction failed: %v", err)
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func validateReason(reason *string) error {
	if reason != nil && len([]rune(*reason)) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
