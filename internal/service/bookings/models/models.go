package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос на получение бронирований организации
type ListBookingsRequest struct {
	StaffID    *string    // Фильтр по сотруднику (опционально)
	CustomerID *string    // Фильтр по клиенту (опционально)
	StartDate  *time.Time // Начало периода включительно (опционально)
	EndDate    *time.Time // Конец периода включительно (опционально)
	Status     *string    // Фильтр по статусу (опционально)
	ActiveOnly bool       // Только pending/confirmed
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StaffID:    r.StaffID,
		CustomerID: r.CustomerID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		ActiveOnly: r.ActiveOnly,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, fmt.Errorf("endDate %s is before startDate %s",
			r.EndDate.Format(domain.DateFormat), r.StartDate.Format(domain.DateFormat))
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string  `json:"id"`
	OrganizationID  string  `json:"organizationId"`
	CustomerID      string  `json:"customerId"`
	CustomerName    *string `json:"customerName,omitempty"`
	StaffID         string  `json:"staffId"`
	ServiceID       string  `json:"serviceId"`
	Date            string  `json:"date"`      // "2026-03-02"
	StartTime       string  `json:"startTime"` // "09:00"
	EndTime         string  `json:"endTime"`   // "09:45"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`

	// Снимок услуги на момент записи
	ServiceName string  `json:"serviceName"`
	Amount      float64 `json:"amount"`

	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	StatusChangedAt time.Time  `json:"statusChangedAt"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		OrganizationID:     b.OrganizationID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		StaffID:            b.StaffID,
		ServiceID:          b.ServiceID,
		Date:               b.Date.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		Amount:             b.Amount,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		StatusChangedAt:    b.StatusChangedAt,
		ConfirmedAt:        b.ConfirmedAt,
		CompletedAt:        b.CompletedAt,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	return domain.ParseBookingStatus(strings.TrimSpace(status))
}
