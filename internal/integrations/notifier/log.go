package notifier

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// LogPublisher пишет события в лог; драйвер по умолчанию для локального запуска
type LogPublisher struct {
	log Logger
}

func NewLogPublisher(log Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.BookingEvent) error {
	p.log.Info("Event %s: organization_id=%s, booking_id=%s, staff_id=%s, date=%s %s-%s, status=%s",
		event.Type, event.OrganizationID, event.BookingID, event.StaffID,
		event.Date, event.StartTime, event.EndTime, event.Status)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
