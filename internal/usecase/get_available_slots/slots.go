package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// GenerateSlots перечисляет начала t = начало интервала + k*granularity, для которых
// [t, t+duration) помещается в интервал, t >= bookableFrom и нет пересечения с активными бронированиями.
// intervals должны быть отсортированы по началу и не пересекаться; результат упорядочен по возрастанию.
func GenerateSlots(
	intervals []domain.TimeRange,
	durationMinutes int,
	granularityMinutes int,
	bookableFrom int,
	bookings []*domain.Booking,
) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)
	if durationMinutes <= 0 || granularityMinutes <= 0 {
		return slots
	}

	for _, interval := range intervals {
		end := interval.End.Minutes()
		for start := interval.Start.Minutes(); start+durationMinutes <= end; start += granularityMinutes {
			if start < bookableFrom {
				continue
			}

			rng := domain.TimeRange{
				Start: types.MustFromMinutes(start),
				End:   types.MustFromMinutes(start + durationMinutes),
			}
			if domain.FindConflict(bookings, rng, "") != nil {
				continue
			}

			slots = append(slots, domain.AvailableSlot{
				StartTime:       rng.Start,
				EndTime:         rng.End,
				DurationMinutes: durationMinutes,
			})
		}
	}

	return slots
}
