package get_bookable_slots

import (
	"time"

	"github.com/m04kA/DMP-BookingService/internal/domain"
)

// generateSlotsForDay генерирует все слоты одного дня по правилу рабочих часов.
// Слоты фиксированной длины идут подряд от начала рабочего дня; неполный
// остаток в конце отбрасывается. День недели определяется в loc.
// Для дня без правила (или с неполным правилом) возвращается пустой список.
func generateSlotsForDay(
	date time.Time,
	workingHours domain.WorkingHours,
	slotMinutes int,
	loc *time.Location,
) []domain.Slot {
	day := date.In(loc)
	rule := workingHours.ForWeekday(day.Weekday())
	if !rule.IsComplete() {
		return []domain.Slot{}
	}

	startMinutes, err := rule.Start.Minutes()
	if err != nil {
		return []domain.Slot{}
	}
	endMinutes, err := rule.End.Minutes()
	if err != nil {
		return []domain.Slot{}
	}

	slots := make([]domain.Slot, 0)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	for m := startMinutes; m+slotMinutes <= endMinutes; m += slotMinutes {
		slots = append(slots, domain.Slot{
			StartAt: midnight.Add(time.Duration(m) * time.Minute),
			EndAt:   midnight.Add(time.Duration(m+slotMinutes) * time.Minute),
		})
	}

	return slots
}

// removeConflicts отбрасывает слоты, пересекающиеся с активными бронированиями.
// Интервалы полуоткрытые: соприкасающиеся границы пересечением не считаются
// (бронирование 11:00-12:00 не задевает слот 12:00-13:00).
func removeConflicts(slots []domain.Slot, bookings []*domain.Booking) []domain.Slot {
	free := make([]domain.Slot, 0, len(slots))

	for _, slot := range slots {
		conflict := false
		for _, booking := range bookings {
			if !booking.IsActive() {
				continue
			}
			if slot.Overlaps(booking.StartAt, booking.EndAt) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, slot)
		}
	}

	return free
}

// isBlackoutDate проверяет, входит ли дата в список недоступных дней дизайнера
func isBlackoutDate(date time.Time, blackouts map[string]struct{}, loc *time.Location) bool {
	_, ok := blackouts[date.In(loc).Format(domain.DateFormat)]
	return ok
}
