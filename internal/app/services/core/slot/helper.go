package slot

import (
	"medibook-service/internal/app/models"
	"strings"
	"time"
)

// ResolveSlots returns the bookable slot strings of date's weekday. Entries
// stored as comma joined composites are split, blanks are dropped and repeated
// slots appear once, in first-seen order. An unavailable or missing weekday
// resolves to an empty slice.
func ResolveSlots(week []models.AvailabilityDay, date time.Time) []string {
	weekday := models.WeekdayName(date)

	for _, day := range week {
		if day.DayOfWeek != weekday {
			continue
		}
		if day.Status != models.AvailabilityStatusAvailable {
			return []string{}
		}
		return flattenSlotTime(day.SlotTime)
	}
	return []string{}
}

// ContainsSlot reports whether slot is one of the resolved slots.
func ContainsSlot(slots []string, slot string) bool {
	slot = strings.TrimSpace(slot)
	for _, candidate := range slots {
		if candidate == slot {
			return true
		}
	}
	return false
}

func flattenSlotTime(slotTime []string) []string {
	result := []string{}
	seen := make(map[string]bool)
	for _, entry := range slotTime {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			result = append(result, part)
		}
	}
	return result
}
