package formatting

import "fmt"

// pluralize выбирает форму для 1, 2-4 и 5+
func pluralize(count int, one, few, many string) string {
	switch {
	case count%10 == 1 && count%100 != 11:
		return one
	case count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20):
		return few
	default:
		return many
	}
}

func PluralizeRooms(count int) string {
	return pluralize(count, "аудитория", "аудитории", "аудиторий")
}

func PluralizeReservations(count int) string {
	return pluralize(count, "бронь", "брони", "броней")
}

func PluralizeClasses(count int) string {
	return pluralize(count, "занятие", "занятия", "занятий")
}

// CountOf "3 аудитории"
func CountOf(count int, plural func(int) string) string {
	return fmt.Sprintf("%d %s", count, plural(count))
}

func PluralizeSeats(count int) string {
	return pluralize(count, "место", "места", "мест")
}
