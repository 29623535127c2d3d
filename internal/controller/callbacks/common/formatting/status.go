package formatting

import "github.com/Freeeeeet/campusroom_bot/internal/model"

// StatusDisplay emoji и подпись статуса брони
type StatusDisplay struct {
	Emoji string
	Text  string
}

func GetBookingStatusDisplay(status model.BookingStatus) StatusDisplay {
	displays := map[model.BookingStatus]StatusDisplay{
		model.BookingStatusPending:   {"⏳", "Ожидает одобрения"},
		model.BookingStatusApproved:  {"✅", "Одобрена"},
		model.BookingStatusRejected:  {"🚫", "Отклонена"},
		model.BookingStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetRoleName название роли
func GetRoleName(role model.Role) string {
	switch role {
	case model.RoleProfessor:
		return "Преподаватель"
	case model.RoleAdmin:
		return "Администратор"
	default:
		return "Студент"
	}
}

// InstructorLabel подпись поля ведущего занятия. Преподаватель видит своего
// ассистента, студент - преподавателя.
func InstructorLabel(role model.Role) string {
	if role == model.RoleProfessor {
		return "Ассистент"
	}
	return "Преподаватель"
}
