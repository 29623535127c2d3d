package model

type RoomType string

const (
	RoomTypeLectureHall    RoomType = "Lecture Hall"
	RoomTypeClassroom      RoomType = "Classroom"
	RoomTypeLab            RoomType = "Lab"
	RoomTypeStudyRoom      RoomType = "Study Room"
	RoomTypeConferenceRoom RoomType = "Conference Room"
)

type Room struct {
	ID         string   `json:"id"`
	RoomNumber string   `json:"room_number"`
	Capacity   int      `json:"capacity"`
	Type       RoomType `json:"type"`
	Features   []string `json:"features"`
}

// RawRoom аудитория в том виде, в котором её отдаёт источник данных
type RawRoom struct {
	ID         string   `json:"id"`
	RoomNumber string   `json:"room_number"`
	Name       string   `json:"name"`
	Capacity   int      `json:"capacity"`
	Type       string   `json:"type"`
	Features   []string `json:"features"`
}

// ToRoom приводит сырую запись к Room. Номер берётся из Name, если RoomNumber пуст.
func (r RawRoom) ToRoom() Room {
	number := r.RoomNumber
	if number == "" {
		number = r.Name
	}
	features := make([]string, len(r.Features))
	copy(features, r.Features)
	return Room{
		ID:         r.ID,
		RoomNumber: number,
		Capacity:   r.Capacity,
		Type:       RoomType(r.Type),
		Features:   features,
	}
}
