package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/render"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
)

// Рисует недельную сетку в PNG. Без аргументов берутся примерные занятия,
// иначе первый аргумент - JSON-файл с массивом занятий.
//
//	go run ./cmd/timetable_image [entries.json] [out.png]
func main() {
	raw := sampleEntries()
	filename := "timetable_week.png"

	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Printf("Ошибка чтения файла: %v\n", err)
			os.Exit(1)
		}
		raw = nil
		if err := json.Unmarshal(data, &raw); err != nil {
			fmt.Printf("Ошибка разбора JSON: %v\n", err)
			os.Exit(1)
		}
	}
	if len(os.Args) > 2 {
		filename = os.Args[2]
	}

	engine := timetable.New(timetable.WithReporter(timetable.ReporterFunc(func(d timetable.Diagnostic) {
		fmt.Printf("⚠️ %s: %q (занятие %s)\n", d.Kind, d.Value, d.EntryID)
	})))

	entries := engine.BuildEntries(raw)
	grid := timetable.Plan(engine.Index(entries), model.DefaultTimeSlots())

	now := time.Now()
	weekStart, weekEnd := timetable.WeekBounds(now)

	imageData, err := render.WeekImage(grid, weekStart, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", filename)
	fmt.Printf("📅 Период: %s - %s\n", weekStart.Format("02.01.2006"), weekEnd.Format("02.01.2006"))
	fmt.Printf("📊 Занятий: %d\n", len(entries))
}

func sampleEntries() []model.RawScheduleEntry {
	return []model.RawScheduleEntry{
		{Day: "Monday", StartTime: "9:00", EndTime: "10:30", Name: "Математический анализ", Location: "A-101", Type: "Lecture", Color: "#6366f1"},
		{Day: "Monday", StartTime: "9:30", EndTime: "10:00", Name: "Консультация", Location: "A-102", Type: "Office Hours", Color: "#f59e0b"},
		{Day: "Tuesday", StartTime: "11:00 AM", EndTime: "1:00 PM", Name: "Физика", Location: "Lab-2", Type: "Lab", Color: "#10b981"},
		{Day: "wednesday", StartTime: "14:15:00", EndTime: "15:45:00", Name: "Алгоритмы", Location: "B-201", Type: "Seminar", Color: "#ef4444"},
		{Day: "Thursday", StartTime: "8:00", EndTime: "9:00", Name: "Английский", Location: "C-12", Type: "Practice"},
		{Day: "Friday", StartTime: "16:00", EndTime: "18:00", Name: "Проектная работа", Location: "Study-1", Type: "Project", Color: "#0ea5e9"},
		{Day: "Saturday", StartTime: "10:00", EndTime: "11:00", Name: "Не отображается"},
	}
}
