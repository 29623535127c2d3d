package timetable

import (
	"sort"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
)

// PlacedEntry занятие в стартовой ячейке сетки
type PlacedEntry struct {
	Entry             model.ScheduleEntry
	SpanHours         float64 // высота в часах, может быть дробной
	TopOffsetFraction float64 // смещение от начала слота в долях часа
}

// CellKey ячейка сетки: день и индекс слота во входном списке
type CellKey struct {
	Day  model.Day
	Slot int
}

// Grid раскладка недели по часовым слотам
type Grid struct {
	slots []model.TimeSlot
	index Index
	cells map[CellKey][]PlacedEntry
}

// TableCell ячейка табличной раскладки (экспорт, текстовое расписание)
type TableCell struct {
	Entries    []model.ScheduleEntry
	Rowspan    int
	Suppressed bool // ячейку перекрывает занятие, начавшееся выше
}

// TableRow строка таблицы: один слот, по ячейке на каждый будний день
type TableRow struct {
	Slot  model.TimeSlot
	Cells []TableCell
}

// Plan раскладывает занятия по ячейкам. Занятие попадает только в слот,
// в котором начинается; занятия с одинаковым часом начала складываются
// в одну ячейку в порядке индекса. Если у нескольких слотов одинаковый
// час начала, занятия получает слот с меньшим индексом.
func Plan(idx Index, slots []model.TimeSlot) Grid {
	g := Grid{
		slots: make([]model.TimeSlot, len(slots)),
		index: make(Index, len(idx)),
		cells: make(map[CellKey][]PlacedEntry),
	}
	copy(g.slots, slots)
	for day, entries := range idx {
		dayEntries := make([]model.ScheduleEntry, len(entries))
		copy(dayEntries, entries)
		g.index[day] = dayEntries
	}

	slotByHour := make(map[int]int, len(slots))
	for i, slot := range slots {
		if _, exists := slotByHour[slot.StartHour]; !exists {
			slotByHour[slot.StartHour] = i
		}
	}

	for _, day := range model.Weekdays {
		for _, entry := range g.index[day] {
			startHour, _ := clockParts(entry.StartTime)
			slotIdx, ok := slotByHour[startHour]
			if !ok {
				continue
			}

			key := CellKey{Day: day, Slot: slotIdx}
			g.cells[key] = append(g.cells[key], place(entry))
		}
	}

	return g
}

func place(entry model.ScheduleEntry) PlacedEntry {
	startHour, startMin := clockParts(entry.StartTime)
	endHour, endMin := clockParts(entry.EndTime)

	return PlacedEntry{
		Entry:             entry,
		SpanHours:         float64(endHour) + float64(endMin)/60 - float64(startHour) - float64(startMin)/60,
		TopOffsetFraction: float64(startMin) / 60,
	}
}

// Slots слоты, по которым построена сетка
func (g Grid) Slots() []model.TimeSlot {
	out := make([]model.TimeSlot, len(g.slots))
	copy(out, g.slots)
	return out
}

// Cell занятия, начинающиеся в ячейке (day, slot)
func (g Grid) Cell(day model.Day, slot int) []PlacedEntry {
	placed := g.cells[CellKey{Day: day, Slot: slot}]
	out := make([]PlacedEntry, len(placed))
	copy(out, placed)
	return out
}

// Cells все непустые ячейки сетки
func (g Grid) Cells() map[CellKey][]PlacedEntry {
	out := make(map[CellKey][]PlacedEntry, len(g.cells))
	for k, v := range g.cells {
		placed := make([]PlacedEntry, len(v))
		copy(placed, v)
		out[k] = placed
	}
	return out
}

// Entries занятия дня в порядке индекса
func (g Grid) Entries(day model.Day) []model.ScheduleEntry {
	entries := g.index[day]
	out := make([]model.ScheduleEntry, len(entries))
	copy(out, entries)
	return out
}

// Empty true, если в сетке нет ни одного занятия
func (g Grid) Empty() bool {
	return g.index.Len() == 0
}

// IsContinuation проверяет, перекрыт ли слот занятием, начавшимся в более раннем часе.
// Такой слот в таблице не выводится: его поглощает rowspan стартовой ячейки.
func IsContinuation(dayEntries []model.ScheduleEntry, slot model.TimeSlot) bool {
	for _, entry := range dayEntries {
		startHour, _ := clockParts(entry.StartTime)
		if startHour < slot.StartHour && slot.StartHour < actualEndHour(entry) {
			return true
		}
	}
	return false
}

// Rowspan сколько часовых строк таблицы занимает занятие
func Rowspan(entry model.ScheduleEntry) int {
	startHour, _ := clockParts(entry.StartTime)
	span := actualEndHour(entry) - startHour
	if span < 1 {
		return 1
	}
	return span
}

// actualEndHour час окончания, округлённый вверх до целого
func actualEndHour(entry model.ScheduleEntry) int {
	endHour, endMin := clockParts(entry.EndTime)
	if endMin > 0 {
		return endHour + 1
	}
	return endHour
}

// Table строит табличную раскладку: строки по слотам в порядке возрастания часа,
// столбцы по будним дням.
func (g Grid) Table() []TableRow {
	order := make([]int, len(g.slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.slots[order[a]].StartHour < g.slots[order[b]].StartHour
	})

	rows := make([]TableRow, 0, len(order))
	for _, slotIdx := range order {
		slot := g.slots[slotIdx]
		row := TableRow{Slot: slot, Cells: make([]TableCell, 0, len(model.Weekdays))}

		for _, day := range model.Weekdays {
			if IsContinuation(g.index[day], slot) {
				row.Cells = append(row.Cells, TableCell{Suppressed: true})
				continue
			}

			cell := TableCell{Rowspan: 1}
			for _, placed := range g.cells[CellKey{Day: day, Slot: slotIdx}] {
				cell.Entries = append(cell.Entries, placed.Entry)
				if span := Rowspan(placed.Entry); span > cell.Rowspan {
					cell.Rowspan = span
				}
			}
			row.Cells = append(row.Cells, cell)
		}

		rows = append(rows, row)
	}

	return rows
}
