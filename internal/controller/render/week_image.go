// Package render рисует недельное расписание в PNG
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Размеры и отступы
const (
	imageWidth       = 1200
	imageHeight      = 860
	headerHeight     = 90
	leftLabelsWidth  = 70
	dayPaddingX      = 6
	stackIndent      = 10.0
	minEntryHeight   = 14.0
	entryBorderRad   = 6.0
	shadowOffset     = 3.0
	entryTextPadding = 6.0
)

// Размеры шрифтов
const (
	titleFontSize     = 24.0
	dayFontSize       = 20.0
	hourLabelFontSize = 15.0
	entryTimeFontSize = 14.0
	entryNameFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 230}
	hourLabelColor   = color.RGBA{110, 115, 120, 210}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	entryTextColor   = color.RGBA{255, 255, 255, 255}
	entryShadowColor = color.RGBA{0, 0, 0, 25}
	defaultFill      = color.RGBA{99, 102, 241, 255} // #6366f1
)

type fontStyle int

const (
	fontRegular fontStyle = iota
	fontBold
)

var (
	fontsMu     sync.Mutex
	parsedFonts = make(map[fontStyle]*opentype.Font)
)

// setFont выбирает шрифт Go (есть кириллица); при ошибке остаётся basicfont
func setFont(dc *gg.Context, size float64, style fontStyle) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	parsed, ok := parsedFonts[style]
	if !ok {
		data := goregular.TTF
		if style == fontBold {
			data = gobold.TTF
		}
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		parsedFonts[style] = parsed
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// hourRange часы, которые покрывает сетка
type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start
}

// WeekImage рисует сетку недели. weekStart - понедельник отображаемой недели,
// now - текущий момент для подсветки сегодняшнего дня.
func WeekImage(grid timetable.Grid, weekStart, now time.Time) ([]byte, error) {
	slots := grid.Slots()
	if len(slots) == 0 {
		return nil, fmt.Errorf("render week: no time slots")
	}

	hours := slotHours(slots)
	dayWidth := (imageWidth - leftLabelsWidth) / len(model.Weekdays)
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total())

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	drawHeader(dc, weekStart)
	drawHourLabels(dc, hours, cellHeight)

	todayIndex := -1
	for i, day := range model.Weekdays {
		date := weekStart.AddDate(0, 0, i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		isToday := sameDay(date, now)
		if isToday {
			todayIndex = i
		}

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, isToday)
		drawDayHeader(dc, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		drawDayEntries(dc, grid, day, slots, x, y, dayWidth, hours, cellHeight)
	}

	if todayIndex >= 0 {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth)
	}

	return encodeImage(dc)
}

func slotHours(slots []model.TimeSlot) hourRange {
	h := hourRange{start: slots[0].StartHour, end: slots[0].EndHour}
	for _, s := range slots[1:] {
		h.start = min(h.start, s.StartHour)
		h.end = max(h.end, s.EndHour)
	}
	if h.end <= h.start {
		h.end = h.start + 1
	}
	return h
}

func drawHeader(dc *gg.Context, weekStart time.Time) {
	weekEnd := weekStart.AddDate(0, 0, len(model.Weekdays)-1)
	title := fmt.Sprintf("Неделя %s - %s", weekStart.Format("02.01"), weekEnd.Format("02.01.2006"))

	setFont(dc, titleFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/4, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	setFont(dc, hourLabelFontSize, fontRegular)
	dc.SetColor(hourLabelColor)

	for hour := hours.start; hour <= hours.end; hour++ {
		y := float64(headerHeight) + float64(hour-hours.start)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hour), float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	setFont(dc, dayFontSize, fontBold)
	dc.SetColor(textColor)
	center := x + float64(dayWidth)/2
	dc.DrawStringAnchored(weekdayShort(date.Weekday()), center, y-34, 0.5, 0.5)
	dc.DrawStringAnchored(date.Format("02.01"), center, y-12, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.4)
	dc.SetColor(hourLineColor)

	for i := 0; i <= hours.total(); i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawDayEntries рисует занятия дня из стартовых ячеек сетки. Занятия одной
// ячейки рисуются каскадом в порядке индекса.
func drawDayEntries(dc *gg.Context, grid timetable.Grid, day model.Day, slots []model.TimeSlot,
	x, y float64, dayWidth int, hours hourRange, cellHeight float64) {

	for slotIdx, slot := range slots {
		for stack, placed := range grid.Cell(day, slotIdx) {
			top := y + (float64(slot.StartHour-hours.start)+placed.TopOffsetFraction)*cellHeight
			height := max(placed.SpanHours*cellHeight, minEntryHeight)
			indent := float64(stack) * stackIndent
			left := x + dayPaddingX + indent
			width := float64(dayWidth) - 2*dayPaddingX - indent

			drawEntry(dc, placed.Entry, left, top, width, height)
		}
	}
}

func drawEntry(dc *gg.Context, entry model.ScheduleEntry, x, y, w, h float64) {
	fill := parseHexColor(entry.Color)

	dc.SetColor(entryShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, y+1+shadowOffset, w, h-2, entryBorderRad)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y+1, w, h-2, entryBorderRad)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y+1, w, h-2, entryBorderRad)
	dc.Stroke()

	dc.SetColor(entryTextColor)
	textX := x + entryTextPadding
	textY := y + entryTextPadding + entryTimeFontSize/2

	setFont(dc, entryTimeFontSize, fontBold)
	dc.DrawStringAnchored(entry.StartTime+"-"+entry.EndTime, textX, textY, 0, 0.5)

	lineHeight := entryNameFontSize + 4
	setFont(dc, entryNameFontSize, fontRegular)
	for _, line := range []string{entry.Name, entry.Location} {
		textY += lineHeight
		if textY > y+h-entryTextPadding {
			break
		}
		dc.DrawStringAnchored(fitText(dc, line, w-2*entryTextPadding), textX, textY, 0, 0.5)
	}
}

// fitText обрезает строку с многоточием по ширине
func fitText(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimSpace(string(runes)) + "…"
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return ""
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	lineY := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(float64(leftLabelsWidth), lineY, float64(leftLabelsWidth+len(model.Weekdays)*dayWidth), lineY)
	dc.Stroke()
}

// parseHexColor "#rrggbb" или "#rgb"; иначе цвет по умолчанию
func parseHexColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return defaultFill
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return defaultFill
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func formatHourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func weekdayShort(weekday time.Weekday) string {
	names := [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	return names[weekday]
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
