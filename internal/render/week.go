// Package render рисует недельную сетку приёма врача в PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/service"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Размеры и отступы
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 18
)

// Размеры шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 14.0
	legendItemFontSize = 12.0
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 125}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}
	dayOffColor    = color.NRGBA{200, 200, 200, 255}

	primaryFreeColor    = color.RGBA{133, 193, 85, 220}
	repeatFreeColor     = color.RGBA{100, 160, 220, 220}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

var weekdayShort = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

var monthNames = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}

type hourRange struct {
	start int
	end   int
	total int
}

type placedSlot struct {
	slot model.Slot
	state service.SlotState
}

var (
	fontsOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
)

// setFont выбирает Go-шрифт нужного размера, basicfont если разбор не удался
func setFont(dc *gg.Context, size float64, isBold bool) {
	fontsOnce.Do(func() {
		regular, _ = opentype.Parse(goregular.TTF)
		bold, _ = opentype.Parse(gobold.TTF)
	})

	f := regular
	if isBold {
		f = bold
	}
	if f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// WeekImage рисует сводку из WeekPlan. Выходные закрашены серым,
// today подсвечивается, если попадает в неделю.
func WeekImage(plans []service.DayPlan, today time.Time) ([]byte, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("render week: empty plan")
	}

	days, err := placeSlots(plans)
	if err != nil {
		return nil, err
	}
	hours := calculateHourRange(days)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / len(plans)
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, plans[0].Date, plans[len(plans)-1].Date)
	drawHourLabels(dc, hours, cellHeight)

	today = model.DayOf(today)
	for i, plan := range plans {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, plan, plan.Date.Equal(today))
		drawDayHeader(dc, plan.Date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, ps := range days[i] {
			drawSlot(dc, ps, x, y, dayWidth, hours, cellHeight)
		}
	}
	drawLegend(dc, len(plans)*dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func placeSlots(plans []service.DayPlan) ([][]placedSlot, error) {
	days := make([][]placedSlot, len(plans))
	for i, plan := range plans {
		for _, st := range plan.Slots {
			slot, err := model.ParseSlot(st.Slot)
			if err != nil {
				return nil, fmt.Errorf("render week: %w", err)
			}
			days[i] = append(days[i], placedSlot{slot: slot, state: st})
		}
	}
	return days, nil
}

// calculateHourRange диапазон часов, покрывающий все слоты недели
func calculateHourRange(days [][]placedSlot) hourRange {
	minHour, maxHour := 24, 0
	for _, day := range days {
		for _, ps := range day {
			startH := ps.slot.Start.Minutes() / 60
			endH := (ps.slot.End.Minutes() + 59) / 60
			minHour = min(minHour, startH)
			maxHour = max(maxHour, endH)
		}
	}
	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	start := max(minHour-hourPaddingTop, 0)
	end := min(maxHour+hourPaddingBot, 24)
	return hourRange{start: start, end: end, total: end - start}
}

func drawHeader(dc *gg.Context, from, to time.Time) {
	title := monthNames[from.Month()]
	if from.Month() != to.Month() {
		title += " - " + monthNames[to.Month()]
	}

	setFont(dc, titleFontSize, true)
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2+10, float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	setFont(dc, hourLabelFontSize, false)
	dc.SetColor(hourLabelColor)

	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+i), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, index int, plan service.DayPlan, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case plan.Off:
		dc.SetColor(dayOffColor)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	if plan.Off {
		setFont(dc, dayFontSize, true)
		dc.SetColor(hourLabelColor)
		dc.DrawStringAnchored("Выходной", x+float64(dayWidth)/2, y+float64(dayHeight)/2, 0.5, 0.5)
	}
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	setFont(dc, dayFontSize, true)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayShort[date.Weekday()], x+float64(dayWidth)/2, y, 0.5, -0.2)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawSlot(dc *gg.Context, ps placedSlot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start := float64(ps.slot.Start.Minutes()) / 60
	end := float64(ps.slot.End.Minutes()) / 60

	slotY := y + (start-float64(hours.start))*cellHeight
	slotHeight := max((end-start)*cellHeight, minSlotHeight)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	fill := slotColor(ps.state)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	if slotHeight < slotTimeFontSize+4 {
		return
	}
	txt := slotTextColor
	if ps.state.Booked {
		txt = slotBookedTextColor
	}
	setFont(dc, slotTimeFontSize, false)
	dc.SetColor(txt)
	dc.DrawStringAnchored(ps.slot.Start.String(), x+dayPaddingX+8, slotY+2+slotHeight/2-2, 0, 0.5)
}

func slotColor(st service.SlotState) color.RGBA {
	switch {
	case st.Booked:
		return slotBookedColor
	case st.Type == model.AppointmentTypeRepeat:
		return repeatFreeColor
	default:
		return primaryFreeColor
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, daysWidth int) {
	items := []struct {
		label string
		clr   color.Color
	}{
		{"Первичный", primaryFreeColor},
		{"Повторный", repeatFreeColor},
		{"Занято", slotBookedColor},
		{"Выходной", dayOffColor},
	}

	const boxW, boxH = 20.0, 14.0
	lx := float64(leftLabelsWidth + daysWidth + 10)
	ly := float64(imageHeight) - 130.0

	setFont(dc, legendItemFontSize, false)
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(lx, ly, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, lx+boxW+8, ly+boxH/2+1, 0, 0.2)
		ly += boxH + 14
	}
}
