// Package schedule раскладывает задачи по вертикальной сетке суток:
// один час занимает HourHeight единиц, сутки - DayHeight.
package schedule

import (
	"fmt"
	"sort"
	"studyMate/internal/models/task"
	"time"
)

const (
	HourHeight = 100.0
	DayHeight  = 24 * HourHeight
)

// Placement - положение блока задачи на сетке
type Placement struct {
	Task   *task.Task `json:"task"`
	Top    float64    `json:"top"`
	Height float64    `json:"height"`
}

// Offset переводит время суток в вертикальную координату
func Offset(hour, minute int) float64 {
	return float64(hour*60+minute) / 60 * HourHeight
}

// Place считает положение задачи; false, если у задачи нет корректного startTime
func Place(t *task.Task) (Placement, bool) {
	if !t.Scheduled() {
		return Placement{}, false
	}
	h, m, err := task.ParseStartTime(t.StartTime)
	if err != nil {
		return Placement{}, false
	}
	return Placement{
		Task:   t,
		Top:    Offset(h, m),
		Height: float64(t.Duration) / 60 * HourHeight,
	}, true
}

// SameDay сравнивает календарные дни в локальном времени, время суток игнорируется
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func TasksForDay(tasks []*task.Task, day time.Time) []*task.Task {
	res := []*task.Task{}
	for _, t := range tasks {
		if SameDay(t.Date, day) {
			res = append(res, t)
		}
	}
	return res
}

// NowOffset - позиция индикатора текущего времени с точностью до минуты
func NowOffset(now time.Time) float64 {
	now = now.Local()
	return Offset(now.Hour(), now.Minute())
}

// SlotTime форматирует клик по ячейке сетки в "HH:MM"
func SlotTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

type DayGrid struct {
	Date        time.Time    `json:"date"`
	IsToday     bool         `json:"is_today"`
	Placements  []Placement  `json:"placements"`
	Unscheduled []*task.Task `json:"unscheduled"`
	NowOffset   *float64     `json:"now_offset,omitempty"`
}

// BuildDay собирает сетку одного дня. Завершённые задачи на сетку не попадают,
// индикатор времени есть только у сегодняшнего дня.
func BuildDay(tasks []*task.Task, day, now time.Time) DayGrid {
	grid := DayGrid{
		Date:        task.StartOfDay(day.Local()),
		IsToday:     SameDay(day, now),
		Placements:  []Placement{},
		Unscheduled: []*task.Task{},
	}

	for _, t := range TasksForDay(tasks, day) {
		if !t.Scheduled() {
			grid.Unscheduled = append(grid.Unscheduled, t)
			continue
		}
		if t.CompletedAt != nil {
			continue
		}
		if p, ok := Place(t); ok {
			grid.Placements = append(grid.Placements, p)
		}
	}

	if grid.IsToday {
		offset := NowOffset(now)
		grid.NowOffset = &offset
	}
	return grid
}

// WeekDays - семь дней недели, содержащей anchor, начиная с понедельника
func WeekDays(anchor time.Time) []time.Time {
	start := task.StartOfDay(anchor.Local())
	shift := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -shift)

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

func BuildWeek(tasks []*task.Task, anchor, now time.Time) []DayGrid {
	days := WeekDays(anchor)
	grids := make([]DayGrid, 0, len(days))
	for _, day := range days {
		grids = append(grids, BuildDay(tasks, day, now))
	}
	return grids
}

// SortForList упорядочивает копию списка по startTime как по строке;
// задачи без времени считаются "00:00". Порядок равных сохраняется.
func SortForList(tasks []*task.Task) []*task.Task {
	sorted := make([]*task.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return listKey(sorted[i]) < listKey(sorted[j])
	})
	return sorted
}

func listKey(t *task.Task) string {
	if t.StartTime == "" {
		return "00:00"
	}
	return t.StartTime
}
