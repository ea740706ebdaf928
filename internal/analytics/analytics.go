// Package analytics - производные показатели для дашборда: история фокуса
// по дням, серия дней, цитата дня и приветствие.
package analytics

import (
	"studyMate/internal/models/focus"
	"studyMate/internal/models/task"
	"time"
)

const dayLayout = "2006-01-02"

type DayItem struct {
	Date    string `json:"date"`
	Label   string `json:"label"`
	Minutes int    `json:"minutes"`
}

type Summary struct {
	TodayMinutes int       `json:"today_minutes"`
	TodayCount   int       `json:"today_count"`
	StreakDays   int       `json:"streak_days"`
	Trend        []DayItem `json:"trend"`
	Inactive48h  bool      `json:"inactive_48h"`
}

// focusByDay суммирует минуты фокус-сессий по локальным календарным дням
func focusByDay(sessions []focus.Session) (map[string]int, map[string]int) {
	minutes := map[string]int{}
	counts := map[string]int{}
	for _, s := range sessions {
		if s.Mode != focus.ModeFocus {
			continue
		}
		key := s.StartTime.Local().Format(dayLayout)
		minutes[key] += s.Duration
		counts[key]++
	}
	return minutes, counts
}

// FocusHistory - минуты фокуса за последние days дней, от старого к новому
func FocusHistory(sessions []focus.Session, now time.Time, days int) []DayItem {
	if days <= 0 {
		return []DayItem{}
	}
	minutes, _ := focusByDay(sessions)
	today := task.StartOfDay(now.Local())

	items := make([]DayItem, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := d.Format(dayLayout)
		items = append(items, DayItem{
			Date:    key,
			Label:   d.Format("Mon"),
			Minutes: minutes[key],
		})
	}
	return items
}

// DayStreak считает подряд идущие дни с фокусом, двигаясь назад от сегодня.
// Пустой сегодняшний день серию не рвёт: он ещё не закончился.
func DayStreak(sessions []focus.Session, now time.Time) int {
	minutes, _ := focusByDay(sessions)
	day := task.StartOfDay(now.Local())

	if minutes[day.Format(dayLayout)] == 0 {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for minutes[day.Format(dayLayout)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// Summarize собирает сводку за days дней
func Summarize(sessions []focus.Session, now time.Time, days int) Summary {
	minutes, counts := focusByDay(sessions)
	todayKey := now.Local().Format(dayLayout)

	res := Summary{
		TodayMinutes: minutes[todayKey],
		TodayCount:   counts[todayKey],
		StreakDays:   DayStreak(sessions, now),
		Trend:        FocusHistory(sessions, now, days),
		Inactive48h:  true,
	}

	var last time.Time
	for _, s := range sessions {
		if s.StartTime.After(last) {
			last = s.StartTime
		}
	}
	if !last.IsZero() {
		res.Inactive48h = now.Sub(last) > 48*time.Hour
	}
	return res
}
