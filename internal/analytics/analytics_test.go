package analytics_test

import (
	"studyMate/internal/analytics"
	"studyMate/internal/models/focus"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 12, 15, 0, 0, 0, time.Local) // вторник

func session(daysAgo int, mode focus.Mode, minutes int) focus.Session {
	return focus.Session{
		StartTime: now.AddDate(0, 0, -daysAgo).Add(-time.Hour),
		Duration:  minutes,
		Mode:      mode,
		Completed: true,
	}
}

func TestFocusHistory(t *testing.T) {
	sessions := []focus.Session{
		session(0, focus.ModeFocus, 25),
		session(0, focus.ModeShortBreak, 5),
		session(2, focus.ModeFocus, 25),
		session(2, focus.ModeFocus, 25),
		session(9, focus.ModeFocus, 25),
	}

	history := analytics.FocusHistory(sessions, now, 7)
	require.Len(t, history, 7)

	assert.Equal(t, "2024-03-06", history[0].Date)
	assert.Equal(t, "Wed", history[0].Label)
	assert.Equal(t, "2024-03-12", history[6].Date)
	assert.Equal(t, "Tue", history[6].Label)
	assert.Equal(t, 25, history[6].Minutes)
	assert.Equal(t, 50, history[4].Minutes)
	assert.Equal(t, 0, history[5].Minutes)

	assert.Empty(t, analytics.FocusHistory(sessions, now, 0))
}

func TestDayStreak(t *testing.T) {
	tests := []struct {
		name     string
		sessions []focus.Session
		want     int
	}{
		{"no sessions", nil, 0},
		{"today only", []focus.Session{session(0, focus.ModeFocus, 25)}, 1},
		{
			"three days in a row",
			[]focus.Session{session(0, focus.ModeFocus, 25), session(1, focus.ModeFocus, 25), session(2, focus.ModeFocus, 25)},
			3,
		},
		{
			"stops at first gap",
			[]focus.Session{session(0, focus.ModeFocus, 25), session(1, focus.ModeFocus, 25), session(3, focus.ModeFocus, 25)},
			2,
		},
		{
			"today not started yet",
			[]focus.Session{session(1, focus.ModeFocus, 25), session(2, focus.ModeFocus, 25)},
			2,
		},
		{
			"breaks do not count",
			[]focus.Session{session(0, focus.ModeShortBreak, 5), session(1, focus.ModeLongBreak, 15)},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.DayStreak(tt.sessions, now))
		})
	}
}

func TestSummarize(t *testing.T) {
	sessions := []focus.Session{
		session(0, focus.ModeFocus, 25),
		session(0, focus.ModeFocus, 25),
		session(0, focus.ModeShortBreak, 5),
		session(1, focus.ModeFocus, 25),
	}

	sum := analytics.Summarize(sessions, now, 7)
	assert.Equal(t, 50, sum.TodayMinutes)
	assert.Equal(t, 2, sum.TodayCount)
	assert.Equal(t, 2, sum.StreakDays)
	assert.Len(t, sum.Trend, 7)
	assert.False(t, sum.Inactive48h)

	idle := analytics.Summarize([]focus.Session{session(3, focus.ModeFocus, 25)}, now, 7)
	assert.True(t, idle.Inactive48h)
	assert.True(t, analytics.Summarize(nil, now, 7).Inactive48h)
}

func TestDailyQuote_StableWithinDay(t *testing.T) {
	morning := time.Date(2024, 3, 12, 0, 5, 0, 0, time.Local)
	evening := time.Date(2024, 3, 12, 23, 55, 0, 0, time.Local)

	assert.Equal(t, analytics.DailyQuote(morning), analytics.DailyQuote(evening))

	// 2024*1000 + 3*100 + 12 = 2024312, остаток от деления на 10 равен 2
	q := analytics.DailyQuote(morning)
	assert.Equal(t, "Sam Levenson", q.Author)
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{17, "Good afternoon"},
		{18, "Good evening"},
		{23, "Good evening"},
	}

	for _, tt := range tests {
		at := time.Date(2024, 3, 12, tt.hour, 30, 0, 0, time.Local)
		assert.Equal(t, tt.want, analytics.Greeting(at), "hour %d", tt.hour)
	}
}
