package analytics

import "time"

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var quotes = []Quote{
	{"The future depends on what you do today.", "Mahatma Gandhi"},
	{"It always seems impossible until it's done.", "Nelson Mandela"},
	{"Don't watch the clock; do what it does. Keep going.", "Sam Levenson"},
	{"The secret of getting ahead is getting started.", "Mark Twain"},
	{"Quality is not an act, it is a habit.", "Aristotle"},
	{"Start where you are. Use what you have. Do what you can.", "Arthur Ashe"},
	{"Focus entirely on the task at hand. The sun's rays do not burn until brought to a focus.", "Alexander Graham Bell"},
	{"Productivity is being able to do things that you were never able to do before.", "Franz Kafka"},
	{"Success is the sum of small efforts, repeated day in and day out.", "Robert Collier"},
	{"Your time is limited, so don't waste it living someone else's life.", "Steve Jobs"},
}

// DailyQuote одинакова в течение календарного дня
func DailyQuote(now time.Time) Quote {
	y, m, d := now.Local().Date()
	seed := y*1000 + int(m)*100 + d
	return quotes[seed%len(quotes)]
}

func Greeting(now time.Time) string {
	switch h := now.Local().Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
