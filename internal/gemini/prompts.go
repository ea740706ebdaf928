package gemini

import (
	"encoding/json"
	"fmt"
	"studyMate/internal/models/task"
)

const DefaultPreferences = "Optimize for deep work in the morning"

const schedulePrompt = `
Act as an elite productivity expert algorithm.
I have the following tasks: %s.

My preferences are: %s.

OBJECTIVE: Optimize the schedule for maximum flow and deep work.
RULES:
1. Return ONLY valid JSON. No markdown formatting (no ` + "```json ... ```" + `), no text explanation.
2. The JSON must be an ARRAY of objects.
3. Each object MUST have: { "taskId": "string", "startTime": "HH:MM", "reason": "string" }
4. Schedule high-priority tasks during morning/peak hours if possible.
5. Ensure no overlapping tasks unless unavoidable.

OUTPUT FORMAT:
[
  { "taskId": "1", "startTime": "09:00", "reason": "High focus slot" },
  ...
]
`

const tasksPrompt = `
Act as an elite productivity assistant.
User Goal: "%s"

OBJECTIVE: Break this goal down into actionable tasks for a schedule.
RULES:
1. Return ONLY valid JSON.
2. Output an ARRAY of objects.
3. Each object: { "title": "string", "duration": number (minutes), "category": "string", "priority": "low"|"medium"|"high" }
4. Suggest reasonable durations (15-120 mins).
5. Categories: General, Math, Science, History, CS, Personal.

OUTPUT FORMAT:
[ { "title": "Review Chapter 1", "duration": 45, "category": "Science", "priority": "high" } ]
`

const tutorInstruction = `
You are Mate-X, an elite AI Tutor for high-performance students.
Your goal is to help with doubt solving, concept (Physics, Math, CS) explanations, and exam strategy.
Keep answers concise, structured (use Markdown), and encouraging.
Use bullet points and bold text for key concepts.
`

// taskBrief - усечённое представление задачи для модели
type taskBrief struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Duration int           `json:"duration"`
	Priority task.Priority `json:"priority"`
	Category string        `json:"category"`
}

func buildSchedulePrompt(tasks []*task.Task, preferences string) (string, error) {
	if preferences == "" {
		preferences = DefaultPreferences
	}

	briefs := make([]taskBrief, 0, len(tasks))
	for _, t := range tasks {
		briefs = append(briefs, taskBrief{
			ID:       t.UUID.String(),
			Title:    t.Title,
			Duration: t.Duration,
			Priority: t.Priority,
			Category: t.Category,
		})
	}

	encoded, err := json.Marshal(briefs)
	if err != nil {
		return "", fmt.Errorf("сериализация задач: %w", err)
	}
	return fmt.Sprintf(schedulePrompt, encoded, preferences), nil
}

func buildTasksPrompt(goal string) string {
	return fmt.Sprintf(tasksPrompt, goal)
}
