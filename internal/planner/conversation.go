package planner

import (
	"studyMate/internal/gemini"
	"sync"
)

const defaultMaxTurns = 20

// Conversation хранит историю чата с тутором на стороне сервера.
// При переполнении выбрасываются самые старые реплики, первая остаётся.
type Conversation struct {
	mu       sync.Mutex
	turns    []gemini.Turn
	maxTurns int
}

func NewConversation(maxTurns int) *Conversation {
	if maxTurns <= 1 {
		maxTurns = defaultMaxTurns
	}
	return &Conversation{
		turns:    make([]gemini.Turn, 0, maxTurns),
		maxTurns: maxTurns,
	}
}

func (c *Conversation) Add(turns ...gemini.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, turns...)
	if len(c.turns) > c.maxTurns {
		trimmed := make([]gemini.Turn, 0, c.maxTurns)
		trimmed = append(trimmed, c.turns[0])
		excess := len(c.turns) - c.maxTurns
		trimmed = append(trimmed, c.turns[1+excess:]...)
		c.turns = trimmed
	}
}

func (c *Conversation) Turns() []gemini.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := make([]gemini.Turn, len(c.turns))
	copy(res, c.turns)
	return res
}

func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = c.turns[:0]
}
