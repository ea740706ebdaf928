// Package notify - звуковой сигнал по окончании таймера.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Chime interface {
	Ring() error
}

// Bell пишет в терминал управляющий символ BEL
type Bell struct {
	mtx sync.Mutex
	out io.Writer
}

func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

func (b *Bell) Ring() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if _, err := io.WriteString(b.out, "\a"); err != nil {
		return fmt.Errorf("сигнал: %w", err)
	}
	return nil
}

type Nop struct{}

func (Nop) Ring() error { return nil }
