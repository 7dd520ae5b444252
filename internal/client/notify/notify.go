// Package notify shows transient user-facing notices.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Level int

const (
	Info Level = iota
	// Destructive marks a failed action the user should know about.
	Destructive
)

func (l Level) String() string {
	if l == Destructive {
		return "error"
	}
	return "info"
}

type Notifier interface {
	Notify(level Level, title, message string)
}

// WriterNotifier prints notices as single lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(level Level, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prefix := "*"
	if level == Destructive {
		prefix = "!"
	}
	fmt.Fprintf(n.w, "%s %s: %s\n", prefix, title, message)
}
