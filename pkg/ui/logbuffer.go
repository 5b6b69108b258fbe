package ui

import (
	"strings"
	"sync"
)

// LogConsumer receives formatted log lines for display.
type LogConsumer interface {
	AddLog(msg string)
}

// maxPendingLogLines bounds how much output is held before a consumer
// attaches.
const maxPendingLogLines = 50

// LogBuffer is an io.Writer that captures logger output so it can be shown
// inside the terminal UI instead of being printed over it. Lines written
// before a consumer attaches are held and replayed.
type LogBuffer struct {
	mu       sync.Mutex
	consumer LogConsumer
	pending  []string
}

// Write splits the payload into lines and hands them to the consumer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		if b.consumer != nil {
			b.consumer.AddLog(line)
			continue
		}
		b.pending = append(b.pending, line)
		if len(b.pending) > maxPendingLogLines {
			b.pending = b.pending[len(b.pending)-maxPendingLogLines:]
		}
	}

	return len(p), nil
}

// SetLogConsumer attaches the display and replays any lines captured before
// it existed.
func (b *LogBuffer) SetLogConsumer(c LogConsumer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consumer = c
	for _, line := range b.pending {
		c.AddLog(line)
	}
	b.pending = nil
}
