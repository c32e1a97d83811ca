package logging

import (
	"strings"
	"sync"
)

// DefaultRingSize is the number of lines a Ring keeps by default.
const DefaultRingSize = 500

// Ring is a zapcore.WriteSyncer that keeps the last lines written to it.
type Ring struct {
	mu      sync.Mutex
	lines   []string
	start   int
	size    int
	onWrite func()
}

// NewRing creates a ring holding at most size lines.
func NewRing(size int) *Ring {
	if size < 1 {
		size = DefaultRingSize
	}
	return &Ring{lines: make([]string, 0, size), size: size}
}

// OnWrite sets a hook run after every write. It is called from the logging
// goroutine and must not block or log.
func (r *Ring) OnWrite(fn func()) {
	r.mu.Lock()
	r.onWrite = fn
	r.mu.Unlock()
}

// Write implements io.Writer. Each line of p becomes one entry.
func (r *Ring) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	r.mu.Lock()
	for _, line := range strings.Split(text, "\n") {
		r.push(line)
	}
	hook := r.onWrite
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return len(p), nil
}

func (r *Ring) push(line string) {
	if len(r.lines) < r.size {
		r.lines = append(r.lines, line)
		return
	}
	r.lines[r.start] = line
	r.start = (r.start + 1) % r.size
}

// Sync implements zapcore.WriteSyncer.
func (r *Ring) Sync() error {
	return nil
}

// Tail returns up to n of the most recent lines, oldest first.
func (r *Ring) Tail(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.lines)
	if n > total {
		n = total
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := total - n; i < total; i++ {
		out = append(out, r.lines[(r.start+i)%total])
	}
	return out
}

// Len returns the number of lines held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}
