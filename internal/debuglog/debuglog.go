// Package debuglog writes structured JSON-lines event logs for troubleshooting.
// A nil *Logger is valid and drops every event.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the fixed path for debug logs.
const DefaultPath = "planta-debug.log"

// Logger logs engine and UI events, one JSON object per line.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	seq    int
}

// Open creates (or truncates) the log file at path.
func Open(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	l := &Logger{w: f, closer: f}
	l.Log("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     time.Now().Format(time.RFC3339),
	})
	return l, nil
}

// New returns a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Enabled reports whether events are written.
func (l *Logger) Enabled() bool {
	return l != nil && l.w != nil
}

// Log writes a structured log entry.
func (l *Logger) Log(event string, data map[string]any) {
	if !l.Enabled() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(l.w, "%s\n", b)
}

// Error logs an error with the operation it happened in.
func (l *Logger) Error(context string, err error) {
	if err == nil {
		return
	}
	l.Log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// Close writes the end marker and closes the underlying file, if any.
func (l *Logger) Close() error {
	if !l.Enabled() {
		return nil
	}
	l.Log("DEBUG_END", map[string]any{
		"time": time.Now().Format(time.RFC3339),
	})
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
