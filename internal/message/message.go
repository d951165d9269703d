// Package message holds the append-only message log shared by the client
// components. Writers only ever append; the CLI reads it back for display.
package message

import (
	"context"
	"log/slog"
	"sync"
)

// Sink accepts free-form text messages.
type Sink interface {
	Add(message string)
}

// Service keeps every message in memory, in arrival order.
type Service struct {
	mu       sync.RWMutex
	messages []string
}

// NewService constructs an empty message Service.
func NewService() *Service {
	return &Service{}
}

// Add appends a message.
func (s *Service) Add(message string) {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
}

// Messages returns a copy of the recorded messages.
func (s *Service) Messages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear drops all recorded messages.
func (s *Service) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}

// LogSink forwards messages to a structured logger at debug level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a LogSink writing to logger, or to slog.Default when
// logger is nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Add logs message at debug level.
func (s *LogSink) Add(message string) {
	s.logger.Log(context.Background(), slog.LevelDebug, message)
}

type tee []Sink

func (t tee) Add(message string) {
	for _, s := range t {
		s.Add(message)
	}
}

// Tee returns a Sink that hands every message to each of sinks in order.
// Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
