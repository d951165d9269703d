package message

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceAddKeepsOrderAndCopies(t *testing.T) {
	s := NewService()
	s.Add("first")
	s.Add("second")

	got := s.Messages()
	assert.Equal(t, []string{"first", "second"}, got)

	got[0] = "mutated"
	assert.Equal(t, "first", s.Messages()[0])
}

func TestServiceClear(t *testing.T) {
	s := NewService()
	s.Add("one")
	s.Clear()
	assert.Empty(t, s.Messages())

	s.Add("two")
	assert.Equal(t, []string{"two"}, s.Messages())
}

func TestServiceConcurrentAdd(t *testing.T) {
	s := NewService()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add("msg")
		}()
	}
	wg.Wait()
	assert.Len(t, s.Messages(), 50)
}

func TestTeeFansOutAndSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mem := NewService()

	sink := Tee(mem, nil, NewLogSink(logger))
	sink.Add("HeroService: fetched heroes")

	assert.Equal(t, []string{"HeroService: fetched heroes"}, mem.Messages())
	assert.Contains(t, buf.String(), "HeroService: fetched heroes")
}

func TestLogSinkWritesAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	info := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	NewLogSink(info).Add("hidden below info")
	assert.Empty(t, buf.String())

	debug := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	NewLogSink(debug).Add("shown at debug")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "shown at debug")

	assert.NotPanics(t, func() { NewLogSink(nil).Add("default logger") })
}
