package heroservice

import (
	"encoding/json"

	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// Result carries the value an operation resolved to. When the request
// failed, Value holds the operation's fallback and Err the failure that was
// already reported to the message sink.
type Result[T any] struct {
	Value T
	Err   error
}

// Failed reports whether the underlying request failed.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Get returns the value together with the suppressed error, for callers
// that want to handle failures themselves.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// Ack is the server's opaque acknowledgment of a write.
type Ack struct {
	StatusCode int
	Body       json.RawMessage
}

// HeroRef identifies the hero a delete targets, either by bare id or by record.
type HeroRef interface {
	heroID() int
}

// ByID refers to a hero by its id.
type ByID int

func (id ByID) heroID() int { return int(id) }

// ByRecord refers to a hero by a full record; only its id is used.
type ByRecord models.Hero

func (h ByRecord) heroID() int { return h.ID }

// resolveRef returns the id ref points at. Pointer refs satisfy HeroRef
// through their value methods, so a nil pointer is treated like a nil ref.
func resolveRef(ref HeroRef) (int, bool) {
	switch r := ref.(type) {
	case nil:
		return 0, false
	case *ByID:
		if r == nil {
			return 0, false
		}
		return int(*r), true
	case *ByRecord:
		if r == nil {
			return 0, false
		}
		return r.ID, true
	default:
		return ref.heroID(), true
	}
}
