// Package pairing models the handshake placeholder shown before a transfer.
package pairing

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// DefaultBaseURL is where the QR payload points.
const DefaultBaseURL = "https://datamover.app/pair"

// State of a pairing session.
type State int

const (
	// AwaitingConnection waits for the other device to scan the code.
	AwaitingConnection State = iota
	// Paired is terminal.
	Paired
)

func (s State) String() string {
	switch s {
	case AwaitingConnection:
		return "awaiting connection"
	case Paired:
		return "paired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrInvalidState is returned when an operation does not apply to the session's state.
var ErrInvalidState = errors.New("invalid session state")

// Intner picks an index in [0, n).
type Intner interface {
	Intn(n int) int
}

// Session identifies one pairing attempt.
type Session struct {
	ID    string
	PIN   string
	State State
}

// NewSession creates a session awaiting connection with a random PIN.
func NewSession(rnd Intner) Session {
	return Session{
		ID:    uuid.NewString(),
		PIN:   fmt.Sprintf("%03d-%03d", rnd.Intn(1000), rnd.Intn(1000)),
		State: AwaitingConnection,
	}
}

// Complete marks the session paired. A session pairs at most once.
func Complete(s Session) (Session, error) {
	if s.State == Paired {
		return s, fmt.Errorf("%w: session %s already paired", ErrInvalidState, s.ID)
	}
	s.State = Paired
	return s, nil
}

// URL returns the QR payload for the session.
func (s Session) URL(base string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	q := url.Values{}
	q.Set("session", s.ID)
	return base + "?" + q.Encode()
}
