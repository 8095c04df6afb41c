package pairing

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/verte-zerg/datamover/internal/generator"
)

type fixedInts []int

func (f *fixedInts) Intn(n int) int {
	v := (*f)[0]
	*f = (*f)[1:]
	return v % n
}

var pinPattern = regexp.MustCompile(`^\d{3}-\d{3}$`)

func TestNewSessionPINFormat(t *testing.T) {
	gen := generator.NewSeeded(11)
	for i := 0; i < 200; i++ {
		s := NewSession(gen)
		if !pinPattern.MatchString(s.PIN) {
			t.Fatalf("pin %q does not match DDD-DDD", s.PIN)
		}
		if s.State != AwaitingConnection {
			t.Fatalf("expected awaiting connection, got %v", s.State)
		}
		if _, err := uuid.Parse(s.ID); err != nil {
			t.Fatalf("session id %q is not a uuid: %v", s.ID, err)
		}
	}
}

func TestNewSessionZeroPadsGroups(t *testing.T) {
	ints := fixedInts{7, 42}
	s := NewSession(&ints)
	if s.PIN != "007-042" {
		t.Fatalf("expected 007-042, got %q", s.PIN)
	}
}

func TestNewSessionUniqueIDs(t *testing.T) {
	gen := generator.NewSeeded(1)
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewSession(gen).ID
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestCompleteTwiceFails(t *testing.T) {
	s := NewSession(generator.NewSeeded(5))
	paired, err := Complete(s)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if paired.State != Paired {
		t.Fatalf("expected paired, got %v", paired.State)
	}
	if s.State != AwaitingConnection {
		t.Fatalf("original session changed state")
	}
	if _, err := Complete(paired); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestSessionURL(t *testing.T) {
	s := Session{ID: "abc-123"}
	got := s.URL("")
	if got != DefaultBaseURL+"?session=abc-123" {
		t.Fatalf("unexpected url %q", got)
	}
	parsed, err := url.Parse(s.URL("http://localhost:8080/pair"))
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if parsed.Query().Get("session") != "abc-123" {
		t.Fatalf("session query missing: %s", parsed)
	}
}

func TestRenderQR(t *testing.T) {
	out, err := RenderQR(DefaultBaseURL + "?session=" + uuid.NewString())
	if err != nil {
		t.Fatalf("render qr: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 10 {
		t.Fatalf("expected a multi-line code, got %d lines", len(lines))
	}
	width := len([]rune(lines[0]))
	for i, line := range lines {
		if len([]rune(line)) != width {
			t.Fatalf("line %d has width %d, want %d", i, len([]rune(line)), width)
		}
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Fatalf("expected block characters in output")
	}
}
