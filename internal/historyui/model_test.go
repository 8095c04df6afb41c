package historyui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/datamover/internal/model"
	"github.com/verte-zerg/datamover/internal/store"
)

func newSeededModel(t *testing.T) *Model {
	t.Helper()
	return newSeededModelWith(t, model.HistoryFilter{})
}

func newSeededModelWith(t *testing.T, initial model.HistoryFilter) *Model {
	t.Helper()
	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	if err := st.SeedDemo(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewModel(st, initial)
}

func pressRune(m *Model, r rune) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestFilterCycles(t *testing.T) {
	m := newSeededModel(t)
	if m.Filter() != "" || len(m.Records()) != 4 {
		t.Fatalf("expected all 4 records, got %d (%q)", len(m.Records()), m.Filter())
	}

	pressRune(m, 'f')
	if m.Filter() != model.StatusCompleted || len(m.Records()) != 3 {
		t.Fatalf("expected 3 completed, got %d (%q)", len(m.Records()), m.Filter())
	}

	pressRune(m, 'f')
	if m.Filter() != model.StatusFailed || len(m.Records()) != 1 {
		t.Fatalf("expected 1 failed, got %d (%q)", len(m.Records()), m.Filter())
	}
	if m.Records()[0].Ref != "txn_demo_2" {
		t.Fatalf("unexpected failed record %+v", m.Records()[0])
	}

	pressRune(m, 'f')
	if m.Filter() != "" {
		t.Fatalf("expected filter to wrap to all, got %q", m.Filter())
	}
}

func TestViewShowsSummaryAndRows(t *testing.T) {
	m := newSeededModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()
	for _, want := range []string{"Transfer History", "Filter: all", "Transfers", "txn_demo_1", "75%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEmptyHistory(t *testing.T) {
	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	m := NewModel(st, model.HistoryFilter{})
	if !strings.Contains(m.View(), "No transfers found.") {
		t.Fatalf("expected empty message")
	}
}

func TestQuitKey(t *testing.T) {
	m := newSeededModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestInitialFilterAndLimit(t *testing.T) {
	m := newSeededModelWith(t, model.HistoryFilter{Status: model.StatusCompleted, Limit: 2})
	if m.Filter() != model.StatusCompleted {
		t.Fatalf("expected completed filter, got %q", m.Filter())
	}
	recs := m.Records()
	if len(recs) != 2 || recs[0].Ref != "txn_demo_1" || recs[1].Ref != "txn_demo_3" {
		t.Fatalf("unexpected records %+v", recs)
	}
	if !strings.Contains(m.View(), "Filter: completed  last=2") {
		t.Fatalf("view missing filter summary")
	}

	pressRune(m, 'f')
	if m.Filter() != model.StatusFailed || len(m.Records()) != 1 {
		t.Fatalf("expected failed filter with 1 record, got %q / %d", m.Filter(), len(m.Records()))
	}
}
