package interact

import (
	"reflect"
	"testing"

	"github.com/matzehuels/schemagraph/pkg/graph"
)

func testEdges() []graph.Edge {
	return []graph.Edge{
		{ID: "e-0-A-to-B-owner", Source: "A", Target: "B"},
		{ID: "e-1-B-to-C", Source: "B", Target: "C"},
		{ID: "e-2-D-to-D", Source: "D", Target: "D"},
	}
}

func TestEnterNode(t *testing.T) {
	tests := []struct {
		node string
		want []string
	}{
		{"A", []string{"A", "B", "e-0-A-to-B-owner"}},
		{"B", []string{"A", "B", "C", "e-0-A-to-B-owner", "e-1-B-to-C"}},
		{"D", []string{"D", "e-2-D-to-D"}},
		{"lonely", []string{"lonely"}},
	}
	for _, tt := range tests {
		m := New(testEdges())
		m.EnterNode(tt.node)
		if got := m.Highlighted(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("EnterNode(%s) highlight = %v, want %v", tt.node, got, tt.want)
		}
		if m.State() != HoveringNode {
			t.Errorf("state = %v, want %v", m.State(), HoveringNode)
		}
	}
}

func TestEnterEdge(t *testing.T) {
	m := New(testEdges())
	m.EnterEdge("e-1-B-to-C")
	want := []string{"B", "C", "e-1-B-to-C"}
	if got := m.Highlighted(); !reflect.DeepEqual(got, want) {
		t.Errorf("highlight = %v, want %v", got, want)
	}
	if m.State() != HoveringEdge {
		t.Errorf("state = %v, want %v", m.State(), HoveringEdge)
	}

	m.LeaveEdge()
	if m.State() != Idle || len(m.Highlighted()) != 0 {
		t.Errorf("after leave: state = %v, highlight = %v", m.State(), m.Highlighted())
	}
}

func TestSelectionBlocksHover(t *testing.T) {
	m := New(testEdges())
	m.EnterNode("A")
	m.ClickNode("A")

	if len(m.Highlighted()) != 0 {
		t.Errorf("click did not clear highlight: %v", m.Highlighted())
	}
	if id, ok := m.Selected(); !ok || id != "A" {
		t.Errorf("Selected() = (%q, %v), want (A, true)", id, ok)
	}

	m.EnterNode("B")
	m.EnterEdge("e-1-B-to-C")
	m.LeaveNode()
	if m.State() != Selected || len(m.Highlighted()) != 0 {
		t.Errorf("hover changed selected machine: state = %v, highlight = %v", m.State(), m.Highlighted())
	}

	m.ClickNode("C")
	if id, _ := m.Selected(); id != "C" {
		t.Errorf("reselect: Selected() = %q, want C", id)
	}

	m.Close()
	if _, ok := m.Selected(); ok || m.State() != Idle {
		t.Errorf("after Close: state = %v", m.State())
	}

	m.EnterNode("B")
	if m.State() != HoveringNode {
		t.Errorf("hover after close: state = %v, want %v", m.State(), HoveringNode)
	}
}

func TestCloseWhenIdle(t *testing.T) {
	m := New(testEdges())
	m.EnterNode("A")
	m.Close()
	if m.State() != HoveringNode {
		t.Errorf("Close() changed non-selected state to %v", m.State())
	}
}

func TestSetEdgesResets(t *testing.T) {
	m := New(testEdges())
	m.ClickNode("A")
	m.SetEdges([]graph.Edge{{ID: "x", Source: "A", Target: "Q"}})
	if m.State() != Idle {
		t.Errorf("state = %v, want idle", m.State())
	}
	m.EnterNode("A")
	want := []string{"A", "Q", "x"}
	if got := m.Highlighted(); !reflect.DeepEqual(got, want) {
		t.Errorf("highlight = %v, want %v", got, want)
	}
}

func TestHighlightedIsCopy(t *testing.T) {
	m := New(testEdges())
	m.EnterNode("A")
	got := m.Highlighted()
	got[0] = "mutated"
	if m.Highlighted()[0] == "mutated" {
		t.Error("Highlighted() exposes internal state")
	}
	set := m.HighlightSet()
	delete(set, "A")
	if !m.HighlightSet()["A"] {
		t.Error("HighlightSet() exposes internal state")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", HoveringNode: "hovering-node", HoveringEdge: "hovering-edge", Selected: "selected", State(9): "unknown"} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
