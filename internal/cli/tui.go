package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/interact"
	"github.com/matzehuels/schemagraph/pkg/view"
)

// =============================================================================
// Messages
// =============================================================================

// reloadMsg carries a freshly computed graph, e.g. after the watched dataset
// changed on disk.
type reloadMsg struct {
	graph graph.Graph
}

// reloadErrMsg reports a failed reload. The previous graph stays on screen.
type reloadErrMsg struct {
	err error
}

// =============================================================================
// ExplorerModel - Interactive schema graph
// =============================================================================

// ExplorerModel is the bubbletea model of the explore command. Moving the
// cursor hovers a node, enter selects it and tab hovers its edges in turn.
type ExplorerModel struct {
	title    string
	view     *view.Model
	handlers view.Handlers

	order     []string        // node ids in layout order
	collapsed map[string]bool // card state, local to the explorer
	cursor    int
	edgeIdx   int // index into the cursor node's edges, -1 when none is hovered
	offset    int
	height    int // cards that fit on screen
	status    string
}

// NewExplorerModel creates an explorer over a positioned graph.
func NewExplorerModel(title string, g graph.Graph) ExplorerModel {
	vm := view.NewModel(g.Nodes, g.Edges)
	m := ExplorerModel{
		title:     title,
		view:      vm,
		handlers:  vm.Handlers(),
		collapsed: map[string]bool{},
		edgeIdx:   -1,
		height:    4,
	}
	m.order = layoutOrder(g.Nodes)
	m.hoverCursor()
	return m
}

// layoutOrder sorts node ids by rank position, then by position within the
// rank, so the cursor walks the graph the way it is drawn.
func layoutOrder(nodes []graph.Node) []string {
	sorted := make([]graph.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Position, sorted[j].Position
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	ids := make([]string, len(sorted))
	for i, n := range sorted {
		ids[i] = n.ID
	}
	return ids
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if _, ok := m.view.Machine().Selected(); ok {
				m.handlers.OnPaneClick()
				m.hoverCursor()
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			if id, ok := m.current(); ok {
				m.handlers.OnNodeClick(id)
			}
		case "c", " ":
			if id, ok := m.current(); ok {
				m.collapsed[id] = !m.isCollapsed(id)
			}
		case "tab":
			m.cycleEdge(1)
		case "shift+tab":
			m.cycleEdge(-1)
		}
	case tea.WindowSizeMsg:
		m.height = (msg.Height - 4) / 9
		if m.height < 1 {
			m.height = 1
		}
		m.scroll()
	case reloadMsg:
		m.view.Reset(msg.graph.Nodes, msg.graph.Edges)
		m.order = layoutOrder(msg.graph.Nodes)
		if m.cursor >= len(m.order) {
			m.cursor = max(len(m.order)-1, 0)
		}
		m.edgeIdx = -1
		m.status = fmt.Sprintf("reloaded: %d nodes, %d edges", len(msg.graph.Nodes), len(msg.graph.Edges))
		m.hoverCursor()
		m.scroll()
	case reloadErrMsg:
		m.status = "reload failed: " + msg.err.Error()
	}
	return m, nil
}

func (m *ExplorerModel) current() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.order) {
		return "", false
	}
	return m.order[m.cursor], true
}

// isCollapsed reports a card's state. Cards start collapsed.
func (m *ExplorerModel) isCollapsed(id string) bool {
	c, ok := m.collapsed[id]
	return !ok || c
}

func (m *ExplorerModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.order) {
		return
	}
	m.cursor = next
	m.edgeIdx = -1
	m.hoverCursor()
	m.scroll()
}

// hoverCursor moves the pointer onto the cursor node.
func (m *ExplorerModel) hoverCursor() {
	if m.view.Machine().State() == interact.HoveringEdge {
		m.handlers.OnEdgeHoverLeave()
	} else {
		m.handlers.OnNodeHoverLeave()
	}
	if id, ok := m.current(); ok {
		m.handlers.OnNodeHoverEnter(id)
	}
}

// cursorEdges returns the edges attached to the cursor node, in edge order.
func (m *ExplorerModel) cursorEdges() []graph.Edge {
	id, ok := m.current()
	if !ok {
		return nil
	}
	var out []graph.Edge
	for _, e := range m.view.Store().Edges() {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

func (m *ExplorerModel) cycleEdge(delta int) {
	edges := m.cursorEdges()
	if len(edges) == 0 {
		return
	}
	m.edgeIdx = (m.edgeIdx + delta + len(edges) + 1) % (len(edges) + 1)
	if m.edgeIdx == len(edges) {
		m.edgeIdx = -1
		m.hoverCursor()
		return
	}
	m.handlers.OnNodeHoverLeave()
	m.handlers.OnEdgeHoverEnter(edges[m.edgeIdx].ID)
}

func (m *ExplorerModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m ExplorerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ⏎ select  c collapse  tab edges  esc close  q quit"))
	b.WriteString("\n\n")

	payload := m.view.Payload()
	byID := make(map[string]view.Node, len(payload.Nodes))
	for _, n := range payload.Nodes {
		byID[n.ID] = n
	}

	end := min(m.offset+m.height, len(m.order))
	cards := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		id := m.order[i]
		cards = append(cards, renderCard(byID[id], m.isCollapsed(id), i == m.cursor))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, cards...)

	if sel, ok := m.view.Machine().Selected(); ok {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", renderDetails(byID[sel])))
	} else {
		b.WriteString(left)
	}
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m ExplorerModel) footer() string {
	parts := []string{
		fmt.Sprintf("[%d/%d]", min(m.cursor+1, len(m.order)), len(m.order)),
		m.view.Machine().State().String(),
	}
	if edges := m.cursorEdges(); m.edgeIdx >= 0 && m.edgeIdx < len(edges) {
		e := edges[m.edgeIdx]
		parts = append(parts, fmt.Sprintf("%s —%s→ %s", e.Source, e.Label, e.Target))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return StyleDim.Render(strings.Join(parts, "  "))
}
