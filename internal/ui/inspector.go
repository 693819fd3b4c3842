// Package ui renders captured evaluation traces. The inspector is a Bubble
// Tea program browsing one reduced tree log: a node table on top, details
// of the selected node underneath.
package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"geotrace/internal/geolog"
	"geotrace/internal/graph"
	"geotrace/internal/snapshot"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	borderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// nodeRow is the precomputed display data for one node.
type nodeRow struct {
	id       int32
	label    string
	duration time.Duration
	warnings []geolog.NodeWarning
	values   []string
	usages   []string
	debug    []string
	gizmo    bool
	viewer   bool
}

// Inspector is the Bubble Tea model browsing one tree log.
type Inspector struct {
	title string
	table table.Model
	rows  []nodeRow
	width int
}

// NewInspector reduces the log and prepares the browser. tree may be nil;
// node labels then fall back to ids.
func NewInspector(title string, tree *graph.Tree, log *geolog.TreeLog) *Inspector {
	log.EnsureNodeWarnings(tree)
	log.EnsureExecutionTimes()
	log.EnsureSocketValues()
	log.EnsureViewerNodeLogs()
	log.EnsureUsedNamedAttributes()
	log.EnsureDebugMessages()
	log.EnsureEvaluatedGizmoNodes()

	rows := buildRows(tree, log)

	columns := []table.Column{
		{Title: "Node", Width: 24},
		{Title: "Time", Width: 10},
		{Title: "Warnings", Width: 10},
		{Title: "Values", Width: 8},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{
			runewidth.Truncate(r.displayName(), 24, "…"),
			formatDuration(r.duration),
			fmt.Sprintf("%d", len(r.warnings)),
			fmt.Sprintf("%d", len(r.values)),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	t.SetStyles(styles)

	return &Inspector{title: title, table: t, rows: rows, width: 80}
}

func buildRows(tree *graph.Tree, log *geolog.TreeLog) []nodeRow {
	ids := make([]int32, 0, len(log.Nodes))
	for id := range log.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]nodeRow, 0, len(ids))
	for _, id := range ids {
		n := log.Nodes[id]
		r := nodeRow{
			id:       id,
			duration: n.ExecutionTime,
			warnings: n.Warnings.Slice(),
			debug:    n.DebugMessages,
		}
		if tree != nil {
			if node := tree.Node(id); node != nil {
				r.label = node.Label
			}
		}
		_, r.gizmo = log.EvaluatedGizmoNodes[id]
		_, r.viewer = log.ViewerNodeLogs[id]

		for _, output := range []bool{false, true} {
			values := n.InputValues
			dir := "in"
			if output {
				values = n.OutputValues
				dir = "out"
			}
			idx := make([]int, 0, len(values))
			for i := range values {
				idx = append(idx, i)
			}
			sort.Ints(idx)
			for _, i := range idx {
				r.values = append(r.values, fmt.Sprintf("%s[%d] %s", dir, i, snapshot.RenderValue(values[i])))
			}
		}

		names := make([]string, 0, len(n.UsedNamedAttributes))
		for name := range n.UsedNamedAttributes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			r.usages = append(r.usages, fmt.Sprintf("%s: %s", name, n.UsedNamedAttributes[name]))
		}
		rows = append(rows, r)
	}
	return rows
}

func (r nodeRow) displayName() string {
	if r.label != "" {
		return fmt.Sprintf("%s (%d)", r.label, r.id)
	}
	return fmt.Sprintf("node %d", r.id)
}

func (m *Inspector) Init() tea.Cmd {
	return nil
}

func (m *Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Inspector) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString(dimStyle.Render("\n↑/↓ select node · q quit\n"))
	return b.String()
}

func (m *Inspector) detailView() string {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return dimStyle.Render("no nodes logged")
	}
	r := m.rows[cursor]

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", titleStyle.Render(r.displayName()), formatDuration(r.duration))
	if r.viewer {
		b.WriteString(infoStyle.Render("  [viewer]"))
	}
	if r.gizmo {
		b.WriteString(infoStyle.Render("  [gizmo]"))
	}
	b.WriteString("\n")

	for _, w := range r.warnings {
		style := infoStyle
		switch w.Type {
		case geolog.WarningError:
			style = errorStyle
		case geolog.WarningWarn:
			style = warnStyle
		}
		fmt.Fprintf(&b, "  %s %s\n", style.Render(w.Type.String()), truncateTo(w.Message, m.width-12))
	}
	for _, v := range r.values {
		fmt.Fprintf(&b, "  %s\n", truncateTo(v, m.width-4))
	}
	for _, u := range r.usages {
		fmt.Fprintf(&b, "  attr %s\n", u)
	}
	for _, d := range r.debug {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(truncateTo(d, m.width-4)))
	}
	return b.String()
}

func truncateTo(s string, width int) string {
	if width < 8 {
		width = 8
	}
	return runewidth.Truncate(s, width, "…")
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.String()
}
