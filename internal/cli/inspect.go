package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/parser"
	"github.com/diaglot/diaglot/pkg/pipeline"
	"github.com/diaglot/diaglot/pkg/token"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command: an interactive view of
// what the compiler front end made of a source file.
func (c *CLI) inspectCommand() *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Interactively browse tokens, document and diagnostics",
		Long: `Inspect the compile front end's view of a diagram.

Opens an interactive browser with one tab per stage: the token
stream, the parsed document tree, the expanded edge list and any
parse diagnostics. Useful when a diagram doesn't parse the way you
expected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], dialect)
		},
	}

	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "force dialect (native, plantuml, mermaid)")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input, dialect string) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	opts := pipeline.Options{Source: source, Dialect: dialect, Logger: c.Logger}
	doc, diags, err := pipeline.Parse(cmd.Context(), opts)
	if err != nil {
		return err
	}

	toks := token.Tokenize(source)
	model := newInspectModel(input, toks, doc, diags)
	_, err = tea.NewProgram(model).Run()
	return err
}

// =============================================================================
// InspectModel - Tabbed stage browser
// =============================================================================

var inspectTabs = []string{"Tokens", "Document", "Edges", "Diagnostics"}

// InspectModel is the bubbletea model for the inspect command. Each
// tab is a pre-rendered line list; the model only tracks the active
// tab and scroll offset.
type InspectModel struct {
	Source string
	Tabs   [][]string
	Tab    int
	Offset int
	Height int
}

func newInspectModel(source string, toks []token.Token, doc *ast.Document, diags []parser.Diagnostic) InspectModel {
	return InspectModel{
		Source: source,
		Tabs: [][]string{
			tokenLines(toks),
			documentLines(doc),
			edgeLines(doc),
			diagnosticLines(diags),
		},
		Height: 20,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Tab = (m.Tab + 1) % len(m.Tabs)
			m.Offset = 0
		case "shift+tab", "left", "h":
			m.Tab = (m.Tab + len(m.Tabs) - 1) % len(m.Tabs)
			m.Offset = 0
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			if m.Offset < len(m.Tabs[m.Tab])-1 {
				m.Offset++
			}
		case "g":
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect " + m.Source))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab/←/→ switch  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")

	for i, name := range inspectTabs {
		label := fmt.Sprintf(" %s (%d) ", name, len(m.Tabs[i]))
		if i == m.Tab {
			b.WriteString(listSelectedStyle.Render(label))
		} else {
			b.WriteString(listDimStyle.Render(label))
		}
	}
	b.WriteString("\n\n")

	lines := m.Tabs[m.Tab]
	end := m.Offset + m.Height
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[m.Offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(lines) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, end, len(lines))))

	return b.String()
}

// =============================================================================
// Tab Content
// =============================================================================

func tokenLines(toks []token.Token) []string {
	lines := make([]string, 0, len(toks))
	for _, t := range toks {
		text := t.Text
		if t.Kind == token.KindNewline {
			text = `\n`
		}
		lines = append(lines, fmt.Sprintf("  %s %-10s %q",
			listDimStyle.Render(fmt.Sprintf("%3d:%-3d", t.Line, t.Col)),
			t.Kind.String(), text))
	}
	return lines
}

func documentLines(doc *ast.Document) []string {
	var lines []string
	lines = append(lines, "  archetype: "+StyleHighlight.Render(doc.Archetype.String()))
	for k, v := range doc.Metadata {
		if v.IsFlag() {
			lines = append(lines, fmt.Sprintf("  meta %s = true", k))
		} else {
			lines = append(lines, fmt.Sprintf("  meta %s = %q", k, v.Text))
		}
	}
	var walk func(blocks []ast.Block, depth int)
	walk = func(blocks []ast.Block, depth int) {
		indent := strings.Repeat("  ", depth+1)
		for _, b := range blocks {
			switch blk := b.(type) {
			case *ast.Group:
				lines = append(lines, indent+StyleHighlight.Render("group ")+blk.Name)
				walk(blk.Children, depth+1)
			case *ast.Entity:
				line := indent + "entity " + blk.ID
				if len(blk.Fields) > 0 {
					line += listDimStyle.Render(fmt.Sprintf(" (%d fields)", len(blk.Fields)))
				}
				lines = append(lines, line)
			}
		}
	}
	walk(doc.Roots, 0)
	return lines
}

func edgeLines(doc *ast.Document) []string {
	lines := make([]string, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		line := fmt.Sprintf("  %s %s %s", e.From, arrowFor(e.Kind), e.To)
		if e.Label != "" {
			line += listDimStyle.Render(" : " + e.Label)
		}
		lines = append(lines, line)
	}
	return lines
}

func arrowFor(k ast.EdgeKind) string {
	switch k {
	case ast.EdgeUndirected:
		return "-"
	case ast.EdgeBidirectional:
		return "<>"
	default:
		return "->"
	}
}

func diagnosticLines(diags []parser.Diagnostic) []string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, "  "+StyleWarning.Render(d.String()))
	}
	return lines
}
