package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	setio "github.com/matzehuels/scenegen/pkg/io"
	"github.com/matzehuels/scenegen/pkg/pipeline"
	"github.com/matzehuels/scenegen/pkg/placement"
)

// Map dimensions in terminal cells. Cells are about twice as tall as wide,
// so the map uses twice as many columns as rows.
const (
	mapRows = 21
	mapCols = 2 * mapRows
)

const mapMargin = 0.15

var (
	inspectDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	inspectCurrentStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	inspectBorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <set.json>",
		Short: "Step through a placement set in the terminal",
		Long: `Inspect replays the insertion order of a set on a top-down map. Each step
adds one item; the table shows its kind, size, shrink factor and the earlier
item that bound it. Use - to read the set from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := setio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if set.Len() == 0 {
				printInfo("%s holds no items", args[0])
				return nil
			}
			p := tea.NewProgram(NewInspectModel(set), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// InspectModel - Insertion order replay
// =============================================================================

// InspectModel is the bubbletea model of the inspect command. Step is the
// number of items shown, from 1 to the set length.
type InspectModel struct {
	Set         *placement.Set
	Step        int
	constraints []placement.Constraint
	colors      []lipgloss.Style
}

// NewInspectModel returns a model showing the first item of set.
func NewInspectModel(set *placement.Set) InspectModel {
	palette := pipeline.Palette(set)
	colors := make([]lipgloss.Style, len(palette))
	for i, col := range palette {
		colors[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex()))
	}
	return InspectModel{
		Set:         set,
		Step:        1,
		constraints: placement.Constraints(set),
		colors:      colors,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", " ":
			if m.Step < m.Set.Len() {
				m.Step++
			}
		case "left", "h", "p":
			if m.Step > 1 {
				m.Step--
			}
		case "home", "g":
			m.Step = 1
		case "end", "G":
			m.Step = m.Set.Len()
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Placement step %d/%d", m.Step, m.Set.Len())))
	b.WriteString("\n")
	b.WriteString(inspectDimStyle.Render("←/→ step  g/G first/last  q quit"))
	b.WriteString("\n\n")

	b.WriteString(inspectBorderStyle.Render(m.renderMap()))
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(inspectDimStyle.Render(fmt.Sprintf("  %d attempts · %d lopsided · %d too close",
		m.Set.Attempts, m.Set.Rejections.Lopsided, m.Set.Rejections.TooClose)))
	b.WriteString("\n")
	return b.String()
}

func (m InspectModel) renderMap() string {
	grid := footprintGrid(m.Set, m.Step, mapCols, mapRows)
	current := m.Step - 1

	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteString("\n")
		}
		for _, owner := range row {
			switch {
			case owner < 0:
				b.WriteString(inspectDimStyle.Render("·"))
			case owner == current:
				b.WriteString(inspectCurrentStyle.Inherit(m.colors[owner]).Render(itemGlyph(owner)))
			default:
				b.WriteString(m.colors[owner].Render(itemGlyph(owner)))
			}
		}
	}
	return b.String()
}

func (m InspectModel) renderTable() string {
	rows := make([][]string, 0, m.Step)
	for i := 0; i < m.Step; i++ {
		it := m.Set.Items[i]
		bound := "-"
		if i > 0 && m.constraints[i-1].Binding >= 0 {
			bound = fmt.Sprintf("obj%d", m.constraints[i-1].Binding)
		}
		rows = append(rows, []string{
			itemGlyph(i),
			fmt.Sprintf("obj%d", i),
			it.Kind.String(),
			fmt.Sprintf("%.2f × %.2f × %.2f", 2*it.HalfExtents.X, 2*it.HalfExtents.Y, 2*it.HalfExtents.Z),
			fmt.Sprintf("(%+.2f, %+.2f)", it.Center.X, it.Center.Y),
			fmt.Sprintf("%.3f", it.Scale),
			bound,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(inspectDimStyle).
		Headers("", "Name", "Kind", "Size", "Center", "Scale", "Bound by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Step-1:
				return lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		})
	return t.Render()
}

// footprintGrid rasterises the first upto items of set onto a cols × rows
// grid covering the sampling square plus a margin. Each cell holds the index
// of the last item covering its centre, or -1.
func footprintGrid(set *placement.Set, upto, cols, rows int) [][]int {
	half := set.Options.WithDefaults().Extent * (1 + mapMargin)
	if upto > set.Len() {
		upto = set.Len()
	}

	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
		y := half - (float64(r)+0.5)*2*half/float64(rows)
		for col := range grid[r] {
			x := -half + (float64(col)+0.5)*2*half/float64(cols)
			grid[r][col] = -1
			for i := 0; i < upto; i++ {
				if covers(set.Items[i], x, y) {
					grid[r][col] = i
				}
			}
		}
	}
	return grid
}

func covers(it placement.Item, x, y float64) bool {
	dx, dy := x-it.Center.X, y-it.Center.Y
	if it.Kind == placement.Sphere {
		return (dx*dx)/(it.HalfExtents.X*it.HalfExtents.X)+(dy*dy)/(it.HalfExtents.Y*it.HalfExtents.Y) <= 1
	}
	return math.Abs(dx) <= it.HalfExtents.X && math.Abs(dy) <= it.HalfExtents.Y
}

// itemGlyph labels item i on the map: 0-9, then a-z, then A-Z.
func itemGlyph(i int) string {
	const glyphs = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return string(glyphs[i%len(glyphs)])
}
