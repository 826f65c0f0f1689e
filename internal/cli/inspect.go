package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/core/radar/primitive"
	"github.com/matzehuels/polaris/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags optionFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [radar.yaml]",
		Short: "Browse the computed placement of every entity",
		Long: `Browse the computed placement of every entity.

Shows each entity's dimension, stage, angle and radius in a scrollable
table. With --plain, or when stdout is not a terminal, the table is printed
once instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], opts, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table without the interactive view")
	flags.register(cmd, false)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, plain bool) error {
	doc, err := pipeline.Load(input)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	res, err := pipeline.NewRunner(nil, nil, c.Logger).Layout(ctx, doc, opts)
	if err != nil {
		return err
	}

	m := NewEntityTableModel(res.Layout)
	if plain || !isTerminal() {
		m.Height = len(m.Rows)
		fmt.Println(m.View())
		return nil
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// EntityTableModel - Scrollable entity placement table
// =============================================================================

// EntityTableModel is the bubbletea model for browsing entity placements.
type EntityTableModel struct {
	Title  string
	Rows   [][]string
	Cursor int
	Height int
	Offset int

	rings []int // ring index of each row, for shading the stage column
}

// NewEntityTableModel builds the rows from l, in layout order.
func NewEntityTableModel(l *layout.Layout) EntityTableModel {
	m := EntityTableModel{
		Title:  fmt.Sprintf("%d entities · %d dimensions · %d rings", len(l.Entities), len(l.Dimensions), len(l.Rings)),
		Height: 15,
	}
	dimNames := make(map[string]string, len(l.Dimensions))
	for _, d := range l.Dimensions {
		dimNames[d.ID] = d.Name
	}
	ringIndex := make(map[string]int, len(l.Rings))
	for i, r := range l.Rings {
		ringIndex[r.StageID] = i
	}
	for _, e := range l.Entities {
		stage := e.StageID
		if r, ok := l.Ring(e.StageID); ok {
			stage = r.Name
		}
		m.rings = append(m.rings, ringIndex[e.StageID])
		side := "right"
		if primitive.Mirrored(e.Angle) {
			side = "left"
		}
		m.Rows = append(m.Rows, []string{
			e.Name,
			dimNames[e.DimensionID],
			stage,
			strconv.FormatFloat(e.Angle, 'f', 2, 64),
			strconv.FormatFloat(e.Radius, 'f', 2, 64),
			side,
		})
	}
	return m
}

func (m EntityTableModel) Init() tea.Cmd {
	return nil
}

func (m EntityTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
			m.Offset = max(len(m.Rows)-m.Height, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m EntityTableModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Radar Entities"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	visible := m.Rows[m.Offset:end]

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Entity", "Dimension", "Stage", "Angle", "Radius", "Label").
		Rows(visible...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			var base lipgloss.Style
			switch col {
			case 0:
				base = styleEntity
			case 1:
				base = styleDimension
			case 2:
				base = ringStyle(m.rings[m.Offset+row])
			default:
				base = lipgloss.NewStyle().Foreground(colorGray).Align(lipgloss.Right)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Rows) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	}
	return b.String()
}
