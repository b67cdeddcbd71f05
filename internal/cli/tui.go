package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Preset is a named bundling configuration selectable in interactive mode.
type Preset struct {
	Name        string
	Description string
	Apply       func(*pipeline.Options)
}

// presets returns the built-in parameter presets, mildest to strongest.
func presets() []Preset {
	return []Preset{
		{
			Name:        "default",
			Description: "balanced bundling, the standard parameters",
			Apply:       func(o *pipeline.Options) {},
		},
		{
			Name:        "subtle",
			Description: "gentle curves, edges keep most of their shape",
			Apply: func(o *pipeline.Options) {
				o.K = 0.5
				o.Threshold = 0.8
			},
		},
		{
			Name:        "aggressive",
			Description: "strong attraction, pronounced bundles",
			Apply: func(o *pipeline.Options) {
				o.K = 0.05
				o.Electrostatic = 2.0
				o.Threshold = 0.4
			},
		},
		{
			Name:        "fast",
			Description: "fewer cycles and iterations, quick preview quality",
			Apply: func(o *pipeline.Options) {
				o.Cycles = 4
				o.Iterations = 40
			},
		},
		{
			Name:        "fine",
			Description: "extra subdivision cycle for smooth, detailed paths",
			Apply: func(o *pipeline.Options) {
				o.Cycles = 7
				o.Iterations = 120
			},
		},
	}
}

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Presets  []Preset
	Cursor   int
	Selected *Preset
}

// NewPresetListModel creates a new preset list model.
func NewPresetListModel(presets []Preset) PresetListModel {
	return PresetListModel{Presets: presets}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Presets)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Presets[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Bundling Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.Presets {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-12s %s", cursor, p.Name, listDimStyle.Render(p.Description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Presets))))

	return b.String()
}

// selectPreset runs the interactive preset picker and applies the chosen
// preset to opts. Returns false if the user quit without selecting.
func selectPreset(opts *pipeline.Options) (bool, error) {
	model := NewPresetListModel(presets())
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return false, err
	}
	result, ok := final.(PresetListModel)
	if !ok || result.Selected == nil {
		return false, nil
	}
	result.Selected.Apply(opts)
	return true, nil
}
