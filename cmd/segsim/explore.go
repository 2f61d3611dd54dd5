package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/segviz/segmentation/render"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4B4B")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

func init() {
	rootCmd.AddCommand(newExploreCmd())
}

func newExploreCmd() *cobra.Command {
	var options simulationOptions

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Interactively re-place segments and watch the layout change",
		Long: `The explore command opens an interactive view of main memory. Press r to
place the same segments again at new random addresses, and q to quit.

Example:
  segsim explore --memory 4000 --count 6 --size 400`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Seed = seedFlag(cmd)

			sim, err := newSimulation(newLogger(cmd.ErrOrStderr()), options)
			if err != nil {
				return err
			}

			model := newExploreModel(sim)
			_, err = tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&options.Memory, "memory", "m", 1000, "Main memory size in bytes")
	cmd.Flags().IntVarP(&options.Count, "count", "n", 3, "Number of equally sized segments to create")
	cmd.Flags().IntVarP(&options.Size, "size", "s", 200, "Size in bytes of each segment created with --count")
	cmd.Flags().StringArrayVar(&options.Segments, "segment", nil, "A segment as name=size; repeat for more (overrides --count)")

	return cmd
}

type exploreModel struct {
	sim   *simulation
	width int
	err   error
}

func newExploreModel(sim *simulation) exploreModel {
	m := exploreModel{sim: sim, width: 80}
	m.err = sim.place()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r", " ", "enter":
			m.err = m.sim.place()
		}
	}

	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Main Memory: %d bytes", m.sim.memory)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.sim.layout != nil {
		barWidth := m.width - 4
		b.WriteString(render.Bar(m.sim.layout, barWidth))
		b.WriteString("\n\n")
		b.WriteString(render.Table(m.sim.table))
		b.WriteString("\n\n")
		b.WriteString(render.Regions(m.sim.layout))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("placement #%d  •  r: place again  •  q: quit", m.sim.runs)))
	b.WriteString("\n")

	return b.String()
}
