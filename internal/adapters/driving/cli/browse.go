package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse entries interactively",
	Long: `Browse recent entries in an interactive table.

Controls:
  ↑/k, ↓/j - Move selection
  Enter    - Show the selected entry
  q        - Quit`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVarP(&browseLimit, "limit", "n", 100, "maximum number of entries to load")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	entries, err := entryService.ListRecent(context.Background(), browseLimit)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No entries to browse.")
		return nil
	}

	model := newBrowseModel(entries)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("browse error: %w", err)
	}

	// Print the selection after leaving the alt screen.
	if m, ok := final.(browseModel); ok && m.selected != nil {
		printEntry(cmd, m.selected)
	}
	return nil
}

// ==================== Browse Model ====================

var browseHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

type browseModel struct {
	table    table.Model
	entries  []domain.Entry
	selected *domain.Entry
}

func newBrowseModel(entries []domain.Entry) browseModel {
	rows := make([]table.Row, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", e.ID),
			e.ServiceDate.Format(domain.DateFormat),
			e.Plate,
			e.ServiceType,
			e.Technician,
			domain.FormatHours(e.Hours),
		})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Date", Width: 12},
			{Title: "Plate", Width: 10},
			{Title: "Service", Width: 22},
			{Title: "Technician", Width: 18},
			{Title: "Hours", Width: 7},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return browseModel{table: t, entries: entries}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.entries) {
				m.selected = &m.entries[cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 4)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	return browseHeaderStyle.Render("Service Entries") + "\n" + m.table.View() + "\n  q quit · enter select\n"
}
