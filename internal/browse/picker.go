package browse

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source is what the browser shows.
type Source int

const (
	SourceStored Source = iota
	SourceLive
	SourceQuit Source = -1
)

var sourceLabels = []string{
	"Stored records (pending / delivered)",
	"Live listing page (all / not yet stored)",
}

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

type pickerModel struct {
	cursor int
	chosen Source
	done   bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.chosen = SourceQuit
			m.done = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(sourceLabels)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = Source(m.cursor)
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("vagasbot: what do you want to browse?")
	s += "\n"

	for i, label := range sourceLabels {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunSourcePicker asks which records to browse. Returns SourceQuit if the
// user quit.
func RunSourcePicker() (Source, error) {
	p := tea.NewProgram(pickerModel{chosen: SourceQuit})
	result, err := p.Run()
	if err != nil {
		return SourceQuit, err
	}
	return result.(pickerModel).chosen, nil
}
