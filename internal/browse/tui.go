package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devparana/vagasbot/internal/model"
)

const dateLayout = "02/01/2006 15:04"

// Lines per record in the list view (title + subtitle + blank separator).
const recordItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	recordTitleStyle = lipgloss.NewStyle().
				Bold(true)

	recordSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// Pane is one titled column of records.
type Pane struct {
	Title   string
	Records []model.JobRecord
}

type browseModel struct {
	panes      [2]Pane
	viewports  [2]viewport.Model
	cursors    [2]int
	activePane int
	width      int
	height     int
	ready      bool

	view           viewState
	detailRecord   model.JobRecord
	detailViewport viewport.Model

	// openURL is swapped in tests.
	openURL func(string)

	wantQuit bool
}

func newBrowseModel(left, right Pane) browseModel {
	sortNewestFirst(left.Records)
	sortNewestFirst(right.Records)
	return browseModel{
		panes:   [2]Pane{left, right},
		openURL: openURL,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	var cmd tea.Cmd
	m.viewports[m.activePane], cmd = m.viewports[m.activePane].Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if m.detailRecord.URL != "" {
			m.openURL(m.detailRecord.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	p := m.activePane
	m.cursors[p] = clamp(m.cursors[p]+delta, 0, max(len(m.panes[p].Records)-1, 0))
}

func (m *browseModel) ensureCursorVisible() {
	vp := &m.viewports[m.activePane]
	cursorTop := m.cursors[m.activePane] * recordItemHeight
	cursorBottom := cursorTop + recordItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	records := m.panes[m.activePane].Records
	if len(records) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailRecord = records[m.cursors[m.activePane]]
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header + border top/bottom + status bar.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.viewports[0] = viewport.New(paneWidth, paneHeight)
		m.viewports[1] = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		for i := range m.viewports {
			m.viewports[i].Width = paneWidth
			m.viewports[i].Height = paneHeight
		}
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	for i := range m.viewports {
		m.viewports[i].SetContent(renderRecords(m.panes[i].Records, m.cursors[i], m.activePane == i))
	}
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.viewports[0].Width

	var headers, panes [2]string
	for i, p := range m.panes {
		header := fmt.Sprintf(" %s (%d)", p.Title, len(p.Records))
		border := inactiveBorderStyle
		headerSt := inactiveHeaderStyle
		if i == m.activePane {
			border = activeBorderStyle
			headerSt = activeHeaderStyle
		}
		headers[i] = lipgloss.NewStyle().Width(paneWidth + 2).Render(headerSt.Render(header))
		panes[i] = border.Width(paneWidth).Render(m.viewports[i].View())
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headers[0], " ", headers[1])
	paneRow := lipgloss.JoinHorizontal(lipgloss.Top, panes[0], " ", panes[1])

	statusText := fmt.Sprintf(" %d %s | %d %s    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		len(m.panes[0].Records), strings.ToLower(m.panes[0].Title),
		len(m.panes[1].Records), strings.ToLower(m.panes[1].Title))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + paneRow + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	r := m.detailRecord
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", r.Title)
	addField("Company", r.Company)
	addField("City", r.City)
	addField("ID", r.ID)
	if len(r.Labels) > 0 {
		addField("Labels", strings.Join(r.Labels, ", "))
	}

	b.WriteByte('\n')
	addField("Posted At", r.PostedAt().Format(dateLayout))
	addField("Status", deliveryStatus(r))

	b.WriteByte('\n')
	addField("URL", r.URL)

	if r.Description != "" {
		wrapWidth := max(m.width-8, 20)
		label := "── Description "
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		b.WriteByte('\n')
		b.WriteString(descDividerStyle.Render(label+fill) + "\n\n")
		b.WriteString(descBodyStyle.Render(wordWrap(r.Description, wrapWidth)) + "\n")
	}

	return b.String()
}

func deliveryStatus(r model.JobRecord) string {
	if !r.BotProcessed {
		return "pending"
	}
	if r.BotProcessedDate == nil {
		return "sent"
	}
	return "sent " + time.Unix(*r.BotProcessedDate, 0).Format(dateLayout)
}

func renderRecords(records []model.JobRecord, cursor int, isActive bool) string {
	if len(records) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, r := range records {
		titleSt := recordTitleStyle
		subtitleSt := recordSubtitleStyle
		prefix := "  "
		if isActive && i == cursor {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(r.Title))
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", r.City, r.PostedAt().Format("02/01/2006"), deliveryStatus(r))))
		b.WriteByte('\n')

		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sortNewestFirst(records []model.JobRecord) {
	slices.SortStableFunc(records, func(a, b model.JobRecord) int {
		switch {
		case a.Date > b.Date:
			return -1
		case a.Date < b.Date:
			return 1
		}
		return 0
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowser launches the split-pane browser. Returns wantQuit=true if the
// user pressed q/ctrl+c, false if they pressed esc to return to the picker.
func RunBrowser(left, right Pane) (bool, error) {
	p := tea.NewProgram(newBrowseModel(left, right), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(browseModel).wantQuit, nil
}
