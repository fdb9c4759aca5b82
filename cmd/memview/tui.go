package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/wasm-memory/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	addrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const defaultRows = 16

type tuiMode int

const (
	modeBrowse tuiMode = iota
	modeEdit
	modeOffset
)

type tuiModel struct {
	err    error
	sess   *session
	acc    view.Accessor
	status string
	input  textinput.Model
	top    int
	cursor int
	rows   int
	kind   view.Kind
	offset uint32
	mode   tuiMode
}

func newTUIModel(sess *session, rows int) *tuiModel {
	if rows <= 0 {
		rows = defaultRows
	}
	ti := textinput.New()
	ti.Width = 24
	m := &tuiModel{
		sess:  sess,
		kind:  view.Uint8,
		rows:  rows,
		input: ti,
	}
	m.rebuildView()
	return m
}

func (m *tuiModel) rebuildView() {
	acc, err := m.sess.mem.ViewOf(m.kind, m.offset)
	if err != nil {
		m.err = err
		return
	}
	m.acc = acc
	m.clamp()
}

func (m *tuiModel) pageSize() int {
	return m.rows * perRow(m.kind)
}

// clamp keeps the cursor inside the view and on the visible page.
func (m *tuiModel) clamp() {
	n := m.acc.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	step := perRow(m.kind)
	if m.cursor < m.top {
		m.top = m.cursor - m.cursor%step
	}
	if m.cursor >= m.top+m.pageSize() {
		m.top = m.cursor - m.cursor%step - (m.rows-1)*step
	}
	if m.top < 0 {
		m.top = 0
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, header, blank, status and help take five lines
		m.rows = max(1, msg.Height-5)
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := perRow(m.kind)
	m.status = ""
	m.err = nil

	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1", "2", "3", "4", "5", "6":
		idx, _ := strconv.Atoi(key)
		byteAddr := m.cursor * m.kind.Width()
		m.kind = view.Kinds[idx-1]
		m.cursor = byteAddr / m.kind.Width()
		m.top = 0
		m.rebuildView()

	case "left", "h":
		m.cursor--
	case "right", "l":
		m.cursor++
	case "up", "k":
		m.cursor -= step
	case "down", "j":
		m.cursor += step
	case "pgup":
		m.cursor -= m.pageSize()
		m.top -= m.pageSize()
	case "pgdown":
		if m.cursor+m.pageSize() < m.acc.Len() {
			m.cursor += m.pageSize()
			m.top += m.pageSize()
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = m.acc.Len() - 1

	case "g":
		prev, err := m.sess.mem.Grow(1)
		if err != nil {
			m.err = err
		} else {
			m.status = fmt.Sprintf("grew memory from %d to %d pages", prev, m.sess.mem.Pages())
		}

	case "e":
		if m.acc.Len() == 0 {
			m.err = fmt.Errorf("view is empty")
			break
		}
		x, err := m.acc.GetInt(m.cursor)
		if err != nil {
			m.err = err
			break
		}
		m.mode = modeEdit
		m.input.Prompt = fmt.Sprintf("%s[%d] = ", m.kind, m.cursor)
		m.input.SetValue(strconv.FormatInt(x, 10))
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "o":
		m.mode = modeOffset
		m.input.Prompt = "offset = "
		m.input.SetValue(strconv.FormatUint(uint64(m.offset), 10))
		m.input.CursorEnd()
		return m, m.input.Focus()
	}

	m.clamp()
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		m.commitInput(strings.TrimSpace(m.input.Value()))
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) commitInput(value string) {
	switch m.mode {
	case modeEdit:
		n, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			m.err = fmt.Errorf("not an integer: %q", value)
			return
		}
		if err := m.acc.SetInt(m.cursor, n); err != nil {
			m.err = err
			return
		}
		m.status = fmt.Sprintf("%s[%d] set to %d", m.kind, m.cursor, n)

	case modeOffset:
		off, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			m.err = fmt.Errorf("not a byte offset: %q", value)
			return
		}
		m.offset = uint32(off)
		m.cursor = 0
		m.top = 0
		m.rebuildView()
		m.status = fmt.Sprintf("view moved to offset %d", m.offset)
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Memory View"))
	b.WriteString(" ")
	b.WriteString(m.sess.file)
	b.WriteString("\n")

	maxPages, hasMax := m.sess.mem.MaxPages()
	fmt.Fprintf(&b, "%s  offset %d  len %d  pages %d/%s  %s\n",
		kindStyle.Render(m.kind.String()), m.offset, m.acc.Len(),
		m.sess.mem.Pages(), formatMaxPages(maxPages, hasMax),
		helpStyle.Render(fmt.Sprintf("wit %s", witName(m.kind))))

	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	switch {
	case m.mode != modeBrowse:
		b.WriteString(m.input.View())
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.mode == modeBrowse {
		b.WriteString(helpStyle.Render("1-6 kind • arrows move • pgup/pgdn page • e edit • o offset • g grow • q quit"))
	} else {
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	}
	return b.String()
}

func (m *tuiModel) renderGrid() string {
	var b strings.Builder
	step := perRow(m.kind)
	width := cellWidth(m.kind)
	n := min(m.acc.Len(), m.top+m.pageSize())

	for i := m.top; i < n; i += step {
		addr := uint64(m.offset) + uint64(i*m.kind.Width())
		b.WriteString(addrStyle.Render(fmt.Sprintf("%08x:", addr)))
		for j := i; j < min(i+step, n); j++ {
			b.WriteString(" ")
			x, err := m.acc.GetInt(j)
			cell := fmt.Sprintf("%*d", width, x)
			if err != nil {
				cell = strings.Repeat("?", width)
			}
			if j == m.cursor {
				cell = selectedStyle.Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func witName(kind view.Kind) string {
	if t := kind.WitType(); t != nil {
		return fmt.Sprintf("%T", t)
	}
	return "?"
}

func newTUICmd(config *baseConfiguration) *cobra.Command {
	return &cobra.Command{
		Use:   "tui FILE",
		Short: "Browse and edit memory interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fd := int(os.Stdout.Fd())
			if !term.IsTerminal(fd) {
				return fmt.Errorf("tui needs a terminal; use inspect instead")
			}
			rows := defaultRows
			if _, height, err := term.GetSize(fd); err == nil {
				rows = max(1, height-5)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := openSession(ctx, config, args[0])
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			p := tea.NewProgram(newTUIModel(s, rows), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}
