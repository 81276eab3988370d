package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-bridge/decoder"
	"github.com/wippyai/ffi-bridge/resource"
	"github.com/wippyai/ffi-bridge/shape"
	"github.com/wippyai/ffi-bridge/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	shapeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateDetail
	stateEditRaw
)

type interactiveModel struct {
	err        error
	logger     *zap.Logger
	session    *session
	decoder    *decoder.Decoder
	handles    *resource.Table
	filename   string
	params     []param
	results    []decoded
	input      textinput.Model
	selected   int
	state      modelState
	threadSafe bool
}

type loadedMsg struct {
	err     error
	session *session
	params  []param
}

func newInteractiveModel(filename string, threadSafe bool, logger *zap.Logger) *interactiveModel {
	return &interactiveModel{
		filename:   filename,
		threadSafe: threadSafe,
		logger:     logger,
		state:      stateBrowse,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadFixture
}

func (m *interactiveModel) loadFixture() tea.Msg {
	fx, params, err := loadFixture(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	s, err := newSession(context.Background(), fx)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{session: s, params: params}
}

func (m *interactiveModel) redecode() {
	if m.handles != nil {
		m.handles.Clear()
	}
	m.results = decodeAll(m.decoder, m.params, m.threadSafe)
}

func (m *interactiveModel) close() {
	if m.handles != nil {
		m.handles.Close()
	}
	if m.session != nil {
		m.session.Close(context.Background())
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateEditRaw {
			return m.updateEdit(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.close()
			return m, tea.Quit

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.results)-1 {
				m.selected++
			}

		case "t":
			if m.decoder != nil {
				m.threadSafe = !m.threadSafe
				m.redecode()
			}

		case "e":
			if len(m.results) > 0 {
				m.startEdit()
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				if len(m.results) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateBrowse
			}

		case "esc":
			m.state = stateBrowse
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.params = msg.params
		m.decoder, m.handles = newDecoder(msg.session, m.logger)
		m.redecode()
	}

	return m, nil
}

func (m *interactiveModel) startEdit() {
	ti := textinput.New()
	ti.Prompt = m.params[m.selected].name + " raw: "
	ti.Placeholder = "0x..."
	ti.SetValue(fmt.Sprintf("%#x", m.params[m.selected].raw))
	ti.Width = 24
	ti.Focus()
	m.input = ti
	m.err = nil
	m.state = stateEditRaw
}

func (m *interactiveModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.close()
		return m, tea.Quit
	case "esc":
		m.state = stateBrowse
		return m, nil
	case "enter":
		raw, err := strconv.ParseUint(strings.TrimSpace(m.input.Value()), 0, 64)
		if err != nil {
			m.err = fmt.Errorf("invalid raw value: %w", err)
			return m, nil
		}
		m.params[m.selected].raw = raw
		m.redecode()
		m.err = nil
		m.state = stateDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.decoder == nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.decoder == nil {
		return "Loading fixture..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Callback Decoder"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	if m.threadSafe {
		b.WriteString(helpStyle.Render("  [thread-safe]"))
	}
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString("No params in fixture.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	switch m.state {
	case stateBrowse:
		for i, r := range m.results {
			line := m.formatRow(r)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • e edit raw • t toggle thread-safe • q quit"))

	case stateDetail:
		m.writeDetail(&b, m.results[m.selected])
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • e edit raw • t toggle thread-safe • q quit"))

	case stateEditRaw:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter decode • esc cancel"))
	}

	return b.String()
}

func (m *interactiveModel) formatRow(r decoded) string {
	head := nameStyle.Render(r.param.name) + ": " + shapeStyle.Render(shape.Describe(r.param.shape))
	if r.err != nil {
		return head + " " + errorStyle.Render("error")
	}
	return head + " = " + valueStyle.Render(value.Format(r.value))
}

func (m *interactiveModel) writeDetail(b *strings.Builder, r decoded) {
	fmt.Fprintf(b, "%s  raw %#x\n", nameStyle.Render(r.param.name), r.param.raw)
	fmt.Fprintf(b, "shape %s\n\n", shapeStyle.Render(shape.Describe(r.param.shape)))

	if r.err != nil {
		b.WriteString(errorStyle.Render(r.err.Error()))
		b.WriteString("\n")
		return
	}

	fmt.Fprintf(b, "kind  %s\n", r.value.Kind())
	if n := value.Len(r.value); n >= 0 {
		fmt.Fprintf(b, "len   %d\n", n)
	}
	if bs, ok := r.value.(value.Bytes); ok {
		fmt.Fprintf(b, "owned %t\n", bs.Owned)
	}
	b.WriteString("\n")

	if st, ok := r.value.(value.Struct); ok {
		for _, f := range st.Fields {
			fmt.Fprintf(b, "  %s = %s\n", nameStyle.Render(f.Name), valueStyle.Render(value.Format(f.Value)))
		}
		return
	}
	b.WriteString(valueStyle.Render(value.Format(r.value)))
	b.WriteString("\n")
}

func runInteractive(filename string, threadSafe bool, logger *zap.Logger) error {
	p := tea.NewProgram(newInteractiveModel(filename, threadSafe, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
