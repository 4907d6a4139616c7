package console

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"ismcts/play"
)

type engineMoveMsg struct {
	move string
	err  error
}

// model never touches the session while the engine is thinking; the
// response command owns it until engineMoveMsg arrives.
type model struct {
	session  play.Session
	view     string
	moves    []string
	input    string
	last     string
	err      error
	thinking bool
}

func NewModel(s play.Session) tea.Model {
	m := model{session: s}
	m.refresh()
	m.thinking = m.engineToMove()
	return m
}

// Run plays s in the terminal until the user quits.
func Run(s play.Session) error {
	_, err := tea.NewProgram(NewModel(s)).Run()
	return err
}

func respond(s play.Session) tea.Cmd {
	return func() tea.Msg {
		move, err := s.Respond()
		return engineMoveMsg{move: move, err: err}
	}
}

func (m *model) refresh() {
	m.view = m.session.View()
	m.moves = m.session.Moves()
}

func (m model) engineToMove() bool {
	return !m.session.Over() && m.session.ToMove() != m.session.Human()
}

func (m model) Init() tea.Cmd {
	if m.thinking {
		return respond(m.session)
	}
	return nil
}

func (m *model) think() tea.Cmd {
	m.thinking = true
	return respond(m.session)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyBackspace:
			_, size := utf8.DecodeLastRuneInString(m.input)
			m.input = m.input[:len(m.input)-size]
		case tea.KeySpace:
			m.input += " "
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		}
	case engineMoveMsg:
		m.thinking = false
		m.err = msg.err
		if msg.err == nil {
			m.last = msg.move
		}
		m.refresh()
		if msg.err == nil && m.engineToMove() {
			return m, m.think()
		}
	}
	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	if m.thinking {
		return m, nil
	}
	if m.session.Over() {
		return m, tea.Quit
	}
	text := strings.TrimSpace(m.input)
	m.input = ""
	if text == "" {
		return m, nil
	}
	m.err = m.session.Play(text)
	m.refresh()
	if m.err == nil && m.engineToMove() {
		return m, m.think()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, you are %s\n\n%s\n", m.session.Game(), m.session.Human(), m.view)
	if m.last != "" {
		fmt.Fprintf(&b, "engine played: %s\n", m.last)
	}
	if m.err != nil {
		fmt.Fprintf(&b, "error: %v\n", m.err)
	}
	switch {
	case m.thinking:
		b.WriteString("engine is thinking...\n")
	case m.session.Over():
		fmt.Fprintf(&b, "game over: %s\npress enter to quit\n", m.session.Outcome())
	default:
		fmt.Fprintf(&b, "moves: %s\n> %s\n", strings.Join(m.moves, " | "), m.input)
	}
	b.WriteString("\nesc to quit\n")
	return b.String()
}
