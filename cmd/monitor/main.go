// Command monitor renders a live view of a session's event feed. It attaches
// to the agent's websocket endpoint and prints utterances, questions, and the
// completion notice as they happen.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/muesli/reflow/wordwrap"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228"))
	completedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

type eventMsg []byte

type feedClosedMsg struct{ err error }

type model struct {
	feedURL  string
	events   <-chan []byte
	feedErr  <-chan error
	viewport viewport.Model
	lines    []string
	ready    bool
	closed   bool
	closeErr error
}

func main() {
	feedURL := flag.String("url", "ws://localhost:8080/ws/logs", "websocket url of the session event feed")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*feedURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect to event feed at %s: %v", *feedURL, err)
	}
	defer conn.Close()

	events := make(chan []byte, 16)
	feedErr := make(chan error, 1)
	go func() {
		defer close(events)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				feedErr <- err
				return
			}
			events <- payload
		}
	}()

	program := tea.NewProgram(model{feedURL: *feedURL, events: events, feedErr: feedErr}, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "monitor failed: %v\n", err)
		os.Exit(1)
	}
}

func (m model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		payload, ok := <-m.events
		if !ok {
			return feedClosedMsg{err: <-m.feedErr}
		}
		return eventMsg(payload)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.refreshContent()
		return m, nil

	case eventMsg:
		m.lines = append(m.lines, formatEvent(msg))
		m.refreshContent()
		return m, m.waitForEvent()

	case feedClosedMsg:
		m.closed = true
		m.closeErr = msg.err
		m.refreshContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) refreshContent() {
	if !m.ready {
		return
	}

	lines := m.lines
	if m.closed {
		notice := "feed closed"
		if m.closeErr != nil && !websocket.IsCloseError(m.closeErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			notice = fmt.Sprintf("feed closed: %v", m.closeErr)
		}
		lines = append(lines, faintStyle.Render(notice))
	}

	m.viewport.SetContent(wordwrap.String(strings.Join(lines, "\n"), m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m model) headerView() string {
	return headerStyle.Render("session feed " + m.feedURL + "  (q to quit)")
}

func (m model) View() string {
	if !m.ready {
		return "connecting..."
	}
	return m.headerView() + "\n" + m.viewport.View()
}

// feedEvent covers every wire shape the broadcaster publishes; unused fields
// stay empty for any given event.
type feedEvent struct {
	Type     string `json:"type"`
	Speaker  string `json:"speaker"`
	Text     string `json:"text"`
	Message  string `json:"message"`
	Question struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"question"`
}

func formatEvent(payload []byte) string {
	var event feedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return faintStyle.Render(string(payload))
	}

	switch {
	case event.Speaker == "user":
		return userStyle.Render("user") + "  " + event.Text
	case event.Speaker == "assistant":
		return assistantStyle.Render("assistant") + "  " + event.Text
	case event.Type == "first_question" || event.Type == "next_question":
		label := questionStyle.Render("question")
		if event.Question.Type != "" {
			label += faintStyle.Render(" (" + event.Question.Type + ")")
		}
		return label + "  " + event.Question.Text
	case event.Type == "completed":
		return completedStyle.Render("completed") + "  " + event.Message
	default:
		return faintStyle.Render(string(payload))
	}
}
