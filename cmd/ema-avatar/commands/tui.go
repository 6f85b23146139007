package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	orchestration "github.com/koscakluka/ema-avatar/core"
	"github.com/koscakluka/ema-avatar/core/events"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	subtitleStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("86"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const maxTranscriptLines = 50

// assistantControl is the part of the assistant the chat screen drives.
type assistantControl interface {
	ConnectAvatar(ctx context.Context) error
	SendMessage(ctx context.Context, text string) (string, error)
	CancelReply()
	StartVoiceInput(ctx context.Context, callbacks orchestration.VoiceInputCallbacks) error
	StopVoiceInput(ctx context.Context) error
	IsListening() bool
}

type (
	eventMsg     struct{ event events.Event }
	connectedMsg struct{ err error }
	replyDoneMsg struct{ err error }
	voiceMsg     struct{ err error }
)

type transcriptLine struct {
	speaker string
	text    string
}

type chatModel struct {
	ctx       context.Context
	assistant assistantControl

	input      textinput.Model
	width      int
	status     string
	subtitle   string
	interim    string
	reply      strings.Builder
	transcript []transcriptLine
	err        error
}

func newChatModel(ctx context.Context, assistant assistantControl) *chatModel {
	input := textinput.New()
	input.Placeholder = "Say something..."
	input.CharLimit = 500
	input.Focus()

	return &chatModel{
		ctx:       ctx,
		assistant: assistant,
		input:     input,
		width:     80,
		status:    "waiting for the avatar page",
	}
}

func (m *chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.connect)
}

func (m *chatModel) connect() tea.Msg {
	return connectedMsg{err: m.assistant.ConnectAvatar(m.ctx)}
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.assistant.CancelReply()
			return m, nil
		case "ctrl+r":
			return m, m.toggleVoice
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			return m, m.send(text)
		}

	case connectedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to connect avatar: %w", msg.err)
			m.status = "disconnected"
		}
		return m, nil

	case replyDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
		return m, nil

	case voiceMsg:
		m.err = msg.err
		return m, nil

	case eventMsg:
		return m, m.handleEvent(msg.event)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send cancels whatever reply is still running and asks for a new one.
func (m *chatModel) send(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	m.appendLine("you", text)
	m.err = nil
	m.assistant.CancelReply()

	return func() tea.Msg {
		_, err := m.assistant.SendMessage(m.ctx, text)
		return replyDoneMsg{err: err}
	}
}

func (m *chatModel) toggleVoice() tea.Msg {
	if m.assistant.IsListening() {
		return voiceMsg{err: m.assistant.StopVoiceInput(m.ctx)}
	}
	return voiceMsg{err: m.assistant.StartVoiceInput(m.ctx, orchestration.VoiceInputCallbacks{})}
}

func (m *chatModel) handleEvent(event events.Event) tea.Cmd {
	switch e := event.(type) {
	case events.AvatarConnected:
		m.status = "connected"
	case events.AvatarDisconnected:
		m.status = "disconnected"
		m.subtitle = ""
	case events.AvatarStateChanged:
		m.status = string(e.State)
	case events.AvatarSubtitleOn:
		m.subtitle = e.Text
	case events.AvatarSubtitleOff:
		m.subtitle = ""
	case events.AssistantResponseSegment:
		m.reply.WriteString(e.Segment)
	case events.AssistantResponseFinal, events.AssistantResponseFailed:
		if m.reply.Len() > 0 {
			m.appendLine("avatar", m.reply.String())
			m.reply.Reset()
		}
	case events.UserTranscriptInterimUpdated:
		m.interim = e.Transcript
	case events.UserTranscriptFinal:
		m.interim = ""
		return m.send(strings.TrimSpace(e.Transcript))
	case events.RecognitionFailed:
		m.interim = ""
		m.err = e.Err
	case events.RecognitionCompleted:
		m.interim = ""
	}
	return nil
}

func (m *chatModel) appendLine(speaker, text string) {
	m.transcript = append(m.transcript, transcriptLine{speaker: speaker, text: text})
	if len(m.transcript) > maxTranscriptLines {
		m.transcript = m.transcript[len(m.transcript)-maxTranscriptLines:]
	}
}

func (m *chatModel) View() string {
	var b strings.Builder
	width := max(m.width-2, 10)

	status := m.status
	if m.assistant.IsListening() {
		status += " · listening"
	}
	b.WriteString(titleStyle.Render("ema-avatar") + " " + statusStyle.Render(status) + "\n\n")

	for _, line := range m.transcript {
		style := assistantStyle
		if line.speaker == "you" {
			style = userStyle
		}
		b.WriteString(style.Render(wordwrap.String(line.speaker+": "+line.text, width)) + "\n")
	}
	if m.reply.Len() > 0 {
		b.WriteString(assistantStyle.Render(wordwrap.String("avatar: "+m.reply.String(), width)) + "\n")
	}
	if m.interim != "" {
		b.WriteString(statusStyle.Render(wordwrap.String("… "+m.interim, width)) + "\n")
	}

	b.WriteString("\n")
	if m.subtitle != "" {
		b.WriteString(subtitleStyle.Render(wordwrap.String(m.subtitle, width)) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(wordwrap.String(m.err.Error(), width)) + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	b.WriteString(helpStyle.Render("[enter] send  [esc] stop reply  [ctrl+r] voice  [ctrl+c] quit"))
	return b.String()
}
