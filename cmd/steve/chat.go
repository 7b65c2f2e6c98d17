// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/whitejm/steve/cmd/steve/ui"
	"github.com/whitejm/steve/internal/assistant"
	"github.com/whitejm/steve/internal/config"
	"github.com/whitejm/steve/internal/tools"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

const chatHelp = `## Commands

| Command | Description |
|---|---|
| /help | Show this help |
| /tools | List what steve can do |
| /reset | Start the conversation over |
| /quit | Exit |

Enter sends, Ctrl+C exits. Dates are YYYY-MM-DD.`

type msgKind int

const (
	kindUser msgKind = iota
	kindAssistant
	kindTool
	kindError
	kindSystem
)

type chatMessage struct {
	kind    msgKind
	content string
}

// Messages for tea updates
type (
	replyMsg  struct{ reply *assistant.Reply }
	errMsg    struct{ err error }
	configMsg struct{ cfg *config.Config }
)

// chatModel is the bubbletea model for the interactive chat.
type chatModel struct {
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	session  *assistant.Session
	registry *tools.Registry
	cfg      *config.Config
	logger   *zap.Logger

	name          string
	showToolCalls bool
	messages      []chatMessage
	loading       bool
	width         int
	height        int
	ready         bool
}

// runChat wires the backend together and hands the terminal to bubbletea.
func runChat(ctx context.Context) error {
	client, err := assistant.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		if errors.Is(err, assistant.ErrNoAPIKey) {
			return fmt.Errorf("%w: set GEMINI_API_KEY or gemini.api_key in %s", err, resolveConfigPath())
		}
		return err
	}
	defer client.Close()

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	session := assistant.NewSession(client, e.registry, e.store, logger.Named("assistant"))
	p := tea.NewProgram(newChatModel(session, e.registry, cfg, logger), tea.WithAltScreen())

	// Config edits take effect live. The watcher is best effort; chat works
	// without it.
	watcher, err := config.NewWatcher(resolveConfigPath(), func(next *config.Config) {
		p.Send(configMsg{cfg: next})
	}, logger.Named("config"))
	if err != nil {
		logger.Warn("config watch unavailable", zap.Error(err))
	} else {
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		}
		defer watcher.Stop()
	}

	_, err = p.Run()
	return err
}

func newChatModel(session *assistant.Session, registry *tools.Registry, cfg *config.Config, logger *zap.Logger) chatModel {
	styles := ui.DefaultStyles()

	name := cfg.Chat.AssistantName
	if name == "" {
		name = "steve"
	}

	ta := textarea.New()
	ta.Placeholder = "Ask " + name + " anything..."
	ta.Prompt = "┃ "
	ta.CharLimit = 4096
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.Prompt = styles.Prompt
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)

	return chatModel{
		textarea:      ta,
		viewport:      vp,
		spinner:       sp,
		styles:        styles,
		renderer:      renderer,
		session:       session,
		registry:      registry,
		cfg:           cfg,
		logger:        logger,
		name:          name,
		showToolCalls: cfg.Chat.ShowToolCalls,
		messages: []chatMessage{
			{kind: kindSystem, content: fmt.Sprintf("Chatting with %s. Type /help for commands.", session.Model())},
		},
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.loading {
				return m.handleSubmit()
			}
			return m, nil
		}

		if !m.loading {
			m.textarea, taCmd = m.textarea.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 2
		inputHeight := m.textarea.Height() + 1

		vh := msg.Height - headerHeight - footerHeight - inputHeight
		if vh < 1 {
			vh = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vh)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vh
		}
		m.textarea.SetWidth(msg.Width - 2)

		wrap := msg.Width - 4
		if wrap > 100 {
			wrap = 100
		}
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		m.refresh()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case replyMsg:
		m.loading = false
		if m.showToolCalls {
			for _, call := range msg.reply.Calls {
				m.messages = append(m.messages, chatMessage{kind: kindTool, content: formatToolCall(call)})
			}
		}
		m.messages = append(m.messages, chatMessage{kind: kindAssistant, content: msg.reply.Text})
		m.refresh()

	case errMsg:
		m.loading = false
		m.messages = append(m.messages, chatMessage{kind: kindError, content: msg.err.Error()})
		m.refresh()

	case configMsg:
		m.cfg = msg.cfg
		m.showToolCalls = msg.cfg.Chat.ShowToolCalls
		if msg.cfg.Chat.AssistantName != "" {
			m.name = msg.cfg.Chat.AssistantName
		}
		if msg.cfg.Gemini.Model != m.session.Model() {
			m.session.SetModel(msg.cfg.Gemini.Model)
			m.messages = append(m.messages, chatMessage{
				kind:    kindSystem,
				content: "config reloaded, model switched to " + msg.cfg.Gemini.Model,
			})
			m.refresh()
		}
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(taCmd, vpCmd, spCmd)
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}
	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.messages = append(m.messages, chatMessage{kind: kindUser, content: input})
	m.textarea.Reset()
	m.loading = true
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.sendTurn(input))
}

// sendTurn runs one assistant exchange off the UI goroutine.
func (m chatModel) sendTurn(input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.GetTimeout())
		defer cancel()

		reply, err := m.session.Send(ctx, input)
		if err != nil {
			return errMsg{err: err}
		}
		return replyMsg{reply: reply}
	}
}

func (m chatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.textarea.Reset()

	switch strings.Fields(input)[0] {
	case "/quit", "/exit", "/q":
		return m, tea.Quit

	case "/reset":
		m.session.Reset()
		m.messages = []chatMessage{{kind: kindSystem, content: "conversation cleared"}}

	case "/tools":
		m.messages = append(m.messages, chatMessage{kind: kindAssistant, content: toolsSummary(m.registry)})

	case "/help":
		m.messages = append(m.messages, chatMessage{kind: kindAssistant, content: chatHelp})

	default:
		m.messages = append(m.messages, chatMessage{kind: kindError, content: fmt.Sprintf("unknown command %q, try /help", input)})
	}

	m.refresh()
	return m, nil
}

// refresh re-renders the transcript into the viewport and follows the tail.
func (m *chatModel) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// assistantName is never empty, whatever the config said.
func (m chatModel) assistantName() string {
	if m.name == "" {
		return "steve"
	}
	return m.name
}

func (m chatModel) renderMessages() string {
	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.kind {
		case kindUser:
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			sb.WriteString(m.styles.UserText.Render(msg.content) + "\n\n")
		case kindAssistant:
			sb.WriteString(m.styles.AssistantLabel.Render(m.assistantName()) + "\n")
			sb.WriteString(m.renderMarkdown(msg.content) + "\n")
		case kindTool:
			sb.WriteString(m.styles.ToolLine.Render(msg.content) + "\n")
		case kindError:
			sb.WriteString(m.styles.Error.Render("error: "+msg.content) + "\n\n")
		case kindSystem:
			sb.WriteString(m.styles.Muted.Render(msg.content) + "\n\n")
		}
	}
	return sb.String()
}

// renderMarkdown falls back to the raw text when glamour cannot cope.
func (m chatModel) renderMarkdown(content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

func (m chatModel) View() string {
	if !m.ready {
		return "Starting steve..."
	}

	var status string
	if m.loading {
		status = m.styles.Warning.Render("● thinking")
	} else {
		status = m.styles.Success.Render("● ready")
	}
	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.styles.Header.Render(" "+m.assistantName()+" "),
		" ",
		m.styles.Badge.Render(m.session.Model()),
		"  ",
		status,
	)

	body := m.viewport.View()
	if m.loading {
		body += "\n" + m.spinner.View() + m.styles.Muted.Render(" working...")
	}

	footer := m.styles.Footer.Render("Enter: send • /help: commands • Ctrl+C: quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.styles.RenderDivider(m.width),
		body,
		m.textarea.View(),
		footer,
	)
}

// formatToolCall condenses one dispatched call to a transcript line.
func formatToolCall(call assistant.ToolCall) string {
	if call.Err != "" {
		return fmt.Sprintf("✗ %s (%dms): %s", call.Name, call.DurationMs, call.Err)
	}
	return fmt.Sprintf("✓ %s (%dms)", call.Name, call.DurationMs)
}

// toolsSummary renders the catalog as a markdown table for the transcript.
func toolsSummary(registry *tools.Registry) string {
	var sb strings.Builder
	sb.WriteString("## Tools\n\n")
	sb.WriteString("| Tool | Description |\n")
	sb.WriteString("|------|-------------|\n")
	for _, man := range registry.Describe() {
		sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", man.Name, man.Description))
	}
	return sb.String()
}
