package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/whitejm/steve/cmd/steve/ui"
	"github.com/whitejm/steve/internal/assistant"
	"github.com/whitejm/steve/internal/config"
)

func TestFormatToolCall(t *testing.T) {
	ok := formatToolCall(assistant.ToolCall{Name: "list_goals", DurationMs: 12})
	if ok != "✓ list_goals (12ms)" {
		t.Errorf("unexpected success format: %s", ok)
	}

	failed := formatToolCall(assistant.ToolCall{Name: "create_task", DurationMs: 3, Err: "missing required field: name"})
	if !strings.Contains(failed, "✗ create_task") || !strings.Contains(failed, "missing required field") {
		t.Errorf("unexpected failure format: %s", failed)
	}
}

func TestToolsSummary(t *testing.T) {
	testGlobals(t)
	e, err := openEnv()
	if err != nil {
		t.Fatalf("open env: %v", err)
	}
	defer e.Close()

	summary := toolsSummary(e.registry)
	for _, want := range []string{"## Tools", "`create_goal`", "`generate_tasks`", "`delete_note`"} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected summary to contain %q", want)
		}
	}
}

func TestRenderMessages(t *testing.T) {
	m := chatModel{
		styles: ui.DefaultStyles(),
		messages: []chatMessage{
			{kind: kindUser, content: "hello there"},
			{kind: kindAssistant, content: "hi, what can I do?"},
			{kind: kindTool, content: "✓ list_tasks (2ms)"},
			{kind: kindError, content: "boom"},
		},
	}

	out := m.renderMessages()
	for _, want := range []string{"You", "hello there", "hi, what can I do?", "list_tasks", "error: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected transcript to contain %q", want)
		}
	}
}

func TestRenderMarkdownWithoutRenderer(t *testing.T) {
	m := chatModel{}
	if got := m.renderMarkdown("plain **text**"); got != "plain **text**" {
		t.Errorf("expected raw passthrough, got %q", got)
	}
}

func TestHandleCommand(t *testing.T) {
	m := chatModel{textarea: textarea.New(), styles: ui.DefaultStyles()}

	next, _ := m.handleCommand("/help")
	cm := next.(chatModel)
	last := cm.messages[len(cm.messages)-1]
	if last.kind != kindAssistant || !strings.Contains(last.content, "/reset") {
		t.Errorf("expected help text, got kind=%d content=%q", last.kind, last.content)
	}

	next, _ = m.handleCommand("/bogus")
	cm = next.(chatModel)
	last = cm.messages[len(cm.messages)-1]
	if last.kind != kindError || !strings.Contains(last.content, "unknown command") {
		t.Errorf("expected unknown command error, got kind=%d content=%q", last.kind, last.content)
	}
}

func TestViewBeforeReady(t *testing.T) {
	m := chatModel{}
	if got := m.View(); got != "Starting steve..." {
		t.Errorf("expected startup placeholder, got %q", got)
	}
}

func TestUpdateReplyAppendsToolTrace(t *testing.T) {
	m := chatModel{
		viewport:      viewport.New(80, 20),
		styles:        ui.DefaultStyles(),
		showToolCalls: true,
		loading:       true,
	}

	reply := &assistant.Reply{
		Text:  "Done.",
		Calls: []assistant.ToolCall{{Name: "list_goals", DurationMs: 3}},
	}
	updated, _ := m.Update(replyMsg{reply: reply})
	got := updated.(chatModel)

	if got.loading {
		t.Error("loading should clear when the reply lands")
	}
	if len(got.messages) != 2 {
		t.Fatalf("got %d messages, want tool line plus answer", len(got.messages))
	}
	if got.messages[0].kind != kindTool || !strings.Contains(got.messages[0].content, "list_goals") {
		t.Errorf("tool line = %+v", got.messages[0])
	}
	if got.messages[1].kind != kindAssistant || got.messages[1].content != "Done." {
		t.Errorf("answer = %+v", got.messages[1])
	}
}

func TestUpdateReplyHidesToolTrace(t *testing.T) {
	m := chatModel{
		viewport: viewport.New(80, 20),
		styles:   ui.DefaultStyles(),
		loading:  true,
	}

	reply := &assistant.Reply{
		Text:  "Done.",
		Calls: []assistant.ToolCall{{Name: "list_goals", DurationMs: 3}},
	}
	updated, _ := m.Update(replyMsg{reply: reply})
	got := updated.(chatModel)

	if len(got.messages) != 1 || got.messages[0].kind != kindAssistant {
		t.Errorf("expected only the answer with tool calls hidden, got %+v", got.messages)
	}
}

func TestUpdateErrShowsTurnFailure(t *testing.T) {
	m := chatModel{
		viewport: viewport.New(80, 20),
		styles:   ui.DefaultStyles(),
		loading:  true,
	}

	updated, _ := m.Update(errMsg{err: errors.New("turn failed")})
	got := updated.(chatModel)

	if got.loading {
		t.Error("loading should clear on a failed turn")
	}
	last := got.messages[len(got.messages)-1]
	if last.kind != kindError || !strings.Contains(last.content, "turn failed") {
		t.Errorf("expected error message, got kind=%d content=%q", last.kind, last.content)
	}
}

func TestUpdateConfigSwitchesModel(t *testing.T) {
	session := &assistant.Session{}
	m := chatModel{
		viewport:      viewport.New(80, 20),
		styles:        ui.DefaultStyles(),
		session:       session,
		showToolCalls: true,
	}

	next := config.DefaultConfig()
	next.Gemini.Model = "gemini-2.5-pro"
	next.Chat.ShowToolCalls = false

	updated, _ := m.Update(configMsg{cfg: next})
	got := updated.(chatModel)

	if session.Model() != "gemini-2.5-pro" {
		t.Errorf("session model = %q, want the reloaded model", session.Model())
	}
	if got.showToolCalls {
		t.Error("showToolCalls should follow the reloaded config")
	}
	last := got.messages[len(got.messages)-1]
	if last.kind != kindSystem || !strings.Contains(last.content, "gemini-2.5-pro") {
		t.Errorf("expected a model switch notice, got kind=%d content=%q", last.kind, last.content)
	}
}

func TestAssistantNameDefaultsWhenUnset(t *testing.T) {
	m := chatModel{}
	if got := m.assistantName(); got != "steve" {
		t.Errorf("assistantName() = %q, want steve", got)
	}

	m.name = "jarvis"
	if got := m.assistantName(); got != "jarvis" {
		t.Errorf("assistantName() = %q, want jarvis", got)
	}
}

func TestUpdateConfigRenamesAssistant(t *testing.T) {
	session := &assistant.Session{}
	m := chatModel{
		viewport: viewport.New(80, 20),
		styles:   ui.DefaultStyles(),
		session:  session,
		name:     "steve",
	}

	next := config.DefaultConfig()
	next.Chat.AssistantName = "jarvis"

	updated, _ := m.Update(configMsg{cfg: next})
	got := updated.(chatModel)

	if got.name != "jarvis" {
		t.Errorf("name = %q, want the reloaded assistant name", got.name)
	}
}
