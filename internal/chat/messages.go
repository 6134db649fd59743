package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/driima/chat/internal/session"
)

func messageZoneID(id string) string { return "msg-" + id }
func replyZoneID(id string) string   { return "reply-" + id }

// refreshViewport re-renders the transcript. The view follows new content
// when it was already at the bottom or a scroll was requested.
func (m *Model) refreshViewport(forceBottom bool) {
	if m.transcript == nil {
		m.viewport.SetContent("")
		return
	}
	m.snap = m.transcript.snapshot()
	follow := forceBottom || m.snap.scroll || m.viewport.AtBottom()

	content := m.renderEntries(m.snap.entries, m.mainWidth())
	m.viewport.SetContent(content)
	if follow {
		m.viewport.GotoBottom()
	}
}

// renderEntries renders separators and messages, recording where each
// message starts.
func (m *Model) renderEntries(entries []entry, width int) string {
	m.order = m.order[:0]
	m.offsets = make(map[string]int, len(entries))
	live := make(map[string]struct{}, len(entries))

	var blocks []string
	line := 0
	for _, e := range entries {
		var block string
		switch e.kind {
		case entrySeparator:
			block = renderSeparator(e.label, width)
		case entryMessage:
			m.order = append(m.order, e.view.ID)
			m.offsets[e.view.ID] = line
			live[e.view.ID] = struct{}{}
			block = m.renderMessage(e.view, width, e.view.ID == m.selected)
		}
		blocks = append(blocks, block)
		line += strings.Count(block, "\n") + 1
	}
	for id := range m.bodies {
		if _, ok := live[id]; !ok {
			delete(m.bodies, id)
		}
	}
	if m.selected != "" {
		if _, ok := live[m.selected]; !ok {
			m.selected = ""
		}
	}
	return strings.Join(blocks, "\n")
}

func renderSeparator(label string, width int) string {
	style := lipgloss.NewStyle().Foreground(metaColor)
	text := " " + label + " "
	side := (width - ansi.StringWidth(text)) / 2
	if side < 2 {
		return style.Render(text)
	}
	return style.Render(strings.Repeat("─", side) + text + strings.Repeat("─", width-side-ansi.StringWidth(text)))
}

func (m *Model) renderMessage(view session.MessageView, width int, selected bool) string {
	color := colorForSender(view.Sender)
	name := view.Sender
	if view.SenderIsAI {
		name = m.tr.T(view.Sender)
	}
	nameStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	if view.SentByMe {
		// Own messages get a filled badge.
		nameStyle = lipgloss.NewStyle().Background(color).Foreground(contrastTextColor(color)).Bold(true).Padding(0, 1)
	}
	metaStyle := lipgloss.NewStyle().Foreground(metaColor)

	byline := nameStyle.Render(name) + " " + metaStyle.Render(view.TimeLabel)
	lines := []string{byline}

	if view.Reply != nil {
		snippet := lipgloss.NewStyle().Foreground(metaColor).Italic(true).
			Render("↪ " + ansi.Truncate(view.Reply.String(), width-4, "…"))
		if view.Reply.MessageID != "" {
			snippet = m.zoneManager.Mark(replyZoneID(view.ID), snippet)
		}
		lines = append(lines, snippet)
	}

	lines = append(lines, m.renderBody(view, width-2))

	if view.Skipped {
		lines = append(lines, renderSkipMarker(m.tr.T("Messages up to here are hidden from AI"), width-2))
	}

	gutter := "  "
	if selected {
		gutter = lipgloss.NewStyle().Foreground(caretColor).Render("▌ ")
	}
	block := strings.Split(strings.Join(lines, "\n"), "\n")
	for i := range block {
		block[i] = gutter + block[i]
	}
	return m.zoneManager.Mark(messageZoneID(view.ID), strings.Join(block, "\n")+"\n")
}

// renderBody renders the markdown of a message, reusing the previous
// rendering while content and width are unchanged.
func (m *Model) renderBody(view session.MessageView, width int) string {
	if cached, ok := m.bodies[view.ID]; ok && cached.width == width && cached.content == view.Content {
		return cached.out
	}
	out := m.md.Render(view.Content, width)
	m.bodies[view.ID] = renderedBody{width: width, content: view.Content, out: out}
	return out
}

func renderSkipMarker(label string, width int) string {
	style := lipgloss.NewStyle().Foreground(skipColor).Italic(true)
	text := "╌ " + label + " ╌"
	if pad := width - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat("╌", pad)
	}
	return style.Render(ansi.Truncate(text, width, ""))
}
