package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/driima/chat/internal/session"
)

func (m *Model) View() string {
	var output string
	if m.screen == screenRooms {
		output = lipgloss.JoinVertical(lipgloss.Left, m.renderRooms(), m.renderStatusLine())
	} else {
		lines := []string{m.renderHeader(), m.viewport.View()}
		if preview := m.renderReplyPreview(); preview != "" {
			lines = append(lines, preview)
		}
		if m.showJoin() {
			lines = append(lines, m.renderJoin())
		}
		lines = append(lines, m.renderInput(), m.renderStatusLine())
		output = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	return m.zoneManager.Scan(output)
}

func (m *Model) renderHeader() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	name := m.snap.room.Name
	if m.opening && name == "" {
		name = m.tr.T("Loading...")
	}
	back := lipgloss.NewStyle().Foreground(metaColor).Render("esc " + m.tr.T("Back"))
	return alignStatusLine(style.Render(name), back, m.mainWidth())
}

func (m *Model) renderInput() string {
	content := m.input.View()
	style := lipgloss.NewStyle().Background(inputBg).Padding(0, inputPadding, 0, 0)
	if width := m.mainWidth(); width > 0 {
		style = style.Width(width)
	}
	blank := style.Render("")
	return strings.Join([]string{blank, style.Render(content), blank}, "\n")
}

// renderReplyPreview renders the reply target above the input.
func (m *Model) renderReplyPreview() string {
	if m.session == nil {
		return ""
	}
	snippet, ok := m.session.ReplyPreview()
	if !ok {
		return ""
	}
	previewStyle := lipgloss.NewStyle().Foreground(metaColor).Italic(true)
	cancelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	cancel := m.zoneManager.Mark("reply-cancel", cancelStyle.Render(" [x]"))
	width := m.mainWidth()
	text := "↪ " + m.tr.T("Replying to") + ": " + snippet.String()
	text = ansi.Truncate(text, width-ansi.StringWidth(" [x]")-1, "…")
	return alignStatusLine(previewStyle.Render(text), cancel, width)
}

func (m *Model) renderJoin() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("24")).Padding(0, 1)
	return m.zoneManager.Mark("join", style.Render(m.tr.T("Join this group")+" (alt+j)"))
}

func (m *Model) renderStatusLine() string {
	left := m.status
	color := statusColor
	switch m.statusKind {
	case session.NoticeError, session.NoticeOffline:
		color = errorColor
	case session.NoticeAIReply:
		color = noticeColor
	}
	if left == "" {
		left, color = m.actionHints(), statusColor
	}
	right := ""
	if m.screen == screenRoom && m.session != nil && m.input.Value() == "" && m.selected == "" {
		right = "alt+↑ select"
	}
	return alignStatusLine(lipgloss.NewStyle().Foreground(color).Render(left), right, m.mainWidth())
}

// actionHints lists the actions of the selected message.
func (m *Model) actionHints() string {
	if m.screen != screenRoom || m.selected == "" || m.session == nil {
		return ""
	}
	view, ok := m.session.View(m.selected)
	if !ok {
		return ""
	}
	keys := map[session.Action]string{
		session.ActionCopy:   "alt+c",
		session.ActionReply:  "alt+r",
		session.ActionDelete: "alt+d",
		session.ActionHide:   "alt+h",
	}
	parts := make([]string, 0, len(view.Actions))
	for _, action := range view.Actions {
		parts = append(parts, keys[action]+" "+m.tr.T(string(action)))
	}
	return strings.Join(parts, " · ")
}

func alignStatusLine(left, right string, width int) string {
	if width <= 0 || right == "" {
		return left
	}
	leftWidth := ansi.StringWidth(left)
	rightWidth := ansi.StringWidth(right)
	padding := width - leftWidth - rightWidth
	if padding < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", padding) + right
}
