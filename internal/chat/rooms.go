package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/markdown"
	"github.com/driima/chat/internal/types"
)

// roomList is the home screen: every room of the account, filtered by a
// fuzzy pattern.
type roomList struct {
	rooms   []types.RoomSummary
	visible []int
	cursor  int
	filter  textinput.Model
	loading bool
}

type roomsLoadedMsg struct {
	rooms []types.RoomSummary
	err   error
	// reselect is the room to highlight, usually the one just left.
	reselect int64
}

func newRoomList(tr i18n.Translator) roomList {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = tr.T("Rooms")
	filter.PromptStyle = lipgloss.NewStyle().Foreground(caretColor)
	filter.Focus()
	return roomList{filter: filter, loading: true}
}

func loadRoomsCmd(ctx context.Context, client Client, reselect int64) tea.Cmd {
	return func() tea.Msg {
		rooms, err := client.Rooms(ctx)
		return roomsLoadedMsg{rooms: rooms, err: err, reselect: reselect}
	}
}

func (l *roomList) setRooms(rooms []types.RoomSummary) {
	l.rooms = rooms
	l.loading = false
	l.applyFilter()
}

type roomSource []types.RoomSummary

func (s roomSource) String(i int) string { return s[i].DisplayName() }
func (s roomSource) Len() int            { return len(s) }

// applyFilter recomputes the visible rows. An empty pattern keeps server order.
func (l *roomList) applyFilter() {
	pattern := strings.TrimSpace(l.filter.Value())
	l.visible = l.visible[:0]
	if pattern == "" {
		for i := range l.rooms {
			l.visible = append(l.visible, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(pattern, roomSource(l.rooms)) {
			l.visible = append(l.visible, match.Index)
		}
	}
	if l.cursor >= len(l.visible) {
		l.cursor = len(l.visible) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *roomList) move(delta int) {
	if len(l.visible) == 0 {
		return
	}
	l.cursor = (l.cursor + delta + len(l.visible)) % len(l.visible)
}

func (l *roomList) selected() (types.RoomSummary, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return types.RoomSummary{}, false
	}
	return l.rooms[l.visible[l.cursor]], true
}

func (l *roomList) selectByID(roomID int64) bool {
	for i, idx := range l.visible {
		if l.rooms[idx].RoomID == roomID {
			l.cursor = i
			return true
		}
	}
	return false
}

// LatestPreview is the one-line summary of the last message of a room.
func LatestPreview(room types.RoomSummary, tr i18n.Translator) string {
	switch {
	case room.LatestMessage != nil && *room.LatestMessage != "":
		return markdown.Plain(*room.LatestMessage)
	case room.LatestDateSent != nil && !room.LatestDateSent.IsZero():
		return tr.T("(deleted message)")
	default:
		return tr.T("(no message)")
	}
}

func roomZoneID(roomID int64) string {
	return fmt.Sprintf("room-%d", roomID)
}

func (m *Model) renderRooms() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("231"))
	previewStyle := lipgloss.NewStyle().Foreground(metaColor)
	selectedStyle := lipgloss.NewStyle().Background(selectedBg).Bold(true)

	lines := []string{headerStyle.Render(m.tr.T("Rooms")), m.rooms.filter.View(), ""}
	switch {
	case m.rooms.loading:
		lines = append(lines, previewStyle.Render(m.tr.T("Loading...")))
	case len(m.rooms.visible) == 0:
		lines = append(lines, previewStyle.Render(m.tr.T("No rooms")))
	}

	listHeight := m.height - len(lines) - 1
	start := 0
	if listHeight > 0 && m.rooms.cursor >= listHeight {
		start = m.rooms.cursor - listHeight + 1
	}
	for i := start; i < len(m.rooms.visible); i++ {
		if listHeight > 0 && i-start >= listHeight {
			break
		}
		room := m.rooms.rooms[m.rooms.visible[i]]
		lines = append(lines, m.zoneManager.Mark(roomZoneID(room.RoomID),
			m.renderRoomRow(room, width, i == m.rooms.cursor, nameStyle, previewStyle, selectedStyle)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRoomRow(room types.RoomSummary, width int, selected bool, nameStyle, previewStyle, selectedStyle lipgloss.Style) string {
	when := ""
	if room.LatestDateSent != nil && !room.LatestDateSent.IsZero() {
		when = humanize.Time(room.LatestDateSent.Time)
	}
	nameWidth := width / 3
	if nameWidth < 12 {
		nameWidth = 12
	}
	name := runewidth.FillRight(runewidth.Truncate(room.DisplayName(), nameWidth, "…"), nameWidth)
	previewWidth := width - nameWidth - runewidth.StringWidth(when) - 4
	preview := ""
	if previewWidth > 0 {
		preview = runewidth.Truncate(LatestPreview(room, m.tr), previewWidth, "…")
	}
	row := alignStatusLine(nameStyle.Render(name)+"  "+previewStyle.Render(preview), previewStyle.Render(when), width)
	if selected {
		return selectedStyle.Render(row)
	}
	return row
}
