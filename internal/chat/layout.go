package chat

import (
	"strings"

	"github.com/driima/chat/internal/types"
)

const headerHeight = 1

func (m *Model) mainWidth() int {
	if m.width < 1 {
		return 1
	}
	return m.width
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	width := m.mainWidth()
	inputWidth := width - inputPadding
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.SetWidth(inputWidth)
	m.rooms.filter.Width = width - 4
	lineCount := m.input.LineCount()
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > inputMaxHeight {
		lineCount = inputMaxHeight
	}
	m.input.SetHeight(lineCount)
	inputHeight := m.input.Height() + 2

	statusHeight := 1
	m.viewport.Width = width
	m.viewport.Height = m.height - headerHeight - m.footerHeight() - inputHeight - statusHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.refreshViewport(false)
}

// footerHeight counts the reply preview and join lines above the input.
func (m *Model) footerHeight() int {
	height := 0
	if m.session != nil {
		if _, ok := m.session.ReplyPreview(); ok {
			height++
		}
	}
	if m.showJoin() {
		height++
	}
	return height
}

func (m *Model) showJoin() bool {
	return m.screen == screenRoom && !m.opening && m.snap.room.ID != 0 && !m.snap.room.Joined
}

func halfPage(height int) int {
	if height < 2 {
		return 1
	}
	return height / 2
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func selectorFor(room types.RoomSummary) types.RoomSelector {
	return types.RoomSelector{RoomID: room.RoomID}
}
