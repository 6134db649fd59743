package chat

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/driima/chat/internal/api"
	"github.com/driima/chat/internal/session"
)

const statusTimeout = 6 * time.Second

type sentMsg struct {
	transcript *Transcript
	err        error
}

type actionDoneMsg struct {
	transcript *Transcript
	action     session.Action
	id         string
	err        error
}

type clearStatusMsg struct {
	seq uint64
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	case tea.KeyMsg:
		if m.screen == screenRooms {
			return m.handleRoomsKey(msg)
		}
		return m.handleRoomKey(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case roomsLoadedMsg:
		return m.handleRoomsLoaded(msg)
	case roomOpenedMsg:
		return m.handleRoomOpened(msg)
	case transcriptMsg:
		return m.handleTranscriptMsg(msg)
	case sentMsg:
		return m.handleSentMsg(msg)
	case actionDoneMsg:
		return m.handleActionDone(msg)
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	default:
		if m.screen == screenRooms {
			var cmd tea.Cmd
			m.rooms.filter, cmd = m.rooms.filter.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.resize()
	return m, nil
}

func (m *Model) handleRoomsLoaded(msg roomsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.rooms.loading = false
		m.log.WithError(msg.err).Warn("load rooms failed")
		return m, m.setStatus(session.NoticeError, describeError(msg.err, m.tr.T("You are offline")))
	}
	m.rooms.setRooms(msg.rooms)
	if msg.reselect != 0 {
		m.rooms.selectByID(msg.reselect)
	}
	return m, nil
}

func (m *Model) handleRoomOpened(msg roomOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.transcript != m.transcript {
		// Left the room before Open returned.
		if msg.session != nil {
			msg.session.Close()
		}
		msg.transcript.Close()
		return m, nil
	}
	m.opening = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("open room failed")
		return m, m.setStatus(session.NoticeError, msg.err.Error())
	}
	m.session = msg.session
	m.refreshViewport(false)
	return m, nil
}

func (m *Model) handleTranscriptMsg(msg transcriptMsg) (tea.Model, tea.Cmd) {
	if msg.transcript != m.transcript {
		return m, nil
	}
	m.refreshViewport(false)
	cmds := []tea.Cmd{m.transcript.wait()}
	if m.snap.noticeSeq != m.noticeSeq {
		m.noticeSeq = m.snap.noticeSeq
		cmds = append(cmds, m.setStatus(m.snap.notice.Kind, m.snap.notice.Text))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSentMsg(msg sentMsg) (tea.Model, tea.Cmd) {
	if msg.transcript != m.transcript {
		return m, nil
	}
	m.sending = false
	if msg.err != nil {
		// Session already reported it; keep the text for another try.
		return m, nil
	}
	m.input.Reset()
	m.resize()
	m.viewport.GotoBottom()
	return m, nil
}

func (m *Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.transcript != m.transcript || msg.err != nil {
		return m, nil
	}
	switch msg.action {
	case session.ActionCopy:
		return m, m.setStatus(session.NoticeInfo, m.tr.T("Copied"))
	case session.ActionDelete:
		if m.selected == msg.id {
			m.selected = ""
		}
	}
	m.refreshViewport(false)
	return m, nil
}

// setStatus shows text on the status line until it times out or is replaced.
func (m *Model) setStatus(kind session.NoticeKind, text string) tea.Cmd {
	m.status = text
	m.statusKind = kind
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func describeError(err error, offline string) string {
	if api.IsTransport(err) {
		return offline
	}
	return api.Describe(err)
}

func (m *Model) handleRoomsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.rooms.filter.Value() == "" {
			return m, tea.Quit
		}
		m.rooms.filter.SetValue("")
		m.rooms.applyFilter()
		return m, nil
	case "up", "ctrl+p":
		m.rooms.move(-1)
		return m, nil
	case "down", "ctrl+n":
		m.rooms.move(1)
		return m, nil
	case "ctrl+r":
		m.rooms.loading = true
		return m, loadRoomsCmd(m.ctx, m.opts.Client, 0)
	case "enter":
		room, ok := m.rooms.selected()
		if !ok {
			return m, nil
		}
		return m, m.openRoom(selectorFor(room))
	}
	var cmd tea.Cmd
	m.rooms.filter, cmd = m.rooms.filter.Update(msg)
	m.rooms.applyFilter()
	return m, cmd
}

func (m *Model) handleRoomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirmDelete != "" {
		id := m.confirmDelete
		m.confirmDelete = ""
		m.status = ""
		if key == "y" || key == "Y" {
			return m, m.deleteCmd(id)
		}
		return m, nil
	}

	switch key {
	case "esc":
		return m, m.handleEscape()
	case "enter":
		return m, m.sendCmd()
	case "alt+up", "ctrl+p":
		m.moveSelection(-1)
		return m, nil
	case "alt+down", "ctrl+n":
		m.moveSelection(1)
		return m, nil
	case "pgup":
		m.viewport.LineUp(halfPage(m.viewport.Height))
		return m, nil
	case "pgdown":
		m.viewport.LineDown(halfPage(m.viewport.Height))
		return m, nil
	case "alt+r":
		return m, m.replyToSelected()
	case "alt+c":
		return m, m.actOnSelected(session.ActionCopy)
	case "alt+d":
		return m, m.actOnSelected(session.ActionDelete)
	case "alt+h":
		return m, m.actOnSelected(session.ActionHide)
	case "alt+j":
		return m, m.joinCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.resize()
	return m, cmd
}

// handleEscape unwinds one level: reply target, selection, then the room.
func (m *Model) handleEscape() tea.Cmd {
	if m.session != nil && m.session.ReplyTarget() != "" {
		m.session.CancelReply()
		m.resize()
		return nil
	}
	if m.selected != "" {
		m.selected = ""
		m.refreshViewport(false)
		return nil
	}
	return m.backToRooms()
}

func (m *Model) sendCmd() tea.Cmd {
	if m.session == nil || m.sending {
		return nil
	}
	text := m.input.Value()
	if isBlank(text) {
		return nil
	}
	m.sending = true
	sess, transcript, ctx := m.session, m.transcript, m.ctx
	return func() tea.Msg {
		_, err := sess.Send(ctx, text)
		return sentMsg{transcript: transcript, err: err}
	}
}

func (m *Model) replyToSelected() tea.Cmd {
	if m.session == nil {
		return nil
	}
	if m.selected == "" {
		return m.setStatus(session.NoticeInfo, m.tr.T("Select a message first"))
	}
	if err := m.session.BeginReply(m.selected); err != nil {
		if errors.Is(err, session.ErrUnknownMessage) {
			m.selected = ""
		}
		return nil
	}
	m.resize()
	// session.Input drops the blink command of Focus; restart it here.
	return m.input.Focus()
}

func (m *Model) actOnSelected(action session.Action) tea.Cmd {
	if m.session == nil {
		return nil
	}
	if m.selected == "" {
		return m.setStatus(session.NoticeInfo, m.tr.T("Select a message first"))
	}
	view, ok := m.session.View(m.selected)
	if !ok {
		m.selected = ""
		return nil
	}
	if !view.Has(action) {
		return m.setStatus(session.NoticeInfo, m.tr.T("Only your messages can be changed"))
	}

	sess, transcript, ctx, id := m.session, m.transcript, m.ctx, view.ID
	switch action {
	case session.ActionDelete:
		m.confirmDelete = id
		m.status = m.tr.T("Please confirm you want to delete") + " (y/n)"
		m.statusKind = session.NoticeInfo
		m.statusSeq++
		return nil
	case session.ActionCopy:
		return func() tea.Msg {
			return actionDoneMsg{transcript: transcript, action: action, id: id, err: sess.Copy(id)}
		}
	case session.ActionHide:
		return func() tea.Msg {
			return actionDoneMsg{transcript: transcript, action: action, id: id, err: sess.HideFromAI(ctx, id)}
		}
	}
	return nil
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	if m.session == nil {
		return nil
	}
	sess, transcript, ctx := m.session, m.transcript, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{transcript: transcript, action: session.ActionDelete, id: id, err: sess.Delete(ctx, id)}
	}
}

func (m *Model) joinCmd() tea.Cmd {
	if m.session == nil || m.snap.room.Joined {
		return nil
	}
	sess, transcript, ctx := m.session, m.transcript, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{transcript: transcript, action: actionJoin, err: sess.Join(ctx)}
	}
}

const actionJoin session.Action = "Join this group"

// moveSelection steps through the rendered messages. Starting without a
// selection picks the newest message.
func (m *Model) moveSelection(delta int) {
	if len(m.order) == 0 {
		return
	}
	idx := -1
	for i, id := range m.order {
		if id == m.selected {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		idx = len(m.order) - 1
	default:
		idx += delta
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.order) {
		idx = len(m.order) - 1
	}
	m.selectMessage(m.order[idx])
}

// selectMessage highlights id and scrolls it into view.
func (m *Model) selectMessage(id string) {
	m.selected = id
	m.refreshViewport(false)
	offset, ok := m.offsets[id]
	if !ok {
		return
	}
	if offset < m.viewport.YOffset || offset >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(offset)
	}
}

func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if handled, cmd := m.handleMouseClick(msg); handled {
			return m, cmd
		}
	}
	if m.screen == screenRooms {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.rooms.move(-1)
		case tea.MouseButtonWheelDown:
			m.rooms.move(1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleMouseClick(msg tea.MouseMsg) (bool, tea.Cmd) {
	if m.screen == screenRooms {
		for i, idx := range m.rooms.visible {
			room := m.rooms.rooms[idx]
			if m.zoneManager.Get(roomZoneID(room.RoomID)).InBounds(msg) {
				m.rooms.cursor = i
				return true, m.openRoom(selectorFor(room))
			}
		}
		return false, nil
	}

	if m.session != nil && m.session.ReplyTarget() != "" && m.zoneManager.Get("reply-cancel").InBounds(msg) {
		m.session.CancelReply()
		m.resize()
		return true, nil
	}
	if m.zoneManager.Get("join").InBounds(msg) {
		return true, m.joinCmd()
	}
	for _, e := range m.snap.entries {
		if e.kind != entryMessage {
			continue
		}
		if e.view.Reply != nil && e.view.Reply.MessageID != "" && m.zoneManager.Get(replyZoneID(e.view.ID)).InBounds(msg) {
			m.selectMessage(e.view.Reply.MessageID)
			return true, nil
		}
		if m.zoneManager.Get(messageZoneID(e.view.ID)).InBounds(msg) {
			if m.selected == e.view.ID {
				m.selected = ""
				m.refreshViewport(false)
			} else {
				m.selectMessage(e.view.ID)
			}
			return true, nil
		}
	}
	return false, nil
}
