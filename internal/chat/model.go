package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/driima/chat/internal/config"
	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/logger"
	"github.com/driima/chat/internal/markdown"
	"github.com/driima/chat/internal/session"
	"github.com/driima/chat/internal/types"
)

// Client is what the chat UI needs from the server.
type Client interface {
	session.Client
	Rooms(ctx context.Context) ([]types.RoomSummary, error)
}

// Options configure chat.
type Options struct {
	Config     config.Config
	Client     Client
	Translator i18n.Translator
	Flags      session.Flags
	Cache      session.Cache
	Clipboard  session.Clipboard
	Alerter    Alerter
	Markdown   *markdown.Renderer
	// Room opens straight into a room instead of the rooms list.
	Room *types.RoomSelector

	location *time.Location
	manual   bool
}

// Run starts the chat UI.
func Run(ctx context.Context, opts Options) error {
	model, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Printf("\033]0;%s\007", "driima")

	program := tea.NewProgram(model, tea.WithMouseCellMotion())
	_, err = program.Run()
	model.Close()
	return err
}

type screen int

const (
	screenRooms screen = iota
	screenRoom
)

// Model implements the chat UI.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options
	tr     i18n.Translator
	md     *markdown.Renderer
	log    *logger.LogEntry

	screen      screen
	rooms       roomList
	viewport    viewport.Model
	input       textarea.Model
	zoneManager *zone.Manager
	width       int
	height      int

	session    *session.Session
	transcript *Transcript
	snap       snapshot
	opening    bool
	sending    bool
	// order and offsets index the rendered messages for selection and jumps.
	order   []string
	offsets map[string]int
	bodies  map[string]renderedBody

	selected      string
	confirmDelete string
	status        string
	statusKind    session.NoticeKind
	statusSeq     uint64
	noticeSeq     uint64
}

type renderedBody struct {
	width   int
	content string
	out     string
}

// NewModel builds the UI on the rooms list, or on opts.Room when set.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("chat: client is required")
	}
	if opts.Translator == nil {
		opts.Translator = i18n.Identity{}
	}
	if opts.Markdown == nil {
		opts.Markdown = markdown.New(opts.Config.Style)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	if opts.location == nil {
		opts.location = time.Local
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:         ctx,
		cancel:      cancel,
		opts:        opts,
		tr:          opts.Translator,
		md:          opts.Markdown,
		log:         logger.Named("chat"),
		rooms:       newRoomList(opts.Translator),
		viewport:    viewport.New(0, 0),
		input:       newInputModel(opts.Translator),
		zoneManager: zone.New(),
		offsets:     make(map[string]int),
		bodies:      make(map[string]renderedBody),
	}, nil
}

func (m *Model) Init() tea.Cmd {
	if m.opts.Room != nil {
		return m.openRoom(*m.opts.Room)
	}
	return loadRoomsCmd(m.ctx, m.opts.Client, 0)
}

// Close stops the open room and cancels outstanding requests.
func (m *Model) Close() {
	m.closeRoom()
	m.cancel()
	m.zoneManager.Close()
}

type roomOpenedMsg struct {
	session    *session.Session
	transcript *Transcript
	err        error
}

// openRoom switches to the room screen and opens sel in the background. The
// transcript starts receiving the cached copy or first page while Open runs.
func (m *Model) openRoom(sel types.RoomSelector) tea.Cmd {
	m.closeRoom()
	transcript := NewTranscript(m.alerter())
	m.transcript = transcript
	m.screen = screenRoom
	m.opening = true
	m.snap = snapshot{room: types.Room{ID: sel.RoomID}}
	m.order = nil
	m.offsets = make(map[string]int)
	m.selected = ""
	m.confirmDelete = ""
	m.input.Reset()
	m.resize()

	opts := session.Options{
		Selector:     sel,
		Client:       m.opts.Client,
		Surface:      transcript,
		Notifier:     transcript,
		Input:        textInput{model: &m.input},
		Translator:   m.tr,
		Flags:        m.opts.Flags,
		Cache:        m.opts.Cache,
		Clipboard:    m.opts.Clipboard,
		PollInterval: m.opts.Config.PollInterval.Duration,
		Location:     m.opts.location,
		Manual:       m.opts.manual,
	}
	ctx := m.ctx
	open := func() tea.Msg {
		sess, err := session.Open(ctx, opts)
		return roomOpenedMsg{session: sess, transcript: transcript, err: err}
	}
	return tea.Batch(open, transcript.wait())
}

func (m *Model) closeRoom() {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
	if m.transcript != nil {
		m.transcript.Close()
		m.transcript = nil
	}
	m.sending = false
}

// backToRooms closes the room and refetches the rooms list.
func (m *Model) backToRooms() tea.Cmd {
	roomID := m.snap.room.ID
	m.closeRoom()
	m.screen = screenRooms
	m.rooms.loading = true
	m.status = ""
	return loadRoomsCmd(m.ctx, m.opts.Client, roomID)
}

func (m *Model) alerter() Alerter {
	if !m.opts.Config.Notify {
		return nil
	}
	if m.opts.Alerter != nil {
		return m.opts.Alerter
	}
	return DesktopAlerter{}
}
