package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/driima/chat/internal/api"
	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/logger"
	"github.com/driima/chat/internal/markdown"
	"github.com/driima/chat/internal/types"
)

// Client is the subset of the api client a room needs.
type Client interface {
	RoomMessages(ctx context.Context, sel types.RoomSelector, since types.Timestamp) (types.MessagePage, error)
	SendMessage(ctx context.Context, req types.SendRequest) (types.SendResult, error)
	DeleteMessage(ctx context.Context, id string) error
	HideFromAI(ctx context.Context, id string) error
	JoinRoom(ctx context.Context, sel types.RoomSelector) error
}

// Cache keeps fetched rooms between runs.
type Cache interface {
	LoadRoom(roomID int64) (types.MessagePage, bool, error)
	SaveRoom(page types.MessagePage) error
	TombstoneMessage(roomID int64, id string) error
}

// Clipboard receives copied message text.
type Clipboard interface {
	WriteAll(text string) error
}

// Options configures Open.
type Options struct {
	Selector     types.RoomSelector
	Client       Client
	Surface      Surface
	Notifier     Notifier
	Input        Input
	Translator   i18n.Translator
	Flags        Flags
	Cache        Cache
	Clipboard    Clipboard
	PollInterval time.Duration
	Location     *time.Location
	// Manual disables the poll loop; callers drive Poll themselves.
	Manual bool
}

// Session is one open room: its store, skip marker, composer, renderer and
// poll loop. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	sel       types.RoomSelector
	client    Client
	surface   Surface
	notifier  Notifier
	tr        i18n.Translator
	cache     Cache
	clipboard Clipboard
	log       *logger.LogEntry

	room     types.Room
	store    *Store
	skip     *SkipMarker
	composer *Composer
	renderer *Renderer
	conn     Connectivity
	loaded   bool
	closed   bool

	loop *Loop
}

// Open builds the room, renders the cached copy or the first fetch, and
// starts polling. Fetch failures are reported through the notifier and do
// not fail Open.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("session: client is required")
	}
	if opts.Selector.RoomID == 0 && opts.Selector.GroupID == 0 {
		return nil, fmt.Errorf("session: room selector is empty")
	}
	if opts.Surface == nil {
		opts.Surface = discardSurface{}
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Translator == nil {
		opts.Translator = i18n.Identity{}
	}

	store := NewStore()
	skip := NewSkipMarker(opts.Surface, opts.Flags)
	s := &Session{
		sel:       opts.Selector,
		client:    opts.Client,
		surface:   opts.Surface,
		notifier:  opts.Notifier,
		tr:        opts.Translator,
		cache:     opts.Cache,
		clipboard: opts.Clipboard,
		log:       logger.Named("session").WithField("room", opts.Selector.RoomID),
		room:      types.Room{ID: opts.Selector.RoomID},
		store:     store,
		skip:      skip,
		composer:  NewComposer(opts.Input, opts.Translator),
		renderer:  NewRenderer(store, skip, opts.Surface, opts.Translator, opts.Location),
	}

	if !s.loadCached() {
		if err := s.Poll(ctx); err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if !opts.Manual {
		s.loop = NewLoop(opts.PollInterval, func(ctx context.Context) {
			_ = s.Poll(ctx)
		})
		s.loop.Start(ctx)
	}
	return s, nil
}

// loadCached renders the cached copy of the room, if any.
func (s *Session) loadCached() bool {
	if s.cache == nil || s.sel.RoomID == 0 {
		return false
	}
	page, ok, err := s.cache.LoadRoom(s.sel.RoomID)
	if err != nil {
		s.log.WithError(err).Warn("load cached room failed")
		return false
	}
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyPage(page, true)
	s.log.WithField("messages", len(page.Messages)).Debug("rendered cached room")
	return true
}

// Close stops the poll loop. Responses still in flight are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	loop := s.loop
	s.mu.Unlock()

	if loop != nil {
		loop.Stop()
	}
	s.log.Debug("room closed")
}

// Poll fetches the messages sent after the cursor and applies them.
func (s *Session) Poll(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	sel, since := s.sel, s.store.Cursor()
	s.mu.Unlock()

	page, err := s.client.RoomMessages(ctx, sel, since)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	wasOnline := s.conn.Online()
	if s.conn.Observe(err) {
		s.reportLocked(err)
	}
	if wasOnline != s.conn.Online() {
		s.log.WithField("online", s.conn.Online()).Info("connectivity changed")
	}
	if err != nil {
		s.log.WithError(err).WithField("cursor", since.String()).Debug("poll failed")
		return err
	}

	s.applyPage(page, false)
	if s.cache != nil {
		if err := s.cache.SaveRoom(s.cachedCopy(page)); err != nil {
			s.log.WithError(err).Warn("save room cache failed")
		}
	}
	return nil
}

// applyPage merges a page. Callers hold s.mu.
func (s *Session) applyPage(page types.MessagePage, fromCache bool) {
	// The boundary is applied first so messages rendered below pick it up.
	s.skip.SetSkipped(page.Room.SkippedMessageID)

	firstLoad := !s.loaded
	room := page.Room
	if room.ID == 0 {
		room.ID = s.room.ID
	}
	if room != s.room || firstLoad {
		s.room = room
		s.surface.SetRoom(room)
	}
	if s.sel.RoomID == 0 {
		s.sel.RoomID = room.ID
	}

	result := s.store.Merge(page.Messages)
	for _, id := range result.Tombstoned {
		s.surface.RemoveMessage(id)
		s.composer.Invalidate(id)
	}
	for _, msg := range result.Added {
		if !s.renderer.Append(msg) {
			continue
		}
		if !firstLoad && !fromCache {
			s.maybeNotifyReply(msg)
		}
	}
	if firstLoad && len(result.Added) > 0 {
		s.surface.ScrollToBottom()
	}
	s.loaded = true
	if len(result.Added) > 0 || len(result.Tombstoned) > 0 {
		s.log.WithField("added", len(result.Added)).
			WithField("tombstoned", len(result.Tombstoned)).
			WithField("cursor", s.store.Cursor().String()).
			Debug("merged page")
	}
}

// maybeNotifyReply announces AI answers to the user's own messages.
func (s *Session) maybeNotifyReply(msg types.Message) {
	if msg.SentByMe || !i18n.IsAI(msg.SenderName) || msg.Parent() == "" {
		return
	}
	if !s.store.Owned(msg.Parent()) {
		return
	}
	s.notifier.Notify(Notice{
		Kind: NoticeAIReply,
		Text: s.tr.T("AI replied to you") + ": " + markdown.Plain(truncatePreview(msg.Text())),
	})
}

// cachedCopy returns the page with each message replaced by its stored
// version, so tombstones stay tombstones in the cache.
func (s *Session) cachedCopy(page types.MessagePage) types.MessagePage {
	out := types.MessagePage{Room: s.room, Messages: make([]types.Message, 0, len(page.Messages))}
	for _, msg := range page.Messages {
		if stored, ok := s.store.Get(msg.ID); ok {
			out.Messages = append(out.Messages, stored)
		}
	}
	return out
}

func (s *Session) reportLocked(err error) {
	if api.IsTransport(err) {
		s.notifier.Notify(Notice{Kind: NoticeOffline, Text: s.tr.T("You are offline")})
		return
	}
	s.notifier.Notify(Notice{Kind: NoticeError, Text: api.Describe(err)})
}

func (s *Session) report(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportLocked(err)
}

func (s *Session) notify(kind NoticeKind, key string) {
	s.notifier.Notify(Notice{Kind: kind, Text: s.tr.T(key)})
}

// Room returns the latest room info.
func (s *Session) Room() types.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// Message returns a stored message.
func (s *Session) Message(id string) (types.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// Messages returns every stored message in arrival order.
func (s *Session) Messages() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Messages()
}

// View projects a stored message.
func (s *Session) View(id string) (MessageView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.store.Get(id)
	if !ok {
		return MessageView{}, false
	}
	return s.renderer.Project(msg), true
}

// Cursor returns the fetch watermark.
func (s *Session) Cursor() types.Timestamp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Cursor()
}

// SkippedMessageID returns the current skip boundary.
func (s *Session) SkippedMessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skip.Current()
}

// BeginReply targets id for the next send. In an unjoined room the target is
// left unchanged and a notice is shown.
func (s *Session) BeginReply(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.store.Get(id)
	if !ok {
		return ErrUnknownMessage
	}
	if err := s.composer.Begin(msg, s.room.Joined); err != nil {
		if errors.Is(err, ErrNotJoined) {
			s.notify(NoticeInfo, "Join this group")
		}
		return err
	}
	return nil
}

// CancelReply clears the reply target.
func (s *Session) CancelReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composer.Cancel()
}

// ReplyTarget returns the current reply target id, or "".
func (s *Session) ReplyTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composer.Target()
}

// ReplyPreview returns the preview of the reply target.
func (s *Session) ReplyPreview() (ReplySnippet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composer.Preview()
}

// Send posts text as a new message, replying to the current target if any.
// On success the target is cleared and an immediate poll is requested; the
// caller clears its input. On failure the target is kept.
func (s *Session) Send(ctx context.Context, text string) (types.SendResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.SendResult{}, ErrClosed
	}
	req, ok := s.composer.BuildSendPayload(s.room.ID, text)
	s.mu.Unlock()
	if !ok {
		return types.SendResult{}, ErrEmptyMessage
	}

	result, err := s.client.SendMessage(ctx, req)
	if err != nil {
		s.log.WithError(err).Warn("send failed")
		s.report(err)
		return types.SendResult{}, err
	}

	s.mu.Lock()
	s.composer.Cancel()
	if result.AIIsBusy {
		s.notify(NoticeInfo, "AI is busy responding, please wait")
	}
	loop := s.loop
	s.mu.Unlock()

	if loop != nil {
		loop.Trigger()
	}
	s.log.WithField("reply", req.ParentID != nil).Info("message sent")
	return result, nil
}

// Delete deletes a message on the server, then tombstones and removes it
// locally.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.store.Get(id); !ok {
		s.mu.Unlock()
		return ErrUnknownMessage
	}
	roomID := s.room.ID
	s.mu.Unlock()

	if err := s.client.DeleteMessage(ctx, id); err != nil {
		s.log.WithError(err).WithField("message", id).Warn("delete failed")
		s.report(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Tombstone(id)
	s.surface.RemoveMessage(id)
	s.composer.Invalidate(id)
	if s.cache != nil {
		if err := s.cache.TombstoneMessage(roomID, id); err != nil {
			s.log.WithError(err).Warn("tombstone cached message failed")
		}
	}
	s.notify(NoticeInfo, "Message deleted")
	return nil
}

// HideFromAI moves the skip boundary to id. The first use on this client
// explains what hiding does.
func (s *Session) HideFromAI(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.store.Get(id); !ok {
		s.mu.Unlock()
		return ErrUnknownMessage
	}
	explain, err := s.skip.ExplainOnce()
	if err != nil {
		s.log.WithError(err).Warn("notice flag failed")
	}
	if explain {
		s.notify(NoticeInfo, "All prior messages will be skipped")
	}
	s.mu.Unlock()

	if err := s.client.HideFromAI(ctx, id); err != nil {
		s.log.WithError(err).WithField("message", id).Warn("hide from AI failed")
		s.report(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.skip.SetSkipped(id)
	s.room.SkippedMessageID = id
	return nil
}

// Join joins the room.
func (s *Session) Join(ctx context.Context) error {
	s.mu.Lock()
	sel := s.sel
	s.mu.Unlock()

	if err := s.client.JoinRoom(ctx, sel); err != nil {
		s.log.WithError(err).Warn("join failed")
		s.report(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.room.Joined = true
	s.surface.SetRoom(s.room)
	return nil
}

// Copy writes the content of id to the clipboard.
func (s *Session) Copy(id string) error {
	s.mu.Lock()
	msg, ok := s.store.Get(id)
	clip := s.clipboard
	s.mu.Unlock()
	if !ok {
		return ErrUnknownMessage
	}
	err := errors.New("clipboard unavailable")
	if clip != nil {
		err = clip.WriteAll(msg.Text())
	}
	if err != nil {
		s.log.WithError(err).Warn("copy failed")
		s.mu.Lock()
		s.notify(NoticeError, "Failed to copy the message")
		s.mu.Unlock()
		return err
	}
	return nil
}
