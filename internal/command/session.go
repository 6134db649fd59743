package command

import (
	"context"

	"github.com/driima/chat/internal/session"
	"github.com/driima/chat/internal/types"
)

// openSession opens the room named by raw. Manual sessions are refreshed
// once before returning so actions see the server's latest messages.
func openSession(ctx context.Context, cc *CommandContext, raw string, printer *linePrinter, manual bool) (*session.Session, error) {
	sel, err := types.ParseRoomSelector(raw)
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, session.Options{
		Selector:     sel,
		Client:       cc.Client,
		Surface:      printer,
		Notifier:     printer,
		Translator:   cc.Translator,
		Flags:        cc.State,
		Cache:        cc.State,
		PollInterval: cc.Config.PollInterval.Duration,
		Manual:       manual,
	})
	if err != nil {
		return nil, err
	}
	if manual {
		if err := sess.Poll(ctx); err != nil {
			sess.Close()
			return nil, err
		}
	}
	return sess, nil
}

// withRoom opens a quiet session on raw for a one-shot action.
func withRoom(ctx context.Context, cc *CommandContext, raw string, printer *linePrinter, fn func(*session.Session) error) error {
	sess, err := openSession(ctx, cc, raw, printer, true)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess)
}
