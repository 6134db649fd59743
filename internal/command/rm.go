package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/session"
)

// NewRmCmd creates the rm command.
func NewRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <room> <msgid>",
		Short: "Delete one of your messages",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimPrefix(strings.TrimSpace(args[1]), "#")

			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			err = withRoom(cmd.Context(), ctx, args[0], noticePrinter(cmd, ctx), func(sess *session.Session) error {
				view, ok := sess.View(id)
				if !ok {
					return fmt.Errorf("message not found: %s", id)
				}
				if !view.Has(session.ActionDelete) {
					return fmt.Errorf("only your messages can be deleted: %s", id)
				}
				return sess.Delete(cmd.Context(), id)
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				payload := map[string]any{"id": id, "deleted": true}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted message #%s\n", id)
			return nil
		},
	}

	return cmd
}
