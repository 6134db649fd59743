package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/session"
)

// NewHideCmd creates the hide command.
func NewHideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hide <room> <msgid>",
		Short: "Hide a message and everything before it from the AI",
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
				if !view.Has(session.ActionHide) {
					return fmt.Errorf("only your messages can be hidden from AI: %s", id)
				}
				return sess.HideFromAI(cmd.Context(), id)
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				payload := map[string]any{"id": id, "skipped": true}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Messages up to #%s are hidden from AI\n", id)
			return nil
		},
	}

	return cmd
}
