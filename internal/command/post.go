package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/session"
)

// NewPostCmd creates the post command.
func NewPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <room> <message...>",
		Short: "Send a message to a room",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			replyTo, _ := cmd.Flags().GetString("reply")
			replyTo = strings.TrimPrefix(strings.TrimSpace(replyTo), "#")
			text := strings.Join(args[1:], " ")

			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			var id string
			err = withRoom(cmd.Context(), ctx, args[0], noticePrinter(cmd, ctx), func(sess *session.Session) error {
				if replyTo != "" {
					if err := sess.BeginReply(replyTo); err != nil {
						return err
					}
				}
				result, err := sess.Send(cmd.Context(), text)
				if err != nil {
					return err
				}
				id = result.ID
				return nil
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				payload := map[string]any{"id": id, "reply_to": replyTo}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
			}
			if replyTo != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Replied to #%s\n", replyTo)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Message sent")
			return nil
		},
	}

	cmd.Flags().String("reply", "", "reply to a message id")
	return cmd
}
