package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/session"
)

// NewJoinCmd creates the join command.
func NewJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join <room>",
		Short: "Join a room",
		Long:  `Join a room by id, or by group and join key ("g=3&k=991").`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			var name string
			var already bool
			err = withRoom(cmd.Context(), ctx, args[0], noticePrinter(cmd, ctx), func(sess *session.Session) error {
				room := sess.Room()
				name = room.Name
				if room.Joined {
					already = true
					return nil
				}
				return sess.Join(cmd.Context())
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				payload := map[string]any{"room": name, "joined": true, "already": already}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
			}
			if already {
				fmt.Fprintf(cmd.OutOrStdout(), "Already a member of %s\n", name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined %s\n", name)
			return nil
		},
	}

	return cmd
}
