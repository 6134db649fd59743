package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/api"
	"github.com/driima/chat/internal/db"
)

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget cached rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			// Local state is cleared even when the server cannot be reached.
			logoutErr := ctx.Client.Logout(cmd.Context())
			if err := db.ClearRoomCache(ctx.DB); err != nil {
				return writeCommandError(cmd, err)
			}
			if logoutErr != nil && !api.IsTransport(logoutErr) {
				return writeCommandError(cmd, logoutErr)
			}

			if ctx.JSONMode {
				payload := map[string]any{"signed_out": true, "server_reached": logoutErr == nil}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
			}
			if logoutErr != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out locally (server unreachable)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}

	return cmd
}
