package command

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/api"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in to the server",
		Long: `Sign in with a username and password, or as a new anonymous account.

Without --password the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anonymous, _ := cmd.Flags().GetBool("anonymous")
			password, _ := cmd.Flags().GetString("password")

			var creds api.Credentials
			switch {
			case anonymous:
				if len(args) > 0 {
					return writeCommandError(cmd, fmt.Errorf("--anonymous does not take a username"))
				}
				creds = api.AnonymousCredentials()
			case len(args) == 0:
				return writeCommandError(cmd, fmt.Errorf("username is required (or use --anonymous)"))
			default:
				creds.Username = args[0]
				if password == "" {
					line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if err != nil && line == "" {
						return writeCommandError(cmd, fmt.Errorf("read password: %w", err))
					}
					password = strings.TrimRight(line, "\r\n")
				}
				creds.Password = password
			}

			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			if err := ctx.Client.Login(cmd.Context(), creds); err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				payload := map[string]any{"username": creds.Username, "anonymous": anonymous, "server": ctx.Client.BaseURL()}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
			}
			if anonymous {
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in anonymously to %s\n", ctx.Client.BaseURL())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s to %s\n", creds.Username, ctx.Client.BaseURL())
			return nil
		},
	}

	cmd.Flags().String("password", "", "password (default: read from stdin)")
	cmd.Flags().Bool("anonymous", false, "create and use an anonymous account")
	return cmd
}
