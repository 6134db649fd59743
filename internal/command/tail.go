package command

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/chat"
)

// NewTailCmd creates the tail command.
func NewTailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail <room>",
		Short: "Print a room and follow new messages",
		Long: `Print the messages of a room, then keep polling and print new ones
until interrupted. With --once, print and exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			once, _ := cmd.Flags().GetBool("once")

			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			printer := newLinePrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), ctx.JSONMode, ctx.Translator)
			if ctx.Config.Notify && !once {
				printer.alerter = chat.DesktopAlerter{}
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := openSession(runCtx, ctx, args[0], printer, once)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer sess.Close()

			if !once {
				<-runCtx.Done()
			}
			return nil
		},
	}

	cmd.Flags().Bool("once", false, "print the room and exit")
	return cmd
}
