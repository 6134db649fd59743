package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "driima"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "driima - terminal client for driima chat rooms",
		Long:          "driima opens chat rooms shared with people and an AI assistant, in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, args)
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config", "", "config file (default ~/.driima/config.toml)")
	cmd.PersistentFlags().StringArrayP("set", "c", nil, "override a config key (key=value)")
	cmd.PersistentFlags().String("server", "", "server base URL")
	cmd.PersistentFlags().String("lang", "", "display language (en, fr)")
	cmd.PersistentFlags().Bool("debug", false, "log at debug level")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")

	cmd.AddCommand(
		NewChatCmd(),
		NewRoomsCmd(),
		NewTailCmd(),
		NewPostCmd(),
		NewRmCmd(),
		NewHideCmd(),
		NewJoinCmd(),
		NewLoginCmd(),
		NewLogoutCmd(),
		NewConfigCmd(),
	)

	return cmd
}

func Execute() error {
	return NewRootCmd(Version).Execute()
}
