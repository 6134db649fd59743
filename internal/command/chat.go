package command

import (
	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/chat"
	"github.com/driima/chat/internal/types"
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [room]",
		Short: "Open the interactive chat",
		Long: `Open the interactive chat on the rooms list, or straight into a room.

A room is a room id ("12") or a selector ("r=12", "g=3&k=991").`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, args)
		},
	}
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	var room *types.RoomSelector
	if len(args) == 1 {
		sel, err := types.ParseRoomSelector(args[0])
		if err != nil {
			return writeCommandError(cmd, err)
		}
		room = &sel
	}

	ctx, err := GetContext(cmd)
	if err != nil {
		return writeCommandError(cmd, err)
	}
	defer ctx.Close()

	opts := chat.Options{
		Config:     ctx.Config,
		Client:     ctx.Client,
		Translator: ctx.Translator,
		Flags:      ctx.State,
		Cache:      ctx.State,
		Clipboard:  chat.SystemClipboard{},
		Room:       room,
	}
	if err := chat.Run(cmd.Context(), opts); err != nil {
		return writeCommandError(cmd, err)
	}
	return nil
}
