package command

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/chat"
	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/types"
)

const (
	roomNameWidth    = 24
	roomPreviewWidth = 48
)

// NewRoomsCmd creates the rooms command.
func NewRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List your rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, _ := cmd.Flags().GetString("match")
			matcher, err := compileRoomMatcher(pattern)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			rooms, err := ctx.Client.Rooms(cmd.Context())
			if err != nil {
				return writeCommandError(cmd, err)
			}
			rooms = filterRooms(rooms, matcher)

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(rooms)
			}
			out := cmd.OutOrStdout()
			if len(rooms) == 0 {
				fmt.Fprintln(out, ctx.Translator.T("No rooms"))
				return nil
			}
			now := time.Now()
			for _, room := range rooms {
				fmt.Fprintln(out, formatRoomRow(room, now, ctx.Translator))
			}
			return nil
		},
	}

	cmd.Flags().String("match", "", "only rooms whose name matches a glob (case-insensitive)")
	return cmd
}

func compileRoomMatcher(pattern string) (glob.Glob, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, nil
	}
	matcher, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid --match pattern %q: %w", pattern, err)
	}
	return matcher, nil
}

func filterRooms(rooms []types.RoomSummary, matcher glob.Glob) []types.RoomSummary {
	if matcher == nil {
		return rooms
	}
	filtered := make([]types.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		if matcher.Match(strings.ToLower(room.DisplayName())) {
			filtered = append(filtered, room)
		}
	}
	return filtered
}

func formatRoomRow(room types.RoomSummary, now time.Time, tr i18n.Translator) string {
	name := runewidth.FillRight(runewidth.Truncate(room.DisplayName(), roomNameWidth, "…"), roomNameWidth)

	when := ""
	if room.LatestDateSent != nil && !room.LatestDateSent.IsZero() {
		when = humanize.RelTime(room.LatestDateSent.Time, now, "ago", "from now")
	}
	preview := strings.Join(strings.Fields(chat.LatestPreview(room, tr)), " ")
	preview = runewidth.Truncate(preview, roomPreviewWidth, "…")

	line := fmt.Sprintf("%6d  %s  %s", room.RoomID, name, runewidth.FillRight(preview, roomPreviewWidth))
	if when != "" {
		line += "  " + when
	}
	return strings.TrimRight(line, " ")
}
