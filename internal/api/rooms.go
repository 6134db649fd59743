package api

import (
	"context"
	"net/http"

	"github.com/driima/chat/internal/types"
)

// RoomMessages fetches the room info and every message sent after since.
// A zero since fetches the whole room.
func (c *Client) RoomMessages(ctx context.Context, sel types.RoomSelector, since types.Timestamp) (types.MessagePage, error) {
	query := sel.Values()
	query.Set("lastMessageDateSent", since.String())
	var page types.MessagePage
	if err := c.doJSON(ctx, http.MethodGet, "/api/room/messages", query, nil, &page); err != nil {
		return types.MessagePage{}, err
	}
	if page.Messages == nil {
		page.Messages = []types.Message{}
	}
	return page, nil
}

// Rooms lists the rooms the account can open.
func (c *Client) Rooms(ctx context.Context) ([]types.RoomSummary, error) {
	var list types.RoomList
	if err := c.doJSON(ctx, http.MethodGet, "/api/rooms", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Rooms, nil
}

// JoinRoom joins the room identified by sel.
func (c *Client) JoinRoom(ctx context.Context, sel types.RoomSelector) error {
	return c.doJSON(ctx, http.MethodPost, "/api/room/join", sel.Values(), nil, nil)
}
