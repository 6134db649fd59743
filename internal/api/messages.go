package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/driima/chat/internal/types"
)

// SendMessage posts a message. The result reports whether the AI is still
// busy answering an earlier message.
func (c *Client) SendMessage(ctx context.Context, req types.SendRequest) (types.SendResult, error) {
	var result types.SendResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/message/send", nil, req, &result); err != nil {
		return types.SendResult{}, err
	}
	return result, nil
}

// DeleteMessage deletes one of the caller's messages.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/message/delete", idQuery(id), nil, nil)
}

// HideFromAI moves the room's skip boundary to id.
func (c *Client) HideFromAI(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPatch, "/api/message/hide-from-ai", idQuery(id), nil, nil)
}

func idQuery(id string) url.Values {
	query := url.Values{}
	query.Set("id", id)
	return query
}
