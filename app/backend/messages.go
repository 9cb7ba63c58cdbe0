package backend

import (
	"context"
	"net/http"
	"strconv"

	"rentals-dashboard/app/models"
)

type MessageInput struct {
	RecipientID *int64
	ParentID    *int64
	Subject     string
	Content     string
	Type        models.MessageType
	Attachments []File
}

func (in MessageInput) fields() map[string][]string {
	f := map[string][]string{
		"subject": {in.Subject},
		"content": {in.Content},
		"type":    {string(in.Type)},
	}
	if in.RecipientID != nil {
		f["recipient_id"] = []string{strconv.FormatInt(*in.RecipientID, 10)}
	}
	if in.ParentID != nil {
		f["parent_id"] = []string{strconv.FormatInt(*in.ParentID, 10)}
	}
	return f
}

func (c *Client) ListMessages(ctx context.Context) ([]models.Message, error) {
	var out []models.Message
	err := c.getJSON(ctx, "/api/messages", nil, &out)
	return out, err
}

func (c *Client) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	var out models.Message
	if err := c.getJSON(ctx, idPath("/api/messages", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListReplies(ctx context.Context, id int64) ([]models.Message, error) {
	var out []models.Message
	err := c.getJSON(ctx, idPath("/api/messages", id, "replies"), nil, &out)
	return out, err
}

// SendMessage posts a message with its attachments as multipart/form-data.
func (c *Client) SendMessage(ctx context.Context, in MessageInput) (*models.Message, error) {
	var out models.Message
	if err := c.doMultipart(ctx, "/api/messages", in.fields(), "attachments", in.Attachments, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, idPath("/api/messages", id, "read"), nil, nil, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/messages", id), nil, nil, nil)
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.getJSON(ctx, "/api/messages/unread-count", nil, &out)
	return out.Count, err
}
