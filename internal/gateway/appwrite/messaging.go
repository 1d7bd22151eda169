package appwrite

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

func (c *Client) CreateSMS(ctx context.Context, messageID, content string, topics, userIDs []string) (*gateway.Receipt, error) {
	if topics == nil {
		topics = []string{}
	}
	if userIDs == nil {
		userIDs = []string{}
	}

	var receipt gateway.Receipt
	body := map[string]any{
		"messageId": messageID,
		"content":   content,
		"topics":    topics,
		"users":     userIDs,
	}
	err := c.do(ctx, http.MethodPost, "/messaging/messages/sms", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}
