package stream

import (
	"context"
	"fmt"

	stream_chat "github.com/GetStream/stream-chat-go/v5"
)

// UserProfile is the identity pushed to the chat provider so it can
// address the same user. Language and location fields are optional and
// only set once the user has onboarded.
type UserProfile struct {
	ID               string
	Name             string
	Image            string
	NativeLanguage   string
	LearningLanguage string
	Location         string
}

// Client wraps the chat provider's API for identity upserts.
type Client struct {
	api *stream_chat.Client
}

func NewClient(apiKey, apiSecret string) (*Client, error) {
	api, err := stream_chat.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("create stream client: %w", err)
	}
	return &Client{api: api}, nil
}

// UpsertUser creates or updates the user on the chat provider side.
func (c *Client) UpsertUser(ctx context.Context, p UserProfile) error {
	u := &stream_chat.User{
		ID:    p.ID,
		Name:  p.Name,
		Image: p.Image,
	}
	if p.NativeLanguage != "" || p.LearningLanguage != "" || p.Location != "" {
		u.ExtraData = map[string]interface{}{
			"nativeLanguage":   p.NativeLanguage,
			"learningLanguage": p.LearningLanguage,
			"location":         p.Location,
		}
	}
	if _, err := c.api.UpsertUser(ctx, u); err != nil {
		return fmt.Errorf("upsert stream user: %w", err)
	}
	return nil
}
