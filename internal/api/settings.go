package api

import (
	"context"

	"tasky-cli/internal/model"
)

func (c *Client) Config(ctx context.Context) (model.Config, error) {
	var out model.Config
	if err := c.get(ctx, "/api/config", &out); err != nil {
		return model.Config{}, err
	}
	return out, nil
}

func (c *Client) SaveConfig(ctx context.Context, cfg model.Config) error {
	return c.post(ctx, "/api/config", cfg, nil)
}

func (c *Client) Settings(ctx context.Context) (model.Settings, error) {
	var out model.Settings
	if err := c.get(ctx, "/api/settings", &out); err != nil {
		return model.Settings{}, err
	}
	return out, nil
}

// SaveSettings posts s. A masked key is never re-sent; the server keeps its stored key.
func (c *Client) SaveSettings(ctx context.Context, s model.Settings) error {
	if s.KeyMasked() {
		s.APIKey = ""
	}
	return c.post(ctx, "/api/settings", s, nil)
}
