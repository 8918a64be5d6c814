package api

import (
	"context"

	"tasky-cli/internal/model"
)

// Summary requests an AI summary. A server-side refusal arrives as *Error whose
// Message carries the server's guidance text.
func (c *Client) Summary(ctx context.Context, req model.SummaryRequest) (model.SummaryResult, error) {
	var out model.SummaryResult
	if err := c.post(ctx, "/api/ai/summary", req, &out); err != nil {
		return model.SummaryResult{}, err
	}
	if out.Error != "" {
		return model.SummaryResult{}, &Error{Status: 200, Message: out.Error}
	}
	return out, nil
}

func (c *Client) SummaryCacheStatus(ctx context.Context) (model.CacheStatus, error) {
	var out model.CacheStatus
	err := c.get(ctx, "/api/ai/summary/cache-status", &out)
	return out, err
}
