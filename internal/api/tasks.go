package api

import (
	"context"
	"fmt"
	"net/url"

	"tasky-cli/internal/model"
)

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.get(ctx, "/api/tasks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask fetches one task; the backend has no single-task GET so this filters the list.
func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, &Error{Status: 404, Message: fmt.Sprintf("task not found: %s", id)}
}

func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.CreateTaskResult, error) {
	var out model.CreateTaskResult
	if err := c.post(ctx, "/api/tasks", t, &out); err != nil {
		return model.CreateTaskResult{}, err
	}
	return out, nil
}

// UpdateTask PUTs the full task. The returned task is the server echo, or t when
// the server answers without a body.
func (c *Client) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	var out model.Task
	if err := c.put(ctx, "/api/tasks/"+url.PathEscape(t.ID), t, &out); err != nil {
		return model.Task{}, err
	}
	if out.ID == "" {
		return t, nil
	}
	return out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/tasks/"+url.PathEscape(id))
}

func (c *Client) TaskSummary(ctx context.Context) (model.DashboardSummary, error) {
	var out model.DashboardSummary
	err := c.get(ctx, "/api/tasks/summary", &out)
	return out, err
}

func (c *Client) NotificationCheck(ctx context.Context) (model.NotificationCheck, error) {
	var out model.NotificationCheck
	err := c.get(ctx, "/api/tasks/notification-check", &out)
	return out, err
}
