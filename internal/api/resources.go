package api

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"tasky-cli/internal/model"
)

// Resources lists the generic collections served under /api/<name>.
var Resources = []string{"deals", "meetings", "topics", "projects", "teams"}

func KnownResource(name string) bool { return slices.Contains(Resources, name) }

// ResourceClient is a typed CRUD client for one /api/<name> collection.
type ResourceClient[T any] struct {
	c    *Client
	name string
}

func NewResource[T any](c *Client, name string) (*ResourceClient[T], error) {
	if !KnownResource(name) {
		return nil, fmt.Errorf("unknown resource: %s", name)
	}
	return &ResourceClient[T]{c: c, name: name}, nil
}

func (r *ResourceClient[T]) path(id string) string {
	if id == "" {
		return "/api/" + r.name
	}
	return "/api/" + r.name + "/" + url.PathEscape(id)
}

func (r *ResourceClient[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.get(ctx, r.path(""), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ResourceClient[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.get(ctx, r.path(id), &out)
	return out, err
}

func (r *ResourceClient[T]) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, r.path(id))
}

func (c *Client) Deals() *ResourceClient[model.Deal] {
	return &ResourceClient[model.Deal]{c: c, name: "deals"}
}

func (c *Client) Meetings() *ResourceClient[model.Meeting] {
	return &ResourceClient[model.Meeting]{c: c, name: "meetings"}
}
