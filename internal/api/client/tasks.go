package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// TasksResponse wraps a paginated task list.
type TasksResponse struct {
	Tasks []domain.TaskLog `json:"tasks"`
	Total int              `json:"total"`
}

// ListTasksParams defines query parameters for task queries.
type ListTasksParams struct {
	Status  string
	Kind    string
	StoreID int64
	Limit   int
	Offset  int
}

// ListTasks returns task logs matching the given parameters, newest first.
func (c *Client) ListTasks(ctx context.Context, params *ListTasksParams) (*TasksResponse, error) {
	q := url.Values{}
	if params != nil {
		if params.Status != "" {
			q.Set("status", params.Status)
		}
		if params.Kind != "" {
			q.Set("kind", params.Kind)
		}
		if params.StoreID > 0 {
			q.Set("store_id", strconv.FormatInt(params.StoreID, 10))
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.Offset > 0 {
			q.Set("offset", strconv.Itoa(params.Offset))
		}
	}

	path := "/api/v1/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp TasksResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTask returns one task log.
func (c *Client) GetTask(ctx context.Context, taskID string) (*domain.TaskLog, error) {
	var t domain.TaskLog
	if err := c.get(ctx, "/api/v1/tasks/"+url.PathEscape(taskID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CancelTask cancels a running task.
func (c *Client) CancelTask(ctx context.Context, taskID string) (*domain.TaskLog, error) {
	var t domain.TaskLog
	if err := c.post(ctx, "/api/v1/tasks/"+url.PathEscape(taskID)+"/cancel", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask removes a completed task log.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.del(ctx, "/api/v1/tasks/"+url.PathEscape(taskID), nil)
}
