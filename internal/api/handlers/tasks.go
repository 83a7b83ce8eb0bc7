package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// TasksProvider defines the store methods required by the tasks handler.
type TasksProvider interface {
	ListTaskLogs(ctx context.Context, q *store.TaskQuery) ([]domain.TaskLog, int, error)
	GetTaskLog(ctx context.Context, taskID string) (*domain.TaskLog, error)
	DeleteTaskLog(ctx context.Context, taskID string) error
}

// TaskCanceller cancels a task and announces the transition.
type TaskCanceller interface {
	Cancel(ctx context.Context, taskID string) (*domain.TaskLog, error)
}

// TasksHandler serves the task ledger.
type TasksHandler struct {
	store     TasksProvider
	canceller TaskCanceller
}

// NewTasksHandler creates a new TasksHandler.
func NewTasksHandler(s TasksProvider, c TaskCanceller) *TasksHandler {
	return &TasksHandler{store: s, canceller: c}
}

const defaultTaskListLimit = 50

// ListTasksInput holds the task list filters.
type ListTasksInput struct {
	Status  string `query:"status"   doc:"Filter by status"          enum:"pending,started,progress,completed,failed,cancelled,"`
	Kind    string `query:"kind"     doc:"Filter by task kind"       enum:"scrape_item,scrape_store,scrape_all,scrape_category,"`
	StoreID int64  `query:"store_id" doc:"Filter by store ID"        minimum:"0"`
	Limit   int    `query:"limit"    doc:"Number of results (default 50)" minimum:"0" maximum:"500"`
	Offset  int    `query:"offset"   doc:"Pagination offset"         minimum:"0"`
}

// ListTasksOutput is the response body for listing tasks.
type ListTasksOutput struct {
	Body struct {
		Tasks []domain.TaskLog `json:"tasks" doc:"Tasks, newest first"`
		Total int              `json:"total" doc:"Number of tasks matching the filters"`
	}
}

// TaskIDInput is the request path for a single task.
type TaskIDInput struct {
	TaskID string `path:"task_id" doc:"Task ID"`
}

// TaskOutput is the response body for a single task.
type TaskOutput struct {
	Body *domain.TaskLog
}

// ListTasks returns task logs matching the filters.
func (h *TasksHandler) ListTasks(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
	q := &store.TaskQuery{Limit: input.Limit, Offset: input.Offset}
	if q.Limit == 0 {
		q.Limit = defaultTaskListLimit
	}
	if input.Status != "" {
		q.Status = domain.Ptr(domain.TaskStatus(input.Status))
	}
	if input.Kind != "" {
		q.Kind = domain.Ptr(domain.TaskKind(input.Kind))
	}
	if input.StoreID > 0 {
		q.StoreID = &input.StoreID
	}

	tasks, total, err := h.store.ListTaskLogs(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing tasks failed: " + err.Error())
	}

	if tasks == nil {
		tasks = []domain.TaskLog{}
	}

	resp := &ListTasksOutput{}
	resp.Body.Tasks = tasks
	resp.Body.Total = total
	return resp, nil
}

// GetTask returns one task log.
func (h *TasksHandler) GetTask(ctx context.Context, input *TaskIDInput) (*TaskOutput, error) {
	t, err := h.store.GetTaskLog(ctx, input.TaskID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("task not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching task failed: " + err.Error())
	}
	return &TaskOutput{Body: t}, nil
}

// CancelTask marks a running task cancelled. Queued work of the task is
// skipped; in-flight scrapes finish.
func (h *TasksHandler) CancelTask(ctx context.Context, input *TaskIDInput) (*TaskOutput, error) {
	t, err := h.canceller.Cancel(ctx, input.TaskID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, huma.Error404NotFound("task not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return nil, huma.Error409Conflict("task already finished")
	case err != nil:
		return nil, huma.Error500InternalServerError("cancelling task failed: " + err.Error())
	}
	return &TaskOutput{Body: t}, nil
}

// DeleteTask removes a completed task log.
func (h *TasksHandler) DeleteTask(ctx context.Context, input *TaskIDInput) (*struct{}, error) {
	err := h.store.DeleteTaskLog(ctx, input.TaskID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, huma.Error404NotFound("task not found")
	case errors.Is(err, store.ErrTaskNotTerminal):
		return nil, huma.Error409Conflict("only completed tasks can be deleted")
	case err != nil:
		return nil, huma.Error500InternalServerError("deleting task failed: " + err.Error())
	}
	return nil, nil
}

// RegisterTaskRoutes registers task ledger endpoints with the Huma API.
func RegisterTaskRoutes(api huma.API, h *TasksHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks",
		Summary:     "List tasks",
		Description: "Returns task logs, newest first, optionally filtered by status, kind, or store.",
		Tags:        []string{"tasks"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListTasks)

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks/{task_id}",
		Summary:     "Get a task",
		Tags:        []string{"tasks"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetTask)

	huma.Register(api, huma.Operation{
		OperationID: "cancel-task",
		Method:      http.MethodPost,
		Path:        "/api/v1/tasks/{task_id}/cancel",
		Summary:     "Cancel a task",
		Description: "Cooperatively cancels a task. Queued work is skipped, fan-outs stop at their next " +
			"progress checkpoint, and scrapes already in flight finish.",
		Tags:   []string{"tasks"},
		Errors: []int{http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError},
	}, h.CancelTask)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tasks/{task_id}",
		Summary:       "Delete a completed task",
		Tags:          []string{"tasks"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError},
	}, h.DeleteTask)
}
