package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dukerupert/repapp/internal/model"
)

// TaskScope selects one of the backend's task listings.
type TaskScope string

const (
	TasksAll       TaskScope = "todas"
	TasksMine      TaskScope = "minhas"
	TasksPending   TaskScope = "pendentes"
	TasksDashboard TaskScope = "dashboard"
)

func tasksPath(repID int64) string {
	return fmt.Sprintf("/reps/%d/tarefas", repID)
}

func (c *Client) ListTasks(ctx context.Context, repID int64, scope TaskScope) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, tasksPath(repID)+"/"+string(scope), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, repID int64, req model.TaskRequest) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPost, tasksPath(repID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteTask(ctx context.Context, repID, taskID int64) (*model.Task, error) {
	var out model.Task
	path := fmt.Sprintf("%s/%d/concluir", tasksPath(repID), taskID)
	if err := c.do(ctx, http.MethodPatch, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, repID, taskID int64) error {
	path := fmt.Sprintf("%s/%d", tasksPath(repID), taskID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
