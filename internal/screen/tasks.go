package screen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/format"
	"github.com/dukerupert/repapp/internal/model"
)

type TaskFilter string

const (
	TasksAll       TaskFilter = "Todas"
	TasksPending   TaskFilter = "Pendentes"
	TasksCompleted TaskFilter = "Concluídas"
	TasksMine      TaskFilter = "Minhas"
)

var TaskFilters = []TaskFilter{TasksAll, TasksPending, TasksCompleted, TasksMine}

type TasksScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
	gen     Generation

	mu     sync.Mutex
	tasks  []model.Task
	userID int64
}

func NewTasksScreen(d Deps) *TasksScreen {
	return &TasksScreen{client: d.Client, session: d.Session, logger: d.logger("tasks")}
}

func (s *TasksScreen) Activate(ctx context.Context) error {
	return s.load(ctx, s.gen.Next())
}

func (s *TasksScreen) Deactivate() {
	s.gen.Next()
}

func (s *TasksScreen) Load(ctx context.Context) error {
	return s.load(ctx, s.gen.Value())
}

func (s *TasksScreen) load(ctx context.Context, gen uint64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	tasks, err := s.client.ListTasks(ctx, sess.RepID, api.TasksAll)
	if err != nil {
		s.logger.Error("load tasks", "error", err)
		return fail(err, "Não foi possível carregar as tarefas.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Current(gen) {
		s.tasks = tasks
		s.userID = sess.User.ID
	}
	return nil
}

// Tasks returns the loaded tasks matching filter.
func (s *TasksScreen) Tasks(filter TaskFilter) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Task{}
	for _, t := range s.tasks {
		switch filter {
		case TasksPending:
			if t.IsDone() {
				continue
			}
		case TasksCompleted:
			if !t.IsDone() {
				continue
			}
		case TasksMine:
			if t.AssigneeID == nil || *t.AssigneeID != s.userID {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Complete flips the task's status locally, then asks the backend. The
// previous status is restored if the request fails.
func (s *TasksScreen) Complete(ctx context.Context, taskID int64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	s.mu.Lock()
	i := s.indexLocked(taskID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("task %d not loaded", taskID)
	}
	prev := s.tasks[i]
	flipped := prev
	if prev.IsDone() {
		flipped.Status = model.TaskPending
		flipped.Done = false
	} else {
		flipped.Status = model.TaskCompleted
		flipped.Done = true
	}
	s.tasks[i] = flipped
	gen := s.gen.Value()
	s.mu.Unlock()

	if _, err := s.client.CompleteTask(ctx, sess.RepID, taskID); err != nil {
		s.mu.Lock()
		if s.gen.Current(gen) {
			if j := s.indexLocked(taskID); j >= 0 {
				s.tasks[j] = prev
			}
		}
		s.mu.Unlock()
		s.logger.Warn("complete task reverted", "task_id", taskID, "error", err)
		return failFixed(err, "Falha ao atualizar tarefa")
	}

	return s.Load(ctx)
}

func (s *TasksScreen) indexLocked(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// TaskInput is the new-task form as typed. Due is dd/mm/yyyy.
type TaskInput struct {
	Title       string
	Description string
	Due         string
	Priority    string
	Category    string
	AssigneeID  *int64
}

func (in TaskInput) request() (model.TaskRequest, error) {
	if blank(in.Title) {
		return model.TaskRequest{}, invalid("titulo", "O título é obrigatório")
	}
	if blank(in.Due) {
		return model.TaskRequest{}, invalid("data", "A data é obrigatória")
	}
	due, err := format.DueDateFrom(in.Due)
	if err != nil {
		return model.TaskRequest{}, &ValidationError{Field: "data", Message: "Data inválida. Use dd/mm/aaaa", Err: err}
	}

	priority := model.PriorityLow
	if !blank(in.Priority) {
		p, ok := model.ParsePriority(in.Priority)
		if !ok {
			return model.TaskRequest{}, invalid("prioridade", "Prioridade inválida.")
		}
		priority = p
	}
	category := model.TaskCleaning
	if !blank(in.Category) {
		c, ok := model.ParseTaskCategory(in.Category)
		if !ok {
			return model.TaskRequest{}, invalid("categoria", "Categoria inválida.")
		}
		category = c
	}

	return model.TaskRequest{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueAt:       due,
		Priority:    priority,
		Category:    category,
		AssigneeID:  in.AssigneeID,
	}, nil
}

func (s *TasksScreen) Create(ctx context.Context, in TaskInput) (*model.Task, error) {
	req, err := in.request()
	if err != nil {
		return nil, err
	}
	sess, err := s.session.RequireRep()
	if err != nil {
		return nil, err
	}

	task, err := s.client.CreateTask(ctx, sess.RepID, req)
	if err != nil {
		return nil, fail(err, "Não foi possível criar a tarefa.")
	}
	s.logger.Info("task created", "task_id", task.ID)
	return task, nil
}

func (s *TasksScreen) Delete(ctx context.Context, taskID int64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}
	if err := s.client.DeleteTask(ctx, sess.RepID, taskID); err != nil {
		return failFixed(err, "Não foi possível excluir. Verifique o backend.")
	}
	return s.Load(ctx)
}
