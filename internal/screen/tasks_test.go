package screen

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dukerupert/repapp/internal/apitest"
	"github.com/dukerupert/repapp/internal/model"
)

func seedTasks(f *fixture) {
	f.backend.Update(func(s *apitest.State) {
		s.Tasks = []model.Task{
			{ID: 10, Title: "Lavar louça", Status: model.TaskPending, AssigneeID: int64Ptr(1)},
			{ID: 11, Title: "Comprar pão", Status: model.TaskCompleted, AssigneeID: int64Ptr(2)},
			{ID: 12, Title: "Trocar lâmpada", Status: model.TaskLate},
			{ID: 13, Title: "Tirar lixo", Status: model.TaskPending, Done: true, AssigneeID: int64Ptr(1)},
		}
	})
}

func taskIDs(tasks []model.Task) []int64 {
	ids := []int64{}
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestTaskFilters(t *testing.T) {
	f := newFixture(t, true)
	seedTasks(f)
	s := NewTasksScreen(f.deps)
	if err := s.Activate(t.Context()); err != nil {
		t.Fatalf("activate: %v", err)
	}

	tests := []struct {
		filter TaskFilter
		want   []int64
	}{
		{TasksAll, []int64{10, 11, 12, 13}},
		{TasksPending, []int64{10, 12}},
		{TasksCompleted, []int64{11, 13}},
		{TasksMine, []int64{10, 13}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := taskIDs(s.Tasks(tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ids = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}

	if calls := f.backend.CallsTo("GET", apitest.RouteTaskList); len(calls) != 1 || calls[0].Path != "/reps/7/tarefas/todas" {
		t.Errorf("task list calls = %+v, want one GET /reps/7/tarefas/todas", calls)
	}
}

func TestCompleteTaskFlipsAndReloads(t *testing.T) {
	f := newFixture(t, true)
	seedTasks(f)
	s := NewTasksScreen(f.deps)
	if err := s.Activate(t.Context()); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := s.Complete(t.Context(), 10); err != nil {
		t.Fatalf("complete: %v", err)
	}
	for _, task := range s.Tasks(TasksAll) {
		if task.ID == 10 && task.Status != model.TaskCompleted {
			t.Errorf("status = %q, want %q", task.Status, model.TaskCompleted)
		}
	}
	if n := len(f.backend.CallsTo("GET", apitest.RouteTaskList)); n != 2 {
		t.Errorf("list calls = %d, want 2", n)
	}
}

func TestCompleteTaskRevertsOnFailure(t *testing.T) {
	f := newFixture(t, true)
	seedTasks(f)
	s := NewTasksScreen(f.deps)
	if err := s.Activate(t.Context()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	f.backend.Fail("PATCH", apitest.RouteTaskComplete, http.StatusInternalServerError, "boom")

	err := s.Complete(t.Context(), 10)
	wantMessage(t, err, "Falha ao atualizar tarefa")

	for _, task := range s.Tasks(TasksAll) {
		if task.ID == 10 && task.Status != model.TaskPending {
			t.Errorf("status = %q, want reverted to %q", task.Status, model.TaskPending)
		}
	}
}

func TestLateLoadDroppedAfterDeactivate(t *testing.T) {
	f := newFixture(t, true)
	seedTasks(f)
	s := NewTasksScreen(f.deps)
	arrived, release := f.backend.Hold("GET", apitest.RouteTaskList)

	errc := make(chan error, 1)
	go func() { errc <- s.Activate(t.Context()) }()
	waitArrived(t, arrived)
	s.Deactivate()
	release()

	if err := <-errc; err != nil {
		t.Fatalf("activate: %v", err)
	}
	if got := len(s.Tasks(TasksAll)); got != 0 {
		t.Errorf("tasks after late response = %d, want 0", got)
	}

	if err := s.Activate(t.Context()); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if got := len(s.Tasks(TasksAll)); got != 4 {
		t.Errorf("tasks after reactivate = %d, want 4", got)
	}
}

func TestCompleteRevertSkippedAfterDeactivate(t *testing.T) {
	f := newFixture(t, true)
	seedTasks(f)
	s := NewTasksScreen(f.deps)
	if err := s.Activate(t.Context()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	f.backend.Fail("PATCH", apitest.RouteTaskComplete, http.StatusInternalServerError, "boom")
	arrived, release := f.backend.Hold("PATCH", apitest.RouteTaskComplete)

	errc := make(chan error, 1)
	go func() { errc <- s.Complete(t.Context(), 10) }()
	waitArrived(t, arrived)
	s.Deactivate()
	release()

	wantMessage(t, <-errc, "Falha ao atualizar tarefa")
	for _, task := range s.Tasks(TasksAll) {
		if task.ID == 10 && task.Status != model.TaskCompleted {
			t.Errorf("task 10 status = %q, want %q", task.Status, model.TaskCompleted)
		}
	}
}

func TestCompleteUnknownTask(t *testing.T) {
	f := newFixture(t, true)
	s := NewTasksScreen(f.deps)

	if err := s.Complete(t.Context(), 99); err == nil {
		t.Fatal("complete of unloaded task succeeded, want error")
	}
	if n := len(f.backend.CallsTo("PATCH", apitest.RouteTaskComplete)); n != 0 {
		t.Errorf("complete calls = %d, want 0", n)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t, true)
	s := NewTasksScreen(f.deps)

	tests := []struct {
		name string
		in   TaskInput
		want string
	}{
		{"no title", TaskInput{Due: "10/03/2026"}, "O título é obrigatório"},
		{"no date", TaskInput{Title: "Lavar"}, "A data é obrigatória"},
		{"bad date", TaskInput{Title: "Lavar", Due: "2026/03/10"}, "Data inválida. Use dd/mm/aaaa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(t.Context(), tt.in)
			wantValidation(t, err, tt.want)
		})
	}
	if n := len(f.backend.Calls()); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	f := newFixture(t, true)
	s := NewTasksScreen(f.deps)

	task, err := s.Create(t.Context(), TaskInput{Title: " Lavar banheiro ", Due: "10/03/2026"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != model.TaskPending {
		t.Errorf("status = %q, want %q", task.Status, model.TaskPending)
	}

	calls := f.backend.CallsTo("POST", apitest.RouteTasks)
	if len(calls) != 1 {
		t.Fatalf("create calls = %d, want 1", len(calls))
	}
	var req model.TaskRequest
	if err := json.Unmarshal(calls[0].Body, &req); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if req.Title != "Lavar banheiro" {
		t.Errorf("titulo = %q, want %q", req.Title, "Lavar banheiro")
	}
	if req.DueAt != "2026-03-10T23:59:59" {
		t.Errorf("dataPrazo = %q, want %q", req.DueAt, "2026-03-10T23:59:59")
	}
	if req.Priority != model.PriorityLow {
		t.Errorf("prioridade = %q, want %q", req.Priority, model.PriorityLow)
	}
	if req.Category != model.TaskCleaning {
		t.Errorf("categoria = %q, want %q", req.Category, model.TaskCleaning)
	}
}

func TestDeleteTaskFailureMessage(t *testing.T) {
	f := newFixture(t, true)
	seedTasks(f)
	s := NewTasksScreen(f.deps)
	f.backend.Fail("DELETE", apitest.RouteTask, http.StatusForbidden, "Sem permissão")

	err := s.Delete(t.Context(), 10)
	wantMessage(t, err, "Não foi possível excluir. Verifique o backend.")

	f.backend.Recover("DELETE", apitest.RouteTask)
	if err := s.Delete(t.Context(), 10); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(s.Tasks(TasksAll)); got != 3 {
		t.Errorf("tasks after delete = %d, want 3", got)
	}
}
