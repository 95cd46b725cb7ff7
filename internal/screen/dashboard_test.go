package screen

import (
	"net/http"
	"testing"

	"github.com/dukerupert/repapp/internal/apitest"
	"github.com/dukerupert/repapp/internal/model"
)

func TestDashboardLoad(t *testing.T) {
	f := newFixture(t, true)
	f.backend.Update(func(s *apitest.State) {
		s.Stats = model.DashboardStats{CurrentBalance: 120, TasksDoneThisWeek: 4}
		s.Activities = []model.Activity{{Type: model.ActivityExpense, Title: "Mercado"}}
		s.Tasks = []model.Task{
			{ID: 1, Title: "Lixo", Status: model.TaskPending},
			{ID: 2, Title: "Louça", Status: model.TaskCompleted},
		}
	})
	s := NewDashboardScreen(f.deps)

	if err := s.Activate(t.Context()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if got := s.Stats().TasksDoneThisWeek; got != 4 {
		t.Errorf("tarefasConcluidasSemana = %d, want 4", got)
	}
	if got := len(s.Activities()); got != 1 {
		t.Errorf("activities = %d, want 1", got)
	}
	if got := s.Tasks(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("tasks = %+v, want only pending task 1", got)
	}
	if calls := f.backend.CallsTo("GET", apitest.RouteTaskList); len(calls) != 1 || calls[0].Path != "/reps/7/tarefas/dashboard" {
		t.Errorf("task calls = %+v", calls)
	}
}

func TestDashboardPartialFailure(t *testing.T) {
	f := newFixture(t, true)
	f.backend.Fail("GET", apitest.RouteActivities, http.StatusInternalServerError, "")
	s := NewDashboardScreen(f.deps)

	wantMessage(t, s.Activate(t.Context()), "Não foi possível carregar o painel.")
	// The sibling requests still ran.
	if n := len(f.backend.CallsTo("GET", apitest.RouteStats)); n != 1 {
		t.Errorf("stats calls = %d, want 1", n)
	}
}

func TestSettingsSaveUpdatesSessionName(t *testing.T) {
	f := newFixture(t, true)
	s := NewSettingsScreen(f.deps)

	p, err := s.LoadProfile(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.FullName != "Ana" {
		t.Errorf("nomeCompleto = %q, want Ana", p.FullName)
	}

	_, err = s.Save(t.Context(), ProfileInput{FullName: " "})
	wantValidation(t, err, "O nome é obrigatório")
	_, err = s.Save(t.Context(), ProfileInput{FullName: "Ana Paula", Year: "dois mil"})
	wantValidation(t, err, "Ano de ingresso inválido.")

	p, err = s.Save(t.Context(), ProfileInput{FullName: "Ana Paula", Year: "2023", Course: "Minas"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.Year == nil || *p.Year != 2023 || p.Course != "Minas" {
		t.Errorf("profile = %+v", p)
	}
	sess, err := f.session.RequireSession()
	if err != nil {
		t.Fatalf("require session: %v", err)
	}
	if sess.User.Name != "Ana Paula" {
		t.Errorf("session name = %q, want %q", sess.User.Name, "Ana Paula")
	}
}

func TestSettingsFailures(t *testing.T) {
	f := newFixture(t, true)
	s := NewSettingsScreen(f.deps)
	f.backend.Fail("GET", apitest.RouteProfile, http.StatusInternalServerError, "x")
	f.backend.Fail("PUT", apitest.RouteProfile, http.StatusInternalServerError, "")

	_, err := s.LoadProfile(t.Context())
	wantMessage(t, err, "Não foi possível carregar seus dados.")
	_, err = s.Save(t.Context(), ProfileInput{FullName: "Ana"})
	wantMessage(t, err, "Falha ao atualizar perfil.")
}

func TestSettingsLogout(t *testing.T) {
	f := newFixture(t, true)
	s := NewSettingsScreen(f.deps)

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	sess, err := f.session.Session()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if sess.Authenticated() || sess.HasRep {
		t.Errorf("session after logout = %+v, want empty", sess)
	}
}
