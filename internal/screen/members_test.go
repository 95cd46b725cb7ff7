package screen

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dukerupert/repapp/internal/apitest"
	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/nav"
)

func TestMembersAdminTabs(t *testing.T) {
	f := newFixture(t, true)
	s := NewMembersScreen(f.deps)
	if err := s.Activate(t.Context()); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if !s.IsAdmin() {
		t.Fatal("IsAdmin = false, want true for ADM")
	}
	tabs := s.Tabs()
	if tabs[len(tabs)-1] != nav.Members {
		t.Errorf("tabs = %v, want Membros last", tabs)
	}

	f.backend.Update(func(st *apitest.State) { st.Members[0].Role = model.RoleMember })
	if err := s.Load(t.Context()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.IsAdmin() {
		t.Error("IsAdmin = true after demotion")
	}
	for _, tab := range s.Tabs() {
		if tab == nav.Members {
			t.Error("non-admin sees Membros tab")
		}
	}
}

func TestSelfActionBlocked(t *testing.T) {
	f := newFixture(t, true)
	s := NewMembersScreen(f.deps)

	if _, err := s.ChangeRole(t.Context(), 1, model.RoleMember); !errors.Is(err, ErrSelfAction) {
		t.Errorf("ChangeRole self err = %v, want ErrSelfAction", err)
	}
	if err := s.RemoveMember(t.Context(), 1); !errors.Is(err, ErrSelfAction) {
		t.Errorf("RemoveMember self err = %v, want ErrSelfAction", err)
	}
	if n := len(f.backend.Calls()); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestChangeRoleRefreshes(t *testing.T) {
	f := newFixture(t, true)
	s := NewMembersScreen(f.deps)

	msg, err := s.ChangeRole(t.Context(), 3, model.RoleMember)
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if msg != "Função alterada com sucesso." {
		t.Errorf("message = %q, want %q", msg, "Função alterada com sucesso.")
	}
	calls := f.backend.CallsTo("PUT", apitest.RouteMemberRole)
	if len(calls) != 1 || calls[0].Path != "/reps/7/membros/3/funcao" || calls[0].Query != "novaFuncao=MEMBRO" {
		t.Errorf("role calls = %+v", calls)
	}
	for _, m := range s.Members() {
		if m.UserID == 3 && m.Role != model.RoleMember {
			t.Errorf("role = %q, want %q", m.Role, model.RoleMember)
		}
	}
}

func TestMemberFailuresUseGenericMessages(t *testing.T) {
	f := newFixture(t, true)
	s := NewMembersScreen(f.deps)
	f.backend.Fail("PUT", apitest.RouteMemberRole, http.StatusForbidden, "Apenas ADM")
	f.backend.Fail("DELETE", apitest.RouteMember, http.StatusForbidden, "Apenas ADM")

	_, err := s.ChangeRole(t.Context(), 2, model.RoleAdmin)
	wantMessage(t, err, "Não foi possível alterar a função. Verifique se você é ADM.")

	err = s.RemoveMember(t.Context(), 2)
	wantMessage(t, err, "Não foi possível remover o membro.")
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t, true)
	s := NewMembersScreen(f.deps)

	if err := s.RemoveMember(t.Context(), 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := len(s.Members()); got != 2 {
		t.Errorf("members = %d, want 2", got)
	}
}

func TestGenerateInviteDefaults(t *testing.T) {
	tests := []struct {
		name      string
		role      model.Role
		uses      string
		hours     string
		wantRole  model.Role
		wantUses  int
		wantHours int
	}{
		{"blank", "", "", "", model.RoleMember, 1, 24},
		{"non numeric", model.RoleAggregate, "muitos", "dia", model.RoleAggregate, 1, 24},
		{"zero and negative", model.RoleMember, "0", "-5", model.RoleMember, 1, 24},
		{"explicit", model.RoleAdmin, " 5 ", "48", model.RoleAdmin, 5, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			s := NewMembersScreen(f.deps)

			inv, err := s.GenerateInvite(t.Context(), tt.role, tt.uses, tt.hours)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if s.LastLink() != inv.Link {
				t.Errorf("LastLink = %q, want %q", s.LastLink(), inv.Link)
			}

			calls := f.backend.CallsTo("POST", apitest.RouteInvites)
			if len(calls) != 1 {
				t.Fatalf("invite calls = %d, want 1", len(calls))
			}
			var req model.InviteRequest
			if err := json.Unmarshal(calls[0].Body, &req); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if req.Role != tt.wantRole || req.MaxUses != tt.wantUses || req.ValidHours != tt.wantHours {
				t.Errorf("request = %+v, want {%s %d %d}", req, tt.wantRole, tt.wantUses, tt.wantHours)
			}
		})
	}
}

func TestGenerateInviteFailure(t *testing.T) {
	f := newFixture(t, true)
	s := NewMembersScreen(f.deps)
	f.backend.Fail("POST", apitest.RouteInvites, http.StatusInternalServerError, "")

	_, err := s.GenerateInvite(t.Context(), model.RoleMember, "1", "24")
	wantMessage(t, err, "Falha ao gerar convite.")
	if s.LastLink() != "" {
		t.Errorf("LastLink = %q, want empty", s.LastLink())
	}
}

func TestInviteShareMessage(t *testing.T) {
	want := "Venha morar na minha república! Use este link para entrar no App: \nrepapp://entrar/abc"
	if got := InviteShareMessage("repapp://entrar/abc"); got != want {
		t.Errorf("InviteShareMessage = %q, want %q", got, want)
	}
}
