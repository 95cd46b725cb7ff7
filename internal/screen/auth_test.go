package screen

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/repapp/internal/apitest"
	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/nav"
	"github.com/dukerupert/repapp/internal/store"
)

func TestLoginWithHousehold(t *testing.T) {
	f := newFixture(t, false)
	s := NewAuthScreen(f.deps)

	dest, err := s.Login(t.Context(), " ana@rep.com ", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if dest.Route != nav.MainTabs || dest.Tab != nav.Home {
		t.Errorf("destination = %s, want MainTabs/Home", dest)
	}
	sess, err := f.session.RequireRep()
	if err != nil {
		t.Fatalf("require rep: %v", err)
	}
	if sess.RepID != testRepID || sess.User.Name != "Ana" {
		t.Errorf("session = %+v", sess)
	}
}

func TestLoginWithoutHouseholdClearsStaleRep(t *testing.T) {
	f := newFixture(t, false)
	f.kv.Set(store.KeyRepID, "42")
	s := NewAuthScreen(f.deps)

	dest, err := s.Login(t.Context(), "novo@rep.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if dest.Route != nav.Access {
		t.Errorf("destination = %s, want Access", dest)
	}
	if _, ok, _ := f.kv.Get(store.KeyRepID); ok {
		t.Error("stale repId kept after login without household")
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t, false)
	s := NewAuthScreen(f.deps)

	_, err := s.Login(t.Context(), "", "secret")
	wantValidation(t, err, "Preencha email e senha.")

	_, err = s.Login(t.Context(), "ana@rep.com", "errada")
	wantMessage(t, err, "Email ou senha inválidos")

	f.backend.Fail("POST", apitest.RouteLogin, http.StatusInternalServerError, "")
	_, err = s.Login(t.Context(), "ana@rep.com", "secret")
	wantMessage(t, err, "Erro ao realizar login")
}

func TestLoginReplaysPendingInvite(t *testing.T) {
	f := newFixture(t, false)
	if err := f.session.SetPendingInvite("conv-1"); err != nil {
		t.Fatalf("set pending: %v", err)
	}
	s := NewAuthScreen(f.deps)

	dest, err := s.Login(t.Context(), "novo@rep.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if dest.Route != nav.JoinHandler || dest.Param("token") != "conv-1" {
		t.Errorf("destination = %s %v, want JoinHandler token conv-1", dest, dest.Params)
	}
	if token, _ := f.session.TakePendingInvite(); token != "" {
		t.Errorf("pending invite = %q after replay, want empty", token)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, false)
	s := NewAuthScreen(f.deps)
	valid := Registration{
		FullName: "Bia", Email: "bia@rep.com", Password: "x", ConfirmPassword: "x",
		University: "UFOP", Year: "2024",
	}

	tests := []struct {
		name   string
		modify func(r *Registration)
		want   string
	}{
		{"missing name", func(r *Registration) { r.FullName = " " }, "Preencha todos os campos obrigatórios!"},
		{"bad email", func(r *Registration) { r.Email = "bia@rep" }, "Por favor, insira um email válido!"},
		{"mismatch", func(r *Registration) { r.ConfirmPassword = "y" }, "As senhas não coincidem!"},
		{"bad year", func(r *Registration) { r.Year = "vinte" }, "Ano de ingresso inválido."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.modify(&r)
			_, err := s.Register(t.Context(), r)
			wantValidation(t, err, tt.want)
		})
	}
	if n := len(f.backend.Calls()); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestRegisterThenCreateRep(t *testing.T) {
	f := newFixture(t, false)
	s := NewAuthScreen(f.deps)

	dest, err := s.Register(t.Context(), Registration{
		FullName: "Bia", Email: "bia@rep.com", Password: "x", ConfirmPassword: "x",
		University: "UFOP", Year: "2024", Course: "Geologia",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dest.Route != nav.Access {
		t.Errorf("destination = %s, want Access", dest)
	}

	calls := f.backend.CallsTo("POST", apitest.RouteRegister)
	var req model.RegisterRequest
	if err := json.Unmarshal(calls[0].Body, &req); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if req.Year != 2024 {
		t.Errorf("ano = %d, want 2024", req.Year)
	}

	_, err = s.CreateRep(t.Context(), RepRegistration{Name: "Rep X"})
	wantValidation(t, err, "Preencha todos os campos obrigatórios!")

	dest, err = s.CreateRep(t.Context(), RepRegistration{
		Name: "Rep X", Street: "Rua A", Number: "10", District: "Centro", PostalCode: "35400-000", Email: "repx@rep.com",
	})
	if err != nil {
		t.Fatalf("create rep: %v", err)
	}
	if dest.Route != nav.MainTabs {
		t.Errorf("destination = %s, want MainTabs", dest)
	}
	sess, err := f.session.RequireRep()
	if err != nil {
		t.Fatalf("require rep: %v", err)
	}
	if sess.RepID == 0 {
		t.Error("repId not stored after CreateRep")
	}

	reps := f.backend.Snapshot().Reps
	if len(reps) != 1 || reps[0].Address.Street != "Rua A" || reps[0].Address.Name != "Rep X" {
		t.Errorf("reps = %+v", reps)
	}
}

func TestCreateRepRequiresSession(t *testing.T) {
	f := newFixture(t, false)
	s := NewAuthScreen(f.deps)

	if _, err := s.CreateRep(t.Context(), RepRegistration{Name: "Rep"}); err == nil {
		t.Fatal("create rep without session succeeded")
	}
}

func TestAcceptInviteWithoutSession(t *testing.T) {
	f := newFixture(t, false)
	s := NewJoinScreen(f.deps, 0)

	res, err := s.AcceptInvite(t.Context(), "conv-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if res.Destination.Route != nav.Login || res.Destination.Param("pendingInviteToken") != "conv-1" {
		t.Errorf("destination = %s %v", res.Destination, res.Destination.Params)
	}
	if n := len(f.backend.Calls()); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
	if token, _ := f.session.TakePendingInvite(); token != "conv-1" {
		t.Errorf("pending invite = %q, want conv-1", token)
	}
}

func TestAcceptInviteEmptyToken(t *testing.T) {
	f := newFixture(t, true)
	_, err := NewJoinScreen(f.deps, 0).AcceptInvite(t.Context(), "  ")
	wantValidation(t, err, "Link inválido.")
}

func TestAcceptInviteJoins(t *testing.T) {
	f := newFixture(t, false)
	if err := f.session.SignIn("token-9", model.User{ID: 9, Name: "Novo"}, nil); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	f.backend.Update(func(s *apitest.State) {
		s.Invites["conv-1"] = &apitest.Invite{RepID: testRepID, Role: model.RoleMember, UsesLeft: 1}
	})

	res, err := NewJoinScreen(f.deps, 2*time.Second).AcceptInvite(t.Context(), "conv-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if res.RepID != testRepID || res.Destination.Route != nav.MainTabs || res.Destination.Delay != 2*time.Second {
		t.Errorf("result = %+v", res)
	}
	sess, err := f.session.RequireRep()
	if err != nil || sess.RepID != testRepID {
		t.Errorf("session rep = %d, %v; want %d", sess.RepID, err, testRepID)
	}
}

func TestAcceptInviteRejected(t *testing.T) {
	f := newFixture(t, false)
	if err := f.session.SignIn("token-9", model.User{ID: 9, Name: "Novo"}, nil); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	res, err := NewJoinScreen(f.deps, 0).AcceptInvite(t.Context(), "conv-expired")
	wantMessage(t, err, "Convite inválido ou expirado")
	if res.Destination.Route != nav.Access {
		t.Errorf("destination = %s, want Access", res.Destination)
	}

	f.backend.Fail("POST", apitest.RouteJoin, http.StatusBadGateway, "")
	_, err = NewJoinScreen(f.deps, 0).AcceptInvite(t.Context(), "conv-x")
	wantMessage(t, err, "Erro ao processar convite.")
}
