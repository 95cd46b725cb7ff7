package screen

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/apitest"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/database"
	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/store"
)

const testRepID = 7

type fixture struct {
	backend *apitest.Backend
	session *auth.Provider
	kv      *store.SessionStore
	deps    Deps
}

func int64Ptr(v int64) *int64 { return &v }

// newFixture starts a fake backend with three members. Ana (id 1, ADM) is
// signed in when signedIn is true.
func newFixture(t *testing.T, signedIn bool) *fixture {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	kv := store.NewSessionStore(db, nil)
	session := auth.NewProvider(kv, nil)
	backend := apitest.New(t, testRepID)

	token := backend.AddAccount("ana@rep.com", "secret",
		model.Profile{ID: 1, FullName: "Ana", Email: "ana@rep.com"}, int64Ptr(testRepID))
	backend.AddAccount("novo@rep.com", "secret",
		model.Profile{ID: 9, FullName: "Novo", Email: "novo@rep.com"}, nil)
	backend.Update(func(s *apitest.State) {
		s.Members = []model.Member{
			{UserID: 1, Name: "Ana", Role: model.RoleAdmin},
			{UserID: 2, Name: "Bruno", Role: model.RoleMember},
			{UserID: 3, Name: "Caio", Role: model.RoleAggregate},
		}
	})

	if signedIn {
		if err := session.SignIn(token, model.User{ID: 1, Name: "Ana"}, int64Ptr(testRepID)); err != nil {
			t.Fatalf("sign in: %v", err)
		}
	}

	client := api.NewClient(backend.URL(), session)
	return &fixture{
		backend: backend,
		session: session,
		kv:      kv,
		deps:    Deps{Client: client, Session: session},
	}
}

func wantMessage(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want %q", want)
	}
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func wantValidation(t *testing.T, err error, want string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Message != want {
		t.Errorf("message = %q, want %q", ve.Message, want)
	}
}

// waitArrived blocks until the backend has parked a held request.
func waitArrived(t *testing.T, arrived <-chan struct{}) {
	t.Helper()
	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the backend")
	}
}

func TestGeneration(t *testing.T) {
	var g Generation
	v := g.Value()
	if !g.Current(v) {
		t.Fatal("fresh generation not current")
	}
	g.Next()
	if g.Current(v) {
		t.Error("old generation still current after Next")
	}
}

func TestFailPrefersServerMessage(t *testing.T) {
	err := fail(&api.Error{StatusCode: 400, Message: "Valor inválido"}, "fallback")
	wantMessage(t, err, "Valor inválido")

	err = fail(errors.New("dial tcp: refused"), "fallback")
	wantMessage(t, err, "fallback")

	err = failFixed(&api.Error{StatusCode: 403, Message: "Proibido"}, "fixed")
	wantMessage(t, err, "fixed")
}

func TestPreconditionsBeforeNetwork(t *testing.T) {
	f := newFixture(t, false)

	err := NewTasksScreen(f.deps).Activate(t.Context())
	if !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
	if n := len(f.backend.Calls()); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestNoHouseholdBeforeNetwork(t *testing.T) {
	f := newFixture(t, false)
	if err := f.session.SignIn("token-9", model.User{ID: 9, Name: "Novo"}, nil); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	err := NewFinanceScreen(f.deps).Activate(t.Context())
	if !errors.Is(err, auth.ErrNoHousehold) {
		t.Errorf("err = %v, want ErrNoHousehold", err)
	}
	if n := len(f.backend.Calls()); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}
