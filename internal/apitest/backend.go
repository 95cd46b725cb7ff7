// Package apitest runs an in-memory household backend for tests. It speaks
// the same routes and JSON shapes as the real server and records every call.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/dukerupert/repapp/internal/model"
)

// Account is a registered user the backend will log in.
type Account struct {
	Password string
	Profile  model.Profile
	RepID    *int64
}

// Invite is an outstanding invite token.
type Invite struct {
	RepID    int64
	Role     model.Role
	UsesLeft int
}

// State is the backend's data. Tests seed it with Backend.Update and read it
// with Backend.Snapshot.
type State struct {
	RepID      int64
	Accounts   map[string]*Account
	Tokens     map[string]int64
	Members    []model.Member
	Summary    model.FinanceSummary
	Expenses   []model.ExpenseRequest
	Stats      model.DashboardStats
	Activities []model.Activity
	Tasks      []model.Task
	Events     []model.Event
	Notices    []model.Notice
	Invites    map[string]*Invite
	Reps       []model.CreateRepRequest
}

// Call is one request as the backend saw it.
type Call struct {
	Method string
	Route  string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

type failure struct {
	status  int
	message string
}

type hold struct {
	arrived chan struct{}
	release chan struct{}
	once    sync.Once
	open    sync.Once
}

func (h *hold) free() { h.open.Do(func() { close(h.release) }) }

type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	state    State
	calls    []Call
	failures map[string]failure
	holds    map[string]*hold
	nextID   int64
}

// New starts a backend for the household repID. It is closed when the test
// ends.
func New(t testing.TB, repID int64) *Backend {
	t.Helper()
	b := &Backend{
		state: State{
			RepID:    repID,
			Accounts: map[string]*Account{},
			Tokens:   map[string]int64{},
			Invites:  map[string]*Invite{},
		},
		failures: map[string]failure{},
		holds:    map[string]*hold{},
		nextID:   1000,
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	t.Cleanup(b.releaseAll)
	return b
}

// URL is the API base URL to hand to api.NewClient.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

func (b *Backend) Update(fn func(s *State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.state)
}

func (b *Backend) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Members = append([]model.Member(nil), s.Members...)
	s.Expenses = append([]model.ExpenseRequest(nil), s.Expenses...)
	s.Tasks = append([]model.Task(nil), s.Tasks...)
	s.Events = append([]model.Event(nil), s.Events...)
	s.Notices = append([]model.Notice(nil), s.Notices...)
	s.Reps = append([]model.CreateRepRequest(nil), s.Reps...)
	return s
}

// AddAccount registers a user and returns a valid token for them.
func (b *Backend) AddAccount(email, password string, p model.Profile, repID *int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.Accounts[email] = &Account{Password: password, Profile: p, RepID: repID}
	token := fmt.Sprintf("token-%d", p.ID)
	b.state.Tokens[token] = p.ID
	return token
}

// Fail makes every request matching method and route template fail with
// status and a {"message": message} body until Recover is called.
func (b *Backend) Fail(method, route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+route] = failure{status: status, message: message}
}

func (b *Backend) Recover(method, route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+route)
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Hold parks the next requests matching method and route template until
// release is called. arrived is closed when the first one is parked.
// Injected failures are applied after release.
func (b *Backend) Hold(method, route string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}), release: make(chan struct{})}
	b.mu.Lock()
	b.holds[method+" "+route] = h
	b.mu.Unlock()
	return h.arrived, func() {
		b.mu.Lock()
		delete(b.holds, method+" "+route)
		b.mu.Unlock()
		h.free()
	}
}

func (b *Backend) releaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, h := range b.holds {
		h.free()
		delete(b.holds, key)
	}
}

// CallsTo returns the recorded calls for one method and route template.
func (b *Backend) CallsTo(method, route string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

// Route templates, relative to /api.
const (
	RouteLogin        = "/auth/login"
	RouteRegister     = "/auth/cadastro"
	RouteReps         = "/reps"
	RouteProfile      = "/usuarios/me"
	RouteJoin         = "/convites/entrar"
	RouteMembers      = "/reps/{rep}/membros"
	RouteMemberRole   = "/reps/{rep}/membros/{user}/funcao"
	RouteMember       = "/reps/{rep}/membros/{user}"
	RouteInvites      = "/reps/{rep}/convites"
	RouteFinance      = "/reps/{rep}/financeiro"
	RouteExpenses     = "/reps/{rep}/financeiro/despesas"
	RouteStats        = "/reps/{rep}/dashboard/stats"
	RouteActivities   = "/reps/{rep}/dashboard/atividades"
	RouteTasks        = "/reps/{rep}/tarefas"
	RouteTaskList     = "/reps/{rep}/tarefas/{scope:[a-z]+}"
	RouteTaskComplete = "/reps/{rep}/tarefas/{id}/concluir"
	RouteTask         = "/reps/{rep}/tarefas/{id:[0-9]+}"
	RouteAgenda       = "/reps/{rep}/agenda"
	RouteUpcoming     = "/reps/{rep}/agenda/proximos"
	RouteMonth        = "/reps/{rep}/agenda/mes"
	RouteRSVP         = "/reps/{rep}/agenda/{id}/presenca"
	RouteEvent        = "/reps/{rep}/agenda/{id:[0-9]+}"
	RouteNotices      = "/reps/{rep}/avisos"
	RouteNoticeStatus = "/reps/{rep}/avisos/{id}/status"
	RouteNotice       = "/reps/{rep}/avisos/{id}"
)

func (b *Backend) routes() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(b.record)

	api.HandleFunc(RouteLogin, b.login).Methods("POST")
	api.HandleFunc(RouteRegister, b.register).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(b.requireToken)
	authed.HandleFunc(RouteReps, b.createRep).Methods("POST")
	authed.HandleFunc(RouteProfile, b.getProfile).Methods("GET")
	authed.HandleFunc(RouteProfile, b.updateProfile).Methods("PUT")
	authed.HandleFunc(RouteJoin, b.join).Methods("POST")

	rep := authed.NewRoute().Subrouter()
	rep.Use(b.requireRep)
	rep.HandleFunc(RouteMembers, b.listMembers).Methods("GET")
	rep.HandleFunc(RouteMemberRole, b.changeRole).Methods("PUT")
	rep.HandleFunc(RouteMember, b.removeMember).Methods("DELETE")
	rep.HandleFunc(RouteInvites, b.createInvite).Methods("POST")
	rep.HandleFunc(RouteFinance, b.financeSummary).Methods("GET")
	rep.HandleFunc(RouteExpenses, b.createExpense).Methods("POST")
	rep.HandleFunc(RouteStats, b.stats).Methods("GET")
	rep.HandleFunc(RouteActivities, b.activities).Methods("GET")
	rep.HandleFunc(RouteTasks, b.createTask).Methods("POST")
	rep.HandleFunc(RouteTaskList, b.listTasks).Methods("GET")
	rep.HandleFunc(RouteTaskComplete, b.completeTask).Methods("PATCH")
	rep.HandleFunc(RouteTask, b.deleteTask).Methods("DELETE")
	rep.HandleFunc(RouteAgenda, b.createEvent).Methods("POST")
	rep.HandleFunc(RouteUpcoming, b.upcoming).Methods("GET")
	rep.HandleFunc(RouteMonth, b.month).Methods("GET")
	rep.HandleFunc(RouteRSVP, b.rsvp).Methods("PUT")
	rep.HandleFunc(RouteEvent, b.updateEvent).Methods("PUT")
	rep.HandleFunc(RouteEvent, b.deleteEvent).Methods("DELETE")
	rep.HandleFunc(RouteNotices, b.listNotices).Methods("GET")
	rep.HandleFunc(RouteNotices, b.createNotice).Methods("POST")
	rep.HandleFunc(RouteNoticeStatus, b.toggleNotice).Methods("PATCH")
	rep.HandleFunc(RouteNotice, b.deleteNotice).Methods("DELETE")

	return router
}

// record logs the call and applies any injected failure.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = strings.TrimPrefix(tpl, "/api")
			}
		}

		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method: r.Method,
			Route:  route,
			Path:   strings.TrimPrefix(r.URL.Path, "/api"),
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		h := b.holds[r.Method+" "+route]
		b.mu.Unlock()

		if h != nil {
			h.once.Do(func() { close(h.arrived) })
			select {
			case <-h.release:
			case <-r.Context().Done():
				return
			}
		}

		b.mu.Lock()
		f, failing := b.failures[r.Method+" "+route]
		b.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		_, ok := b.state.Tokens[token]
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireRep(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rep, err := strconv.ParseInt(mux.Vars(r)["rep"], 10, 64)
		b.mu.Lock()
		want := b.state.RepID
		b.mu.Unlock()
		if err != nil || rep != want {
			writeError(w, http.StatusForbidden, "Acesso negado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return false
	}
	return true
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

func (b *Backend) currentUser(r *http.Request) (int64, *Account) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	id := b.state.Tokens[token]
	for _, a := range b.state.Accounts {
		if a.Profile.ID == id {
			return id, a
		}
	}
	return id, nil
}

func (b *Backend) newID() int64 {
	b.nextID++
	return b.nextID
}
