// Package nav maps deep links and session preconditions to destinations.
package nav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/repapp/internal/auth"
)

type Route string

const (
	Login        Route = "Login"
	Register     Route = "Register"
	RegisterUser Route = "RegisterUser"
	Access       Route = "Access"
	MainTabs     Route = "MainTabs"
	Settings     Route = "Settings"
	AddExpense   Route = "AdicionarDespesa"
	CreateTask   Route = "CriarTarefa"
	CreateNotice Route = "CriarAviso"
	CreateEvent  Route = "CriarEvento"
	JoinHandler  Route = "JoinHandler"
)

// Tabs inside MainTabs.
const (
	Home     Route = "Home"
	Finances Route = "Financas"
	Tasks    Route = "Tarefas"
	Calendar Route = "Agenda"
	Notices  Route = "Avisos"
	Members  Route = "Membros"
)

// AppScheme is the custom URL scheme prefix.
const AppScheme = "repapp://"

var ErrUnknownLink = errors.New("unknown link")

// Destination is where the shell should go next. Delay, when set, is how
// long to wait before navigating.
type Destination struct {
	Route  Route
	Tab    Route
	Params map[string]string
	Delay  time.Duration
}

func (d Destination) Param(name string) string {
	return d.Params[name]
}

func (d Destination) String() string {
	s := string(d.Route)
	if d.Tab != "" {
		s += "/" + string(d.Tab)
	}
	return s
}

var staticPaths = map[string]Destination{
	"login":         {Route: Login},
	"register":      {Route: Register},
	"register-user": {Route: RegisterUser},
	"access":        {Route: Access},
	"settings":      {Route: Settings},
	"nova-despesa":  {Route: AddExpense},
	"nova-tarefa":   {Route: CreateTask},
	"novo-aviso":    {Route: CreateNotice},
	"novo-evento":   {Route: CreateEvent},
	"app":           {Route: MainTabs, Tab: Home},
}

var tabPaths = map[string]Route{
	"home":     Home,
	"financas": Finances,
	"tarefas":  Tasks,
	"agenda":   Calendar,
	"avisos":   Notices,
	"membros":  Members,
}

// ParseLink resolves a repapp:// link, or a link under one of webPrefixes,
// to a destination.
func ParseLink(raw string, webPrefixes ...string) (Destination, error) {
	raw = strings.TrimSpace(raw)
	rest, ok := stripPrefix(raw, webPrefixes)
	if !ok {
		return Destination{}, fmt.Errorf("%w: %q", ErrUnknownLink, raw)
	}

	u, err := url.Parse(rest)
	if err != nil {
		return Destination{}, fmt.Errorf("%w: %q", ErrUnknownLink, raw)
	}
	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return Destination{}, fmt.Errorf("%w: %q", ErrUnknownLink, raw)
	}

	switch {
	case segments[0] == "entrar" && len(segments) <= 2:
		token := u.Query().Get("token")
		if len(segments) == 2 {
			token = segments[1]
		}
		return Destination{Route: JoinHandler, Params: map[string]string{"token": token}}, nil

	case segments[0] == "app" && len(segments) == 2:
		if tab, ok := tabPaths[segments[1]]; ok {
			return Destination{Route: MainTabs, Tab: tab}, nil
		}

	case len(segments) == 1:
		if d, ok := staticPaths[segments[0]]; ok {
			return d, nil
		}
	}
	return Destination{}, fmt.Errorf("%w: %q", ErrUnknownLink, raw)
}

func stripPrefix(raw string, webPrefixes []string) (string, bool) {
	if rest, ok := strings.CutPrefix(raw, AppScheme); ok {
		return rest, true
	}
	for _, p := range webPrefixes {
		if p == "" {
			continue
		}
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		if rest, ok := strings.CutPrefix(raw, p); ok {
			return rest, true
		}
	}
	return "", false
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TabsFor lists the main tabs visible to a user. Members is admin-only.
func TabsFor(isAdmin bool) []Route {
	tabs := []Route{Home, Finances, Tasks, Calendar, Notices}
	if isAdmin {
		tabs = append(tabs, Members)
	}
	return tabs
}

// RedirectFor maps a session precondition failure to the screen that
// resolves it. ok is false for any other error.
func RedirectFor(err error) (Destination, bool) {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return Destination{Route: Login}, true
	case errors.Is(err, auth.ErrNoHousehold):
		return Destination{Route: Access}, true
	}
	return Destination{}, false
}

// InitialRoute picks the first screen for a session snapshot.
func InitialRoute(s auth.Session) Destination {
	switch {
	case !s.Authenticated():
		return Destination{Route: Login}
	case !s.HasRep:
		return Destination{Route: Access}
	default:
		return Destination{Route: MainTabs, Tab: Home}
	}
}
