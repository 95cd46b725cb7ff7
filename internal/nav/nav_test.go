package nav

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/model"
)

const web = "https://repapp.example.com"

func TestParseLink(t *testing.T) {
	tests := []struct {
		link  string
		route Route
		tab   Route
		token string
	}{
		{"repapp://login", Login, "", ""},
		{"repapp://register-user", RegisterUser, "", ""},
		{"repapp://app/financas", MainTabs, Finances, ""},
		{"repapp://app/membros", MainTabs, Members, ""},
		{"repapp://app", MainTabs, Home, ""},
		{"repapp://nova-despesa", AddExpense, "", ""},
		{"repapp://novo-evento", CreateEvent, "", ""},
		{"repapp://entrar/3f2a-uuid", JoinHandler, "", "3f2a-uuid"},
		{"repapp://entrar?token=abc", JoinHandler, "", "abc"},
		{web + "/entrar/xyz", JoinHandler, "", "xyz"},
		{web + "/settings", Settings, "", ""},
		{"repapp://entrar/", JoinHandler, "", ""},
	}
	for _, tt := range tests {
		d, err := ParseLink(tt.link, web)
		if err != nil {
			t.Errorf("ParseLink(%q): %v", tt.link, err)
			continue
		}
		if d.Route != tt.route || d.Tab != tt.tab {
			t.Errorf("ParseLink(%q) = %s, want %s/%s", tt.link, d, tt.route, tt.tab)
		}
		if d.Param("token") != tt.token {
			t.Errorf("ParseLink(%q) token = %q, want %q", tt.link, d.Param("token"), tt.token)
		}
	}
}

func TestParseLinkUnknown(t *testing.T) {
	for _, link := range []string{
		"repapp://",
		"repapp://app/unknown",
		"repapp://entrar/a/b",
		"https://other.example.com/login",
		"login",
	} {
		if _, err := ParseLink(link, web); !errors.Is(err, ErrUnknownLink) {
			t.Errorf("ParseLink(%q) err = %v, want ErrUnknownLink", link, err)
		}
	}
}

func TestTabsFor(t *testing.T) {
	if slices.Contains(TabsFor(false), Members) {
		t.Error("members tab shown to non-admin")
	}
	if !slices.Contains(TabsFor(true), Members) {
		t.Error("members tab hidden from admin")
	}
}

func TestRedirectFor(t *testing.T) {
	d, ok := RedirectFor(fmt.Errorf("load: %w", auth.ErrNotAuthenticated))
	if !ok || d.Route != Login {
		t.Errorf("not authenticated -> %s, %v; want Login", d, ok)
	}
	d, ok = RedirectFor(auth.ErrNoHousehold)
	if !ok || d.Route != Access {
		t.Errorf("no household -> %s, %v; want Access", d, ok)
	}
	if _, ok := RedirectFor(errors.New("boom")); ok {
		t.Error("unrelated error produced a redirect")
	}
}

func TestInitialRoute(t *testing.T) {
	user := model.User{ID: 1, Name: "Ana"}
	tests := []struct {
		s    auth.Session
		want Route
	}{
		{auth.Session{}, Login},
		{auth.Session{Token: "t", User: user}, Access},
		{auth.Session{Token: "t", User: user, RepID: 2, HasRep: true}, MainTabs},
	}
	for _, tt := range tests {
		if got := InitialRoute(tt.s).Route; got != tt.want {
			t.Errorf("InitialRoute(%+v) = %s, want %s", tt.s, got, tt.want)
		}
	}
}
