// Package screen holds one controller per capability of the app. Controllers
// read the session, call the backend and keep the last fetched result as
// local state. Every activation re-fetches.
package screen

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
)

var ErrSelfAction = errors.New("cannot change own membership")

// Deps bundles what every screen needs.
type Deps struct {
	Client  *api.Client
	Session *auth.Provider
	Logger  *slog.Logger
}

func (d Deps) logger(component string) *slog.Logger {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", component)
}

// Generation versions a screen's state. Results of a request are applied
// only if the generation they started in is still current.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new generation and returns it.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

func (g *Generation) Value() uint64 {
	return g.n.Load()
}

func (g *Generation) Current(v uint64) bool {
	return g.n.Load() == v
}

// ValidationError is a local form error. No request was sent.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Failure is a backend or transport error paired with the text shown to the
// user.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// fail uses the server's message when it sent one.
func fail(err error, fallback string) error {
	return &Failure{Message: api.Message(err, fallback), Err: err}
}

// failFixed ignores any server message.
func failFixed(err error, msg string) error {
	return &Failure{Message: msg, Err: err}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
