// Package app wires the session store, backend client and screens together.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/config"
	"github.com/dukerupert/repapp/internal/database"
	"github.com/dukerupert/repapp/internal/nav"
	"github.com/dukerupert/repapp/internal/receipt"
	"github.com/dukerupert/repapp/internal/screen"
	"github.com/dukerupert/repapp/internal/store"
)

type App struct {
	cfg        config.Config
	db         *sql.DB
	registry   *prometheus.Registry
	logger     *slog.Logger
	httpClient *http.Client

	Session  *auth.Provider
	Client   *api.Client
	Receipts *receipt.Uploader

	Auth      *screen.AuthScreen
	Join      *screen.JoinScreen
	Dashboard *screen.DashboardScreen
	Finance   *screen.FinanceScreen
	Expense   *screen.ExpenseForm
	Tasks     *screen.TasksScreen
	Calendar  *screen.CalendarScreen
	Notices   *screen.NoticesScreen
	Members   *screen.MembersScreen
	Settings  *screen.SettingsScreen
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	now        func() time.Time
}

// WithHTTPClient sets the client used for backend requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New opens the session database and builds every screen. Close releases
// the database and flushes metrics.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{httpClient: &http.Client{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	sealer, err := store.LoadSealer(db, cfg.StoreSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load sealer: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	sessions := store.NewSessionStore(db, sealer)
	provider := auth.NewProvider(sessions, logger)
	client := api.NewClient(cfg.APIURL, provider,
		api.WithHTTPClient(o.httpClient),
		api.WithLogger(logger),
		api.WithMetrics(api.NewMetrics(registry)),
	)
	receipts := receipt.NewUploader(cfg.Receipts, logger)

	deps := screen.Deps{Client: client, Session: provider, Logger: logger}
	a := &App{
		cfg:        cfg,
		db:         db,
		registry:   registry,
		logger:     logger,
		httpClient: o.httpClient,

		Session:  provider,
		Client:   client,
		Receipts: receipts,

		Auth:      screen.NewAuthScreen(deps),
		Join:      screen.NewJoinScreen(deps, cfg.JoinDelay),
		Dashboard: screen.NewDashboardScreen(deps),
		Finance:   screen.NewFinanceScreen(deps),
		Expense:   screen.NewExpenseForm(deps, receipts),
		Tasks:     screen.NewTasksScreen(deps),
		Calendar:  screen.NewCalendarScreen(deps, o.now()),
		Notices:   screen.NewNoticesScreen(deps),
		Members:   screen.NewMembersScreen(deps),
		Settings:  screen.NewSettingsScreen(deps),
	}

	logger.Info("app ready", "api", client.BaseURL(), "db", cfg.DBPath,
		"sealed", sealer != nil, "receipts", receipts.Enabled())
	return a, nil
}

// Registry exposes the metrics registry.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Start resolves where the user lands when the app opens.
func (a *App) Start() (nav.Destination, error) {
	return a.Auth.InitialRoute()
}

// Follow opens a deep link.
func (a *App) Follow(ctx context.Context, link string) (nav.Destination, string, error) {
	var prefixes []string
	if a.cfg.LinkPrefix != "" {
		prefixes = append(prefixes, a.cfg.LinkPrefix)
	}
	dest, err := nav.ParseLink(link, prefixes...)
	if err != nil {
		return nav.Destination{}, "", err
	}
	return a.Navigate(ctx, dest)
}

// Navigate moves to dest. A JoinHandler destination redeems its invite
// token and returns where the join leads; others are returned unchanged.
func (a *App) Navigate(ctx context.Context, dest nav.Destination) (nav.Destination, string, error) {
	if dest.Route != nav.JoinHandler {
		return dest, "", nil
	}
	res, err := a.Join.AcceptInvite(ctx, dest.Param("token"))
	return res.Destination, res.Message, err
}

// Redirect maps a session precondition error to a destination.
func (a *App) Redirect(err error) (nav.Destination, bool) {
	return nav.RedirectFor(err)
}

// Deactivate bumps every screen's generation so results still in flight
// are dropped.
func (a *App) Deactivate() {
	a.Dashboard.Deactivate()
	a.Finance.Deactivate()
	a.Expense.Deactivate()
	a.Tasks.Deactivate()
	a.Calendar.Deactivate()
	a.Notices.Deactivate()
	a.Members.Deactivate()
}

func (a *App) Close() error {
	a.Deactivate()

	var errs []error
	if a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
