package screen

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/model"
)

// DashboardScreen is the home tab.
type DashboardScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
	gen     Generation

	mu         sync.Mutex
	stats      model.DashboardStats
	activities []model.Activity
	tasks      []model.Task
}

func NewDashboardScreen(d Deps) *DashboardScreen {
	return &DashboardScreen{client: d.Client, session: d.Session, logger: d.logger("dashboard")}
}

func (s *DashboardScreen) Activate(ctx context.Context) error {
	return s.load(ctx, s.gen.Next())
}

func (s *DashboardScreen) Deactivate() {
	s.gen.Next()
}

func (s *DashboardScreen) Load(ctx context.Context) error {
	return s.load(ctx, s.gen.Value())
}

func (s *DashboardScreen) load(ctx context.Context, gen uint64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	var (
		g          errgroup.Group
		stats      *model.DashboardStats
		activities []model.Activity
		tasks      []model.Task
	)
	g.Go(func() error {
		var err error
		stats, err = s.client.DashboardStats(ctx, sess.RepID)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.client.Activities(ctx, sess.RepID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.client.ListTasks(ctx, sess.RepID, api.TasksDashboard)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load dashboard", "error", err)
		return fail(err, "Não foi possível carregar o painel.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Current(gen) {
		s.stats = *stats
		s.activities = activities
		s.tasks = tasks
	}
	return nil
}

func (s *DashboardScreen) Stats() model.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *DashboardScreen) Activities() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Activity(nil), s.activities...)
}

// Tasks are the upcoming tasks highlighted on the home tab.
func (s *DashboardScreen) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}
