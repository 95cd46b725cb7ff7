package screen

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/format"
	"github.com/dukerupert/repapp/internal/model"
)

type CalendarScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
	gen     Generation

	mu       sync.Mutex
	month    time.Time
	upcoming []model.Event
	events   []model.Event
	perDay   map[int]int
}

func NewCalendarScreen(d Deps, now time.Time) *CalendarScreen {
	return &CalendarScreen{
		client:  d.Client,
		session: d.Session,
		logger:  d.logger("calendar"),
		month:   firstOfMonth(now),
		perDay:  map[int]int{},
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func (s *CalendarScreen) Activate(ctx context.Context) error {
	return s.load(ctx, s.gen.Next())
}

func (s *CalendarScreen) Deactivate() {
	s.gen.Next()
}

// Month is the first day of the month being shown.
func (s *CalendarScreen) Month() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.month
}

// ShiftMonth moves the shown month by delta and reloads.
func (s *CalendarScreen) ShiftMonth(ctx context.Context, delta int) error {
	s.mu.Lock()
	s.month = s.month.AddDate(0, delta, 0)
	s.mu.Unlock()
	return s.load(ctx, s.gen.Next())
}

func (s *CalendarScreen) Load(ctx context.Context) error {
	return s.load(ctx, s.gen.Value())
}

func (s *CalendarScreen) load(ctx context.Context, gen uint64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}
	month := s.Month()

	var (
		g        errgroup.Group
		upcoming []model.Event
		events   []model.Event
	)
	g.Go(func() error {
		var err error
		upcoming, err = s.client.UpcomingEvents(ctx, sess.RepID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.client.MonthEvents(ctx, sess.RepID, month.Year(), int(month.Month()))
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load calendar", "error", err)
		return fail(err, "Não foi possível carregar a agenda.")
	}

	perDay := map[int]int{}
	for _, e := range events {
		t, err := format.ParseWireTime(e.StartsAt, month.Location())
		if err != nil {
			s.logger.Warn("event with unreadable date", "event_id", e.ID, "value", e.StartsAt)
			continue
		}
		perDay[t.Day()]++
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Current(gen) {
		s.upcoming = upcoming
		s.events = events
		s.perDay = perDay
	}
	return nil
}

func (s *CalendarScreen) Upcoming() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.upcoming...)
}

func (s *CalendarScreen) MonthEvents() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...)
}

// EventsPerDay maps day of month to the number of events on that day.
func (s *CalendarScreen) EventsPerDay() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.perDay))
	for k, v := range s.perDay {
		out[k] = v
	}
	return out
}

// Respond sets the user's RSVP locally, then on the backend. The previous
// status is restored if the request fails.
func (s *CalendarScreen) Respond(ctx context.Context, eventID int64, status model.RSVP) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	s.mu.Lock()
	var prev model.RSVP
	found := false
	for i := range s.upcoming {
		if s.upcoming[i].ID == eventID {
			prev = s.upcoming[i].MyStatus
			s.upcoming[i].MyStatus = status
			found = true
		}
	}
	gen := s.gen.Value()
	s.mu.Unlock()

	if err := s.client.RespondRSVP(ctx, sess.RepID, eventID, status); err != nil {
		if found {
			s.mu.Lock()
			if s.gen.Current(gen) {
				for i := range s.upcoming {
					if s.upcoming[i].ID == eventID {
						s.upcoming[i].MyStatus = prev
					}
				}
			}
			s.mu.Unlock()
		}
		s.logger.Warn("rsvp reverted", "event_id", eventID, "error", err)
		return fail(err, "Não foi possível responder ao evento.")
	}

	return s.Load(ctx)
}

// EventInput is the event form as typed: Date is dd/MM/yyyy and Hour HH:mm.
type EventInput struct {
	Title       string
	Description string
	Location    string
	Date        string
	Hour        string
}

func (in EventInput) request() (model.EventRequest, error) {
	if blank(in.Title) {
		return model.EventRequest{}, invalid("titulo", "Título é obrigatório")
	}
	if blank(in.Location) {
		return model.EventRequest{}, invalid("local", "Local é obrigatório")
	}
	when, err := format.EventDateTimeFrom(in.Date, in.Hour)
	if err != nil {
		return model.EventRequest{}, &ValidationError{Field: "dataHora", Message: "Data ou hora inválida.", Err: err}
	}
	return model.EventRequest{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    when,
	}, nil
}

// Save creates an event, or updates eventID when it is non-zero.
func (s *CalendarScreen) Save(ctx context.Context, eventID int64, in EventInput) (*model.Event, error) {
	req, err := in.request()
	if err != nil {
		return nil, err
	}
	sess, err := s.session.RequireRep()
	if err != nil {
		return nil, err
	}

	var ev *model.Event
	if eventID != 0 {
		ev, err = s.client.UpdateEvent(ctx, sess.RepID, eventID, req)
	} else {
		ev, err = s.client.CreateEvent(ctx, sess.RepID, req)
	}
	if err != nil {
		return nil, fail(err, "Erro ao salvar evento.")
	}
	return ev, nil
}

func (s *CalendarScreen) Delete(ctx context.Context, eventID int64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}
	if err := s.client.DeleteEvent(ctx, sess.RepID, eventID); err != nil {
		return failFixed(err, "Erro ao excluir. Apenas o criador pode apagar o evento.")
	}
	return s.Load(ctx)
}
