package screen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/format"
	"github.com/dukerupert/repapp/internal/model"
)

type NoticeFilter string

const (
	NoticesAll         NoticeFilter = "Todos"
	NoticesImportant   NoticeFilter = "Importantes"
	NoticesFinance     NoticeFilter = "Financeiro"
	NoticesGeneral     NoticeFilter = "Geral"
	NoticesEvents      NoticeFilter = "Eventos"
	NoticesMaintenance NoticeFilter = "Manutenção"
)

var NoticeFilters = []NoticeFilter{
	NoticesAll, NoticesImportant, NoticesFinance, NoticesGeneral, NoticesEvents, NoticesMaintenance,
}

func (f NoticeFilter) match(n model.Notice) bool {
	switch f {
	case NoticesImportant:
		return n.Urgency == model.UrgencyHigh
	case NoticesFinance:
		return n.Category == model.NoticeFinance
	case NoticesGeneral:
		return n.Category == model.NoticeGeneral
	case NoticesEvents:
		return n.Category == model.NoticeEvent
	case NoticesMaintenance:
		return n.Category == model.NoticeMaintenance
	}
	return true
}

type NoticesScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
	gen     Generation

	mu      sync.Mutex
	notices []model.Notice
}

func NewNoticesScreen(d Deps) *NoticesScreen {
	return &NoticesScreen{client: d.Client, session: d.Session, logger: d.logger("notices")}
}

func (s *NoticesScreen) Activate(ctx context.Context) error {
	return s.load(ctx, s.gen.Next())
}

func (s *NoticesScreen) Deactivate() {
	s.gen.Next()
}

func (s *NoticesScreen) Load(ctx context.Context) error {
	return s.load(ctx, s.gen.Value())
}

func (s *NoticesScreen) load(ctx context.Context, gen uint64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	notices, err := s.client.ListNotices(ctx, sess.RepID)
	if err != nil {
		s.logger.Error("load notices", "error", err)
		return fail(err, "Não foi possível carregar os avisos.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Current(gen) {
		s.notices = notices
	}
	return nil
}

func (s *NoticesScreen) Notices(filter NoticeFilter) []model.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Notice{}
	for _, n := range s.notices {
		if filter.match(n) {
			out = append(out, n)
		}
	}
	return out
}

type NoticeInput struct {
	Title       string
	Description string
	Category    string
	Urgency     string
	Amount      string
}

func (in NoticeInput) request() (model.NoticeRequest, error) {
	if blank(in.Title) {
		return model.NoticeRequest{}, invalid("titulo", "O título é obrigatório")
	}
	if blank(in.Description) {
		return model.NoticeRequest{}, invalid("descricao", "A descrição é obrigatória")
	}

	req := model.NoticeRequest{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    model.NoticeGeneral,
		Urgency:     model.UrgencyLow,
	}
	if !blank(in.Category) {
		c, ok := model.ParseNoticeCategory(in.Category)
		if !ok {
			return model.NoticeRequest{}, invalid("categoria", "Categoria inválida.")
		}
		req.Category = c
	}
	if !blank(in.Urgency) {
		u, ok := model.ParseUrgency(in.Urgency)
		if !ok {
			return model.NoticeRequest{}, invalid("urgencia", "Urgência inválida.")
		}
		req.Urgency = u
	}
	if !blank(in.Amount) {
		v, err := format.ParseAmount(in.Amount)
		if err != nil {
			return model.NoticeRequest{}, &ValidationError{Field: "valor", Message: "Por favor, insira um valor válido", Err: err}
		}
		req.Amount = &v
	}
	return req, nil
}

func (s *NoticesScreen) Create(ctx context.Context, in NoticeInput) (*model.Notice, error) {
	req, err := in.request()
	if err != nil {
		return nil, err
	}
	sess, err := s.session.RequireRep()
	if err != nil {
		return nil, err
	}

	n, err := s.client.CreateNotice(ctx, sess.RepID, req)
	if err != nil {
		return nil, fail(err, "Erro ao criar aviso.")
	}
	s.logger.Info("notice created", "notice_id", n.ID, "category", n.Category)
	return n, nil
}

// Toggle flips a notice between active and archived.
func (s *NoticesScreen) Toggle(ctx context.Context, noticeID int64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}
	if err := s.client.ToggleNotice(ctx, sess.RepID, noticeID); err != nil {
		return failFixed(err, "Erro ao atualizar status.")
	}
	return s.Load(ctx)
}

func (s *NoticesScreen) Delete(ctx context.Context, noticeID int64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}
	if err := s.client.DeleteNotice(ctx, sess.RepID, noticeID); err != nil {
		return failFixed(err, "Erro ao excluir. Tente novamente.")
	}
	return s.Load(ctx)
}

// Age labels when a notice was posted relative to now. An unreadable date
// is shown as is.
func Age(n model.Notice, now time.Time) string {
	t, err := format.ParseWireTime(n.CreatedAt, now.Location())
	if err != nil {
		return n.CreatedAt
	}
	return format.TimeAgo(t, now)
}

// ShareText is the message body used when sharing a notice.
func ShareText(n model.Notice) string {
	return fmt.Sprintf("*%s*\n\n%s\n\n_Enviado via RepApp_", n.Title, n.Description)
}
