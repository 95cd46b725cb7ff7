package screen

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/format"
	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/receipt"
	"github.com/dukerupert/repapp/internal/split"
)

// FinanceScreen shows the household balance, per-member balances and recent
// expenses.
type FinanceScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
	gen     Generation

	mu      sync.Mutex
	summary model.FinanceSummary
	members []model.Member
}

func NewFinanceScreen(d Deps) *FinanceScreen {
	return &FinanceScreen{client: d.Client, session: d.Session, logger: d.logger("finance")}
}

func (s *FinanceScreen) Activate(ctx context.Context) error {
	return s.load(ctx, s.gen.Next())
}

func (s *FinanceScreen) Deactivate() {
	s.gen.Next()
}

func (s *FinanceScreen) Load(ctx context.Context) error {
	return s.load(ctx, s.gen.Value())
}

func (s *FinanceScreen) load(ctx context.Context, gen uint64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	// Sibling requests are left to finish when one fails.
	var (
		g       errgroup.Group
		summary *model.FinanceSummary
		members []model.Member
	)
	g.Go(func() error {
		var err error
		summary, err = s.client.FinanceSummary(ctx, sess.RepID)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.client.ListMembers(ctx, sess.RepID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load finance", "error", err)
		return fail(err, "Não foi possível carregar os dados financeiros.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Current(gen) {
		s.summary = *summary
		s.members = members
	}
	return nil
}

func (s *FinanceScreen) Members() []model.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Member(nil), s.members...)
}

func (s *FinanceScreen) Summary() model.FinanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// ExpenseInput is the new-expense form as typed.
type ExpenseInput struct {
	Description string
	Amount      string
	Date        string
	// Receipt is a URL or a local file path to upload.
	Receipt string
	Type    model.ExpenseType
}

// ExpenseForm creates expenses and owns the participant selector.
type ExpenseForm struct {
	client   *api.Client
	session  *auth.Provider
	receipts *receipt.Uploader
	logger   *slog.Logger
	gen      Generation

	mu        sync.Mutex
	members   []model.Member
	selection split.State
}

func NewExpenseForm(d Deps, receipts *receipt.Uploader) *ExpenseForm {
	return &ExpenseForm{
		client:    d.Client,
		session:   d.Session,
		receipts:  receipts,
		logger:    d.logger("expense"),
		selection: split.Initial(),
	}
}

// Activate loads the member list and resets the selector.
func (f *ExpenseForm) Activate(ctx context.Context) error {
	gen := f.gen.Next()
	f.mu.Lock()
	f.selection = split.Initial()
	f.mu.Unlock()

	sess, err := f.session.RequireRep()
	if err != nil {
		return err
	}
	members, err := f.client.ListMembers(ctx, sess.RepID)
	if err != nil {
		return fail(err, "Não foi possível carregar os membros.")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen.Current(gen) {
		f.members = members
	}
	return nil
}

func (f *ExpenseForm) Deactivate() {
	f.gen.Next()
}

func (f *ExpenseForm) Members() []model.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Member(nil), f.members...)
}

// Dispatch applies a selector action against the loaded members.
func (f *ExpenseForm) Dispatch(a split.Action) split.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selection = split.Reduce(f.selection, f.members, a)
	return f.selection
}

func (f *ExpenseForm) Selection() split.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection
}

func (in ExpenseInput) validate() (float64, string, error) {
	if blank(in.Description) {
		return 0, "", invalid("descricao", "Por favor, preencha a descrição da despesa")
	}
	amount, err := format.ParseAmount(in.Amount)
	if err != nil {
		return 0, "", &ValidationError{Field: "valorTotal", Message: "Por favor, insira um valor válido", Err: err}
	}
	if blank(in.Date) {
		return 0, "", invalid("data", "Por favor, preencha a data da despesa")
	}
	date, err := format.WireDateFrom(in.Date)
	if err != nil {
		return 0, "", &ValidationError{Field: "data", Message: "Data inválida. Use o formato dd/MM/yyyy ou yyyy-MM-dd", Err: err}
	}
	if in.Type != "" && !in.Type.Valid() {
		return 0, "", invalid("tipo", "Tipo de despesa inválido.")
	}
	return amount, date, nil
}

// Submit validates the form and the participant selection, uploads the
// receipt if one was given and creates the expense. Nothing is sent when
// validation fails.
func (f *ExpenseForm) Submit(ctx context.Context, in ExpenseInput) (*model.Expense, error) {
	amount, date, err := in.validate()
	if err != nil {
		return nil, err
	}

	sel := f.Selection()
	if err := sel.Validate(); err != nil {
		return nil, &ValidationError{Field: "envolvidos", Message: "Selecione pelo menos um participante.", Err: err}
	}

	sess, err := f.session.RequireRep()
	if err != nil {
		return nil, err
	}

	receiptURL := strings.TrimSpace(in.Receipt)
	if f.receipts != nil {
		receiptURL, err = f.receipts.Resolve(ctx, sess.RepID, in.Receipt)
		if errors.Is(err, receipt.ErrDisabled) {
			return nil, &ValidationError{Field: "comprovante", Message: "Informe o comprovante como link.", Err: err}
		}
		if err != nil {
			return nil, failFixed(err, "Não foi possível enviar o comprovante.")
		}
	}

	typ := in.Type
	if typ == "" {
		typ = model.ExpenseSpending
	}
	expense, err := f.client.CreateExpense(ctx, sess.RepID, model.ExpenseRequest{
		Description:    strings.TrimSpace(in.Description),
		Total:          amount,
		Date:           date,
		ReceiptURL:     receiptURL,
		ParticipantIDs: sel.RequestIDs(),
		Type:           typ,
		DivisionMode:   string(sel.Mode),
	})
	if err != nil {
		f.logger.Error("create expense", "error", err)
		return nil, fail(err, "Erro ao adicionar despesa. Tente novamente.")
	}

	f.logger.Info("expense created", "rep_id", sess.RepID, "mode", sel.Mode, "participants", len(sel.Participants))
	return expense, nil
}
