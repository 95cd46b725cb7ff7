package screen

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/nav"
)

const DefaultJoinDelay = time.Second

var ErrInvalidInvite = errors.New("invalid invite link")

// JoinScreen redeems invite tokens from deep links.
type JoinScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
	delay   time.Duration
}

func NewJoinScreen(d Deps, delay time.Duration) *JoinScreen {
	if delay < 0 {
		delay = DefaultJoinDelay
	}
	return &JoinScreen{client: d.Client, session: d.Session, logger: d.logger("join"), delay: delay}
}

// JoinResult is the outcome of an invite. Message is the status shown while
// the destination is pending.
type JoinResult struct {
	Destination nav.Destination
	Message     string
	RepID       int64
}

// AcceptInvite joins the household behind token. Without a session the token
// is kept for replay after login and the user is sent to Login. A backend
// rejection sends the user to first access with the server's message.
func (s *JoinScreen) AcceptInvite(ctx context.Context, token string) (JoinResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return JoinResult{Message: "Link inválido."}, &ValidationError{Field: "token", Message: "Link inválido.", Err: ErrInvalidInvite}
	}

	if _, err := s.session.RequireSession(); err != nil {
		if !errors.Is(err, auth.ErrNotAuthenticated) {
			return JoinResult{}, err
		}
		if err := s.session.SetPendingInvite(token); err != nil {
			return JoinResult{}, err
		}
		s.logger.Info("invite deferred until login")
		return JoinResult{
			Destination: nav.Destination{Route: nav.Login, Params: map[string]string{"pendingInviteToken": token}},
			Message:     "Faça login para aceitar o convite.",
		}, nil
	}

	resp, err := s.client.JoinRep(ctx, token)
	if err != nil {
		f := fail(err, "Erro ao processar convite.")
		return JoinResult{Destination: nav.Destination{Route: nav.Access}, Message: f.Error()}, f
	}
	if err := s.session.SetRepID(resp.ID); err != nil {
		return JoinResult{}, err
	}

	s.logger.Info("joined household", "rep_id", resp.ID)
	msg := resp.Message
	if msg == "" {
		msg = "Entrando na república..."
	}
	return JoinResult{
		Destination: nav.Destination{Route: nav.MainTabs, Tab: nav.Home, Delay: s.delay},
		Message:     msg,
		RepID:       resp.ID,
	}, nil
}
