package screen

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/nav"
)

const (
	DefaultInviteUses  = 1
	DefaultInviteHours = 24
)

// MembersScreen lists the household's members and lets an admin manage
// roles and invites.
type MembersScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
	gen     Generation

	mu       sync.Mutex
	members  []model.Member
	userID   int64
	lastLink string
}

func NewMembersScreen(d Deps) *MembersScreen {
	return &MembersScreen{client: d.Client, session: d.Session, logger: d.logger("members")}
}

func (s *MembersScreen) Activate(ctx context.Context) error {
	return s.load(ctx, s.gen.Next())
}

func (s *MembersScreen) Deactivate() {
	s.gen.Next()
}

func (s *MembersScreen) Load(ctx context.Context) error {
	return s.load(ctx, s.gen.Value())
}

func (s *MembersScreen) load(ctx context.Context, gen uint64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	members, err := s.client.ListMembers(ctx, sess.RepID)
	if err != nil {
		s.logger.Error("load members", "error", err)
		return fail(err, "Não foi possível carregar os membros.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Current(gen) {
		s.members = members
		s.userID = sess.User.ID
	}
	return nil
}

func (s *MembersScreen) Members() []model.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Member(nil), s.members...)
}

// IsAdmin reports whether the signed-in user is listed as ADM.
func (s *MembersScreen) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.UserID == s.userID {
			return m.Role == model.RoleAdmin
		}
	}
	return false
}

func (s *MembersScreen) Tabs() []nav.Route {
	return nav.TabsFor(s.IsAdmin())
}

func (s *MembersScreen) guardSelf(memberID int64) error {
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}
	if memberID == sess.User.ID {
		return ErrSelfAction
	}
	return nil
}

// ChangeRole returns the confirmation shown to the user.
func (s *MembersScreen) ChangeRole(ctx context.Context, memberID int64, role model.Role) (string, error) {
	if err := s.guardSelf(memberID); err != nil {
		return "", err
	}
	if !role.Valid() {
		return "", invalid("funcao", "Função inválida.")
	}
	sess, err := s.session.RequireRep()
	if err != nil {
		return "", err
	}

	if err := s.client.ChangeRole(ctx, sess.RepID, memberID, role); err != nil {
		s.logger.Warn("change role", "member_id", memberID, "role", role, "error", err)
		return "", failFixed(err, "Não foi possível alterar a função. Verifique se você é ADM.")
	}
	s.logger.Info("role changed", "member_id", memberID, "role", role)
	return "Função alterada com sucesso.", s.Load(ctx)
}

func (s *MembersScreen) RemoveMember(ctx context.Context, memberID int64) error {
	if err := s.guardSelf(memberID); err != nil {
		return err
	}
	sess, err := s.session.RequireRep()
	if err != nil {
		return err
	}

	if err := s.client.RemoveMember(ctx, sess.RepID, memberID); err != nil {
		s.logger.Warn("remove member", "member_id", memberID, "error", err)
		return failFixed(err, "Não foi possível remover o membro.")
	}
	s.logger.Info("member removed", "member_id", memberID)
	return s.Load(ctx)
}

// positiveOr parses text as a positive integer, falling back to def.
func positiveOr(text string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// GenerateInvite asks the backend for a new invite link. An empty role means
// MEMBRO.
func (s *MembersScreen) GenerateInvite(ctx context.Context, role model.Role, uses, hours string) (*model.Invite, error) {
	if role == "" {
		role = model.RoleMember
	}
	if !role.Valid() {
		return nil, invalid("tipoMembro", "Função inválida.")
	}
	sess, err := s.session.RequireRep()
	if err != nil {
		return nil, err
	}

	req := model.InviteRequest{
		Role:       role,
		MaxUses:    positiveOr(uses, DefaultInviteUses),
		ValidHours: positiveOr(hours, DefaultInviteHours),
	}
	inv, err := s.client.CreateInvite(ctx, sess.RepID, req)
	if err != nil {
		return nil, fail(err, "Falha ao gerar convite.")
	}

	s.mu.Lock()
	s.lastLink = inv.Link
	s.mu.Unlock()
	s.logger.Info("invite generated", "role", role, "uses", req.MaxUses, "hours", req.ValidHours)
	return inv, nil
}

// LastLink is the most recently generated invite link, or "".
func (s *MembersScreen) LastLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLink
}

func InviteShareMessage(link string) string {
	return "Venha morar na minha república! Use este link para entrar no App: \n" + link
}
