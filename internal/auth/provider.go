package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/store"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoHousehold      = errors.New("no household selected")
)

// KV is the durable storage a Provider reads through.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	RemoveAll(keys ...string) error
}

// Provider serves the session context to every screen. Reads go through an
// in-memory cache that is dropped on every write and on Invalidate.
type Provider struct {
	mu     sync.Mutex
	kv     KV
	cached *Session
	logger *slog.Logger
	now    func() time.Time
}

func NewProvider(kv KV, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		kv:     kv,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
}

// Session returns the current session snapshot. A missing or expired token
// yields an unauthenticated snapshot, not an error.
func (p *Provider) Session() (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached, nil
	}

	s, err := p.load()
	if err != nil {
		return Session{}, err
	}
	p.cached = &s
	return s, nil
}

func (p *Provider) load() (Session, error) {
	var s Session

	token, ok, err := p.kv.Get(store.KeyToken)
	if err != nil {
		return s, fmt.Errorf("load token: %w", err)
	}
	if ok && !tokenExpired(token, p.now()) {
		s.Token = token
	} else if ok {
		p.logger.Info("stored token expired")
	}

	raw, ok, err := p.kv.Get(store.KeyUser)
	if err != nil {
		return s, fmt.Errorf("load user: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.User); err != nil {
			p.logger.Warn("discarding unreadable stored user", "error", err)
			s.User = model.User{}
		}
	}

	rep, ok, err := p.kv.Get(store.KeyRepID)
	if err != nil {
		return s, fmt.Errorf("load repId: %w", err)
	}
	if ok {
		id, err := strconv.ParseInt(rep, 10, 64)
		if err == nil && id > 0 {
			s.RepID = id
			s.HasRep = true
		} else {
			p.logger.Warn("discarding invalid stored repId", "value", rep)
		}
	}

	return s, nil
}

// Token returns the bearer token, or "" when signed out.
func (p *Provider) Token() (string, error) {
	s, err := p.Session()
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

func (p *Provider) RequireSession() (Session, error) {
	s, err := p.Session()
	if err != nil {
		return Session{}, err
	}
	if !s.Authenticated() {
		return Session{}, ErrNotAuthenticated
	}
	return s, nil
}

// RequireRep returns the session only when a household is selected.
func (p *Provider) RequireRep() (Session, error) {
	s, err := p.RequireSession()
	if err != nil {
		return Session{}, err
	}
	if !s.HasRep {
		return Session{}, ErrNoHousehold
	}
	return s, nil
}

// SignIn persists a fresh token and user. A nil repID clears any stale
// household selection.
func (p *Provider) SignIn(token string, user model.User, repID *int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.invalidateLocked()

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := p.kv.Set(store.KeyToken, token); err != nil {
		return err
	}
	if err := p.kv.Set(store.KeyUser, string(userJSON)); err != nil {
		return err
	}
	if repID != nil && *repID > 0 {
		return p.kv.Set(store.KeyRepID, strconv.FormatInt(*repID, 10))
	}
	return p.kv.Remove(store.KeyRepID)
}

func (p *Provider) SetRepID(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.invalidateLocked()
	return p.kv.Set(store.KeyRepID, strconv.FormatInt(id, 10))
}

// SetUserName updates the stored display name of the signed-in user.
func (p *Provider) SetUserName(name string) error {
	s, err := p.RequireSession()
	if err != nil {
		return err
	}
	s.User.Name = name
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.invalidateLocked()
	return p.kv.Set(store.KeyUser, string(userJSON))
}

// Logout clears token, user and household together.
func (p *Provider) Logout() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.invalidateLocked()

	if err := p.kv.RemoveAll(store.SessionKeys...); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	p.logger.Info("signed out")
	return nil
}

func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidateLocked()
}

func (p *Provider) invalidateLocked() {
	p.cached = nil
}

// SetPendingInvite remembers an invite token until the next sign-in.
func (p *Provider) SetPendingInvite(token string) error {
	return p.kv.Set(store.KeyPendingInvite, token)
}

// TakePendingInvite returns and clears the remembered invite token.
func (p *Provider) TakePendingInvite() (string, error) {
	token, ok, err := p.kv.Get(store.KeyPendingInvite)
	if err != nil || !ok {
		return "", err
	}
	if err := p.kv.Remove(store.KeyPendingInvite); err != nil {
		return "", err
	}
	return token, nil
}

// tokenExpired inspects the exp claim without verifying the signature.
// Tokens that are not JWTs never expire on the client.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
