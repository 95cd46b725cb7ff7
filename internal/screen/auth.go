package screen

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/nav"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const msgRequiredFields = "Preencha todos os campos obrigatórios!"

// AuthScreen covers login, user registration and household creation.
type AuthScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
}

func NewAuthScreen(d Deps) *AuthScreen {
	return &AuthScreen{client: d.Client, session: d.Session, logger: d.logger("auth")}
}

// InitialRoute picks the first screen from the stored session.
func (s *AuthScreen) InitialRoute() (nav.Destination, error) {
	sess, err := s.session.Session()
	if err != nil {
		return nav.Destination{}, err
	}
	return nav.InitialRoute(sess), nil
}

// Login signs in and returns the next destination. A pending invite from
// an earlier deep link is replayed before anything else.
func (s *AuthScreen) Login(ctx context.Context, email, password string) (nav.Destination, error) {
	if blank(email) || blank(password) {
		return nav.Destination{}, invalid("email", "Preencha email e senha.")
	}

	resp, err := s.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nav.Destination{}, fail(err, "Erro ao realizar login")
	}
	if resp.Token == "" {
		return nav.Destination{}, failFixed(errors.New("login response without token"), "Erro ao realizar login")
	}

	user := model.User{ID: resp.User.ID, Name: resp.User.Name}
	if err := s.session.SignIn(resp.Token, user, resp.User.RepID); err != nil {
		return nav.Destination{}, err
	}
	s.logger.Info("signed in", "user_id", user.ID)
	return s.afterSignIn()
}

// Registration is the sign-up form as typed.
type Registration struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Course          string
	University      string
	Year            string
}

func (r Registration) validate() (int, error) {
	if blank(r.FullName) || blank(r.Email) || r.Password == "" || r.ConfirmPassword == "" ||
		blank(r.University) || blank(r.Year) {
		return 0, invalid("form", msgRequiredFields)
	}
	if !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		return 0, invalid("email", "Por favor, insira um email válido!")
	}
	if r.Password != r.ConfirmPassword {
		return 0, invalid("senha", "As senhas não coincidem!")
	}
	year, err := strconv.Atoi(strings.TrimSpace(r.Year))
	if err != nil {
		return 0, invalid("ano", "Ano de ingresso inválido.")
	}
	return year, nil
}

func (s *AuthScreen) Register(ctx context.Context, r Registration) (nav.Destination, error) {
	year, err := r.validate()
	if err != nil {
		return nav.Destination{}, err
	}

	resp, err := s.client.Register(ctx, model.RegisterRequest{
		FullName:   strings.TrimSpace(r.FullName),
		Email:      strings.TrimSpace(r.Email),
		Password:   r.Password,
		University: strings.TrimSpace(r.University),
		Year:       year,
		Course:     strings.TrimSpace(r.Course),
	})
	if err != nil {
		return nav.Destination{}, fail(err, "Falha ao cadastrar usuário!")
	}

	user := model.User{ID: resp.ID, Name: resp.Name}
	if err := s.session.SignIn(resp.Token, user, resp.RepID); err != nil {
		return nav.Destination{}, err
	}
	s.logger.Info("registered", "user_id", user.ID)
	return s.afterSignIn()
}

func (s *AuthScreen) afterSignIn() (nav.Destination, error) {
	pending, err := s.session.TakePendingInvite()
	if err != nil {
		return nav.Destination{}, err
	}
	if pending != "" {
		return nav.Destination{Route: nav.JoinHandler, Params: map[string]string{"token": pending}}, nil
	}
	return s.InitialRoute()
}

// RepRegistration is the household creation form.
type RepRegistration struct {
	Name       string
	Street     string
	Number     string
	District   string
	PostalCode string
	Email      string
}

// CreateRep creates a household for the signed-in user and selects it.
func (s *AuthScreen) CreateRep(ctx context.Context, r RepRegistration) (nav.Destination, error) {
	if _, err := s.session.RequireSession(); err != nil {
		return nav.Destination{}, err
	}
	if blank(r.Name) || blank(r.Street) || blank(r.District) || blank(r.PostalCode) || blank(r.Email) {
		return nav.Destination{}, invalid("form", msgRequiredFields)
	}

	name := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)
	resp, err := s.client.CreateRep(ctx, model.CreateRepRequest{
		Name:  name,
		Email: email,
		Address: model.Address{
			Name:       name,
			Street:     strings.TrimSpace(r.Street),
			Number:     strings.TrimSpace(r.Number),
			District:   strings.TrimSpace(r.District),
			PostalCode: strings.TrimSpace(r.PostalCode),
			Email:      email,
		},
	})
	if err != nil {
		return nav.Destination{}, fail(err, "Falha ao cadastrar.")
	}
	if resp.ID <= 0 {
		return nav.Destination{}, failFixed(errors.New("create rep response without id"), "Falha ao cadastrar.")
	}

	if err := s.session.SetRepID(resp.ID); err != nil {
		return nav.Destination{}, err
	}
	s.logger.Info("household created", "rep_id", resp.ID)
	return nav.Destination{Route: nav.MainTabs, Tab: nav.Home}, nil
}
