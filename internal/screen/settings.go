package screen

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/auth"
	"github.com/dukerupert/repapp/internal/model"
)

type SettingsScreen struct {
	client  *api.Client
	session *auth.Provider
	logger  *slog.Logger
}

func NewSettingsScreen(d Deps) *SettingsScreen {
	return &SettingsScreen{client: d.Client, session: d.Session, logger: d.logger("settings")}
}

func (s *SettingsScreen) LoadProfile(ctx context.Context) (*model.Profile, error) {
	if _, err := s.session.RequireSession(); err != nil {
		return nil, err
	}
	p, err := s.client.GetProfile(ctx)
	if err != nil {
		s.logger.Error("load profile", "error", err)
		return nil, failFixed(err, "Não foi possível carregar seus dados.")
	}
	return p, nil
}

type ProfileInput struct {
	FullName   string
	PhotoURL   string
	Course     string
	University string
	Year       string
}

func (in ProfileInput) update() (model.ProfileUpdate, error) {
	if blank(in.FullName) {
		return model.ProfileUpdate{}, invalid("nomeCompleto", "O nome é obrigatório")
	}
	upd := model.ProfileUpdate{
		FullName:   strings.TrimSpace(in.FullName),
		PhotoURL:   strings.TrimSpace(in.PhotoURL),
		Course:     strings.TrimSpace(in.Course),
		University: strings.TrimSpace(in.University),
	}
	if !blank(in.Year) {
		y, err := strconv.Atoi(strings.TrimSpace(in.Year))
		if err != nil {
			return model.ProfileUpdate{}, &ValidationError{Field: "ano", Message: "Ano de ingresso inválido.", Err: err}
		}
		upd.Year = &y
	}
	return upd, nil
}

// Save updates the profile and the user name kept in the session.
func (s *SettingsScreen) Save(ctx context.Context, in ProfileInput) (*model.Profile, error) {
	upd, err := in.update()
	if err != nil {
		return nil, err
	}
	if _, err := s.session.RequireSession(); err != nil {
		return nil, err
	}

	p, err := s.client.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, fail(err, "Falha ao atualizar perfil.")
	}
	if err := s.session.SetUserName(upd.FullName); err != nil {
		return p, err
	}
	return p, nil
}

func (s *SettingsScreen) Logout() error {
	if err := s.session.Logout(); err != nil {
		return err
	}
	s.logger.Info("signed out")
	return nil
}
