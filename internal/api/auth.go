package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/repapp/internal/model"
)

func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	var out model.LoginResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	var out model.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/cadastro", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRep(ctx context.Context, req model.CreateRepRequest) (*model.CreateRepResponse, error) {
	var out model.CreateRepResponse
	if err := c.do(ctx, http.MethodPost, "/reps", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, http.MethodGet, "/usuarios/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, http.MethodPut, "/usuarios/me", nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
