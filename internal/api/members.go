package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dukerupert/repapp/internal/model"
)

func membersPath(repID int64) string {
	return fmt.Sprintf("/reps/%d/membros", repID)
}

func (c *Client) ListMembers(ctx context.Context, repID int64) ([]model.Member, error) {
	var out []model.Member
	if err := c.do(ctx, http.MethodGet, membersPath(repID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ChangeRole(ctx context.Context, repID, userID int64, role model.Role) error {
	path := fmt.Sprintf("%s/%d/funcao", membersPath(repID), userID)
	return c.do(ctx, http.MethodPut, path, url.Values{"novaFuncao": {string(role)}}, nil, nil)
}

func (c *Client) RemoveMember(ctx context.Context, repID, userID int64) error {
	path := fmt.Sprintf("%s/%d", membersPath(repID), userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) CreateInvite(ctx context.Context, repID int64, req model.InviteRequest) (*model.Invite, error) {
	var out model.Invite
	path := fmt.Sprintf("/reps/%d/convites", repID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinRep redeems an invite token for the signed-in user.
func (c *Client) JoinRep(ctx context.Context, token string) (*model.JoinResponse, error) {
	var out model.JoinResponse
	if err := c.do(ctx, http.MethodPost, "/convites/entrar", nil, model.JoinRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
