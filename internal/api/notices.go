package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dukerupert/repapp/internal/model"
)

func noticesPath(repID int64) string {
	return fmt.Sprintf("/reps/%d/avisos", repID)
}

func (c *Client) ListNotices(ctx context.Context, repID int64) ([]model.Notice, error) {
	var out []model.Notice
	if err := c.do(ctx, http.MethodGet, noticesPath(repID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateNotice(ctx context.Context, repID int64, req model.NoticeRequest) (*model.Notice, error) {
	var out model.Notice
	if err := c.do(ctx, http.MethodPost, noticesPath(repID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleNotice flips a notice between active and archived.
func (c *Client) ToggleNotice(ctx context.Context, repID, noticeID int64) error {
	path := fmt.Sprintf("%s/%d/status", noticesPath(repID), noticeID)
	return c.do(ctx, http.MethodPatch, path, nil, nil, nil)
}

func (c *Client) DeleteNotice(ctx context.Context, repID, noticeID int64) error {
	path := fmt.Sprintf("%s/%d", noticesPath(repID), noticeID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
