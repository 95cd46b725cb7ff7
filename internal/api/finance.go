package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dukerupert/repapp/internal/model"
)

func (c *Client) FinanceSummary(ctx context.Context, repID int64) (*model.FinanceSummary, error) {
	var out model.FinanceSummary
	path := fmt.Sprintf("/reps/%d/financeiro", repID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateExpense(ctx context.Context, repID int64, req model.ExpenseRequest) (*model.Expense, error) {
	if req.ParticipantIDs == nil {
		req.ParticipantIDs = []int64{}
	}
	var out model.Expense
	path := fmt.Sprintf("/reps/%d/financeiro/despesas", repID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context, repID int64) (*model.DashboardStats, error) {
	var out model.DashboardStats
	path := fmt.Sprintf("/reps/%d/dashboard/stats", repID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Activities(ctx context.Context, repID int64) ([]model.Activity, error) {
	var out []model.Activity
	path := fmt.Sprintf("/reps/%d/dashboard/atividades", repID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
