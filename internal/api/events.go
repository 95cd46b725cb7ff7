package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dukerupert/repapp/internal/model"
)

func agendaPath(repID int64) string {
	return fmt.Sprintf("/reps/%d/agenda", repID)
}

func (c *Client) CreateEvent(ctx context.Context, repID int64, req model.EventRequest) (*model.Event, error) {
	var out model.Event
	if err := c.do(ctx, http.MethodPost, agendaPath(repID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, repID, eventID int64, req model.EventRequest) (*model.Event, error) {
	var out model.Event
	path := fmt.Sprintf("%s/%d", agendaPath(repID), eventID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, repID, eventID int64) error {
	path := fmt.Sprintf("%s/%d", agendaPath(repID), eventID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) UpcomingEvents(ctx context.Context, repID int64) ([]model.Event, error) {
	var out []model.Event
	if err := c.do(ctx, http.MethodGet, agendaPath(repID)+"/proximos", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MonthEvents lists events for a calendar month (1-12).
func (c *Client) MonthEvents(ctx context.Context, repID int64, year, month int) ([]model.Event, error) {
	var out []model.Event
	q := url.Values{
		"ano": {strconv.Itoa(year)},
		"mes": {strconv.Itoa(month)},
	}
	if err := c.do(ctx, http.MethodGet, agendaPath(repID)+"/mes", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RespondRSVP(ctx context.Context, repID, eventID int64, status model.RSVP) error {
	path := fmt.Sprintf("%s/%d/presenca", agendaPath(repID), eventID)
	return c.do(ctx, http.MethodPut, path, url.Values{"status": {string(status)}}, nil, nil)
}
