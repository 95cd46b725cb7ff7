package model

type RSVP string

const (
	RSVPPending   RSVP = "PENDENTE"
	RSVPConfirmed RSVP = "CONFIRMADO"
	RSVPDeclined  RSVP = "RECUSADO"
)

func ParseRSVP(s string) (RSVP, bool) {
	r := RSVP(upper(s))
	switch r {
	case RSVPPending, RSVPConfirmed, RSVPDeclined:
		return r, true
	}
	return "", false
}

type Event struct {
	ID             int64  `json:"id"`
	Title          string `json:"titulo"`
	Description    string `json:"descricao,omitempty"`
	Location       string `json:"local"`
	StartsAt       string `json:"dataHora"`
	CreatorName    string `json:"criadorNome"`
	ConfirmedCount int    `json:"totalConfirmados"`
	MyStatus       RSVP   `json:"meuStatus"`
}

type EventRequest struct {
	Title       string `json:"titulo"`
	Description string `json:"descricao,omitempty"`
	Location    string `json:"local"`
	StartsAt    string `json:"dataHora"`
}
