package model

type NoticeCategory string

const (
	NoticeGeneral     NoticeCategory = "GERAL"
	NoticeFinance     NoticeCategory = "FINANCEIRO"
	NoticeCleaning    NoticeCategory = "LIMPEZA"
	NoticeEvent       NoticeCategory = "EVENTO"
	NoticeMaintenance NoticeCategory = "MANUTENCAO"
)

func ParseNoticeCategory(s string) (NoticeCategory, bool) {
	c := NoticeCategory(upper(s))
	switch c {
	case NoticeGeneral, NoticeFinance, NoticeCleaning, NoticeEvent, NoticeMaintenance:
		return c, true
	}
	return "", false
}

type Urgency string

const (
	UrgencyLow    Urgency = "BAIXA"
	UrgencyMedium Urgency = "MEDIA"
	UrgencyHigh   Urgency = "ALTA"
)

func ParseUrgency(s string) (Urgency, bool) {
	u := Urgency(upper(s))
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return u, true
	}
	return "", false
}

type Notice struct {
	ID          int64          `json:"id"`
	Title       string         `json:"titulo"`
	Description string         `json:"descricao"`
	Category    NoticeCategory `json:"categoria"`
	Urgency     Urgency        `json:"urgencia"`
	Amount      *float64       `json:"valor,omitempty"`
	Active      bool           `json:"ativo"`
	AuthorID    int64          `json:"autorId"`
	AuthorName  string         `json:"autorNome"`
	AuthorPhoto string         `json:"autorFoto,omitempty"`
	CreatedAt   string         `json:"dataCriacao"`
}

type NoticeRequest struct {
	Title       string         `json:"titulo"`
	Description string         `json:"descricao"`
	Category    NoticeCategory `json:"categoria"`
	Urgency     Urgency        `json:"urgencia"`
	Amount      *float64       `json:"valor,omitempty"`
}
