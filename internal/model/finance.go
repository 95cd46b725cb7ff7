package model

type ExpenseType string

const (
	ExpenseSpending ExpenseType = "GASTO"
	ExpensePayment  ExpenseType = "PAGAMENTO"
)

func (t ExpenseType) Valid() bool {
	return t == ExpenseSpending || t == ExpensePayment
}

type FinanceSummary struct {
	HouseholdBalance float64         `json:"saldoTotalRep"`
	Balances         []MemberBalance `json:"saldos"`
	RecentExpenses   []Expense       `json:"despesasRecentes"`
}

type MemberBalance struct {
	UserID     int64   `json:"usuarioId"`
	Name       string  `json:"nome"`
	PhotoURL   *string `json:"fotoUrl"`
	Amount     float64 `json:"valor"`
	StatusText string  `json:"statusTexto"`
}

type Expense struct {
	ID           int64   `json:"id"`
	Description  string  `json:"descricao"`
	Total        float64 `json:"valorTotal"`
	Date         string  `json:"data"`
	PayerName    string  `json:"pagadorNome"`
	PerPersonAmt float64 `json:"valorPorPessoa"`
}

// ExpenseRequest creates an expense. An empty ParticipantIDs means the whole
// household; it is always sent as a list, never null.
type ExpenseRequest struct {
	Description    string      `json:"descricao"`
	Total          float64     `json:"valorTotal"`
	Date           string      `json:"data"`
	ReceiptURL     string      `json:"comprovanteUrl,omitempty"`
	ParticipantIDs []int64     `json:"envolvidosIds"`
	Type           ExpenseType `json:"tipo"`
	DivisionMode   string      `json:"modoDivisao,omitempty"`
}
