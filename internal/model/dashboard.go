package model

type DashboardStats struct {
	CurrentBalance       float64 `json:"saldoAtual"`
	MonthIncome          float64 `json:"totalEntradasMes"`
	MonthSpending        float64 `json:"totalSaidasMes"`
	TasksDoneThisWeek    int     `json:"tarefasConcluidasSemana"`
	ExpensesCreatedMonth int     `json:"despesasCriadasMes"`
}

type ActivityType string

const (
	ActivityTaskDone      ActivityType = "TAREFA_CONCLUIDA"
	ActivityExpense       ActivityType = "DESPESA_CRIADA"
	ActivityEventCreated  ActivityType = "EVENTO_CRIADO"
	ActivityNoticeCreated ActivityType = "AVISO_CRIADO"
)

type Activity struct {
	Type        ActivityType `json:"tipo"`
	Title       string       `json:"titulo"`
	Description string       `json:"descricao"`
	Date        string       `json:"data"`
	Elapsed     string       `json:"tempoDecorrido"`
	AuthorPhoto string       `json:"fotoAutor,omitempty"`
}
