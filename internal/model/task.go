package model

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDENTE"
	TaskCompleted TaskStatus = "CONCLUIDA"
	TaskLate      TaskStatus = "ATRASADA"
)

type Priority string

const (
	PriorityLow    Priority = "BAIXA"
	PriorityMedium Priority = "MEDIA"
	PriorityHigh   Priority = "ALTA"
	PriorityUrgent Priority = "URGENTE"
)

func ParsePriority(s string) (Priority, bool) {
	p := Priority(upper(s))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, true
	}
	return "", false
}

type TaskCategory string

const (
	TaskCleaning    TaskCategory = "LIMPEZA"
	TaskShopping    TaskCategory = "COMPRAS"
	TaskMaintenance TaskCategory = "MANUTENCAO"
	TaskOther       TaskCategory = "OUTROS"
)

func ParseTaskCategory(s string) (TaskCategory, bool) {
	c := TaskCategory(upper(s))
	switch c {
	case TaskCleaning, TaskShopping, TaskMaintenance, TaskOther:
		return c, true
	}
	return "", false
}

type Task struct {
	ID               int64        `json:"id"`
	Title            string       `json:"titulo"`
	Description      string       `json:"descricao,omitempty"`
	DueAt            string       `json:"dataPrazo"`
	CompletedAt      string       `json:"dataConclusao,omitempty"`
	Status           TaskStatus   `json:"status"`
	Priority         Priority     `json:"prioridade"`
	Category         TaskCategory `json:"categoria"`
	AssigneeID       *int64       `json:"responsavelId,omitempty"`
	AssigneeName     string       `json:"responsavelNome,omitempty"`
	AssigneePhotoURL string       `json:"responsavelFoto,omitempty"`
	Done             bool         `json:"concluida,omitempty"`
}

// IsDone reports completion by status or the legacy flag.
func (t Task) IsDone() bool {
	return t.Status == TaskCompleted || t.Done
}

type TaskRequest struct {
	Title       string       `json:"titulo"`
	Description string       `json:"descricao,omitempty"`
	DueAt       string       `json:"dataPrazo"`
	Priority    Priority     `json:"prioridade"`
	Category    TaskCategory `json:"categoria"`
	AssigneeID  *int64       `json:"responsavelId,omitempty"`
}
