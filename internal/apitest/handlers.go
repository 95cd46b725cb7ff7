package apitest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dukerupert/repapp/internal/model"
)

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.state.Accounts[req.Email]
	if !ok || a.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "Email ou senha inválidos")
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{
		Token: fmt.Sprintf("token-%d", a.Profile.ID),
		User: model.LoginUser{
			ID:    a.Profile.ID,
			Name:  a.Profile.FullName,
			Email: a.Profile.Email,
			RepID: a.RepID,
		},
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.state.Accounts[req.Email]; exists {
		writeError(w, http.StatusConflict, "Email já cadastrado")
		return
	}
	id := b.newID()
	year := req.Year
	b.state.Accounts[req.Email] = &Account{
		Password: req.Password,
		Profile: model.Profile{
			ID:         id,
			FullName:   req.FullName,
			Email:      req.Email,
			Course:     req.Course,
			University: req.University,
			Year:       &year,
		},
	}
	token := fmt.Sprintf("token-%d", id)
	b.state.Tokens[token] = id
	writeJSON(w, http.StatusCreated, model.RegisterResponse{Token: token, ID: id, Name: req.FullName})
}

func (b *Backend) createRep(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRepRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.Reps = append(b.state.Reps, req)
	id := b.newID()
	if _, a := b.currentUser(r); a != nil {
		a.RepID = &id
	}
	writeJSON(w, http.StatusCreated, model.CreateRepResponse{ID: id})
}

func (b *Backend) getProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, a := b.currentUser(r)
	if a == nil {
		writeError(w, http.StatusNotFound, "Usuário não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, a.Profile)
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request) {
	var upd model.ProfileUpdate
	if !decode(w, r, &upd) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, a := b.currentUser(r)
	if a == nil {
		writeError(w, http.StatusNotFound, "Usuário não encontrado")
		return
	}
	if upd.FullName != "" {
		a.Profile.FullName = upd.FullName
	}
	if upd.PhotoURL != "" {
		a.Profile.PhotoURL = upd.PhotoURL
	}
	if upd.Course != "" {
		a.Profile.Course = upd.Course
	}
	if upd.University != "" {
		a.Profile.University = upd.University
	}
	if upd.Year != nil {
		a.Profile.Year = upd.Year
	}
	writeJSON(w, http.StatusOK, a.Profile)
}

func (b *Backend) join(w http.ResponseWriter, r *http.Request) {
	var req model.JoinRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	inv, ok := b.state.Invites[req.Token]
	if !ok || inv.UsesLeft <= 0 {
		writeError(w, http.StatusBadRequest, "Convite inválido ou expirado")
		return
	}
	inv.UsesLeft--
	id, a := b.currentUser(r)
	if a != nil {
		a.RepID = &inv.RepID
		b.state.Members = append(b.state.Members, model.Member{UserID: id, Name: a.Profile.FullName, Role: inv.Role})
	}
	writeJSON(w, http.StatusOK, model.JoinResponse{ID: inv.RepID, Message: "Bem-vindo à república!"})
}

func (b *Backend) listMembers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(b.state.Members))
}

func (b *Backend) memberIndex(id int64) int {
	for i, m := range b.state.Members {
		if m.UserID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) changeRole(w http.ResponseWriter, r *http.Request) {
	role, err := model.ParseRole(r.URL.Query().Get("novaFuncao"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Função inválida")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.memberIndex(pathID(r, "user"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Membro não encontrado")
		return
	}
	b.state.Members[i].Role = role
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) removeMember(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.memberIndex(pathID(r, "user"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Membro não encontrado")
		return
	}
	b.state.Members = append(b.state.Members[:i], b.state.Members[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) createInvite(w http.ResponseWriter, r *http.Request) {
	var req model.InviteRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	token := fmt.Sprintf("conv-%d", b.newID())
	b.state.Invites[token] = &Invite{RepID: b.state.RepID, Role: req.Role, UsesLeft: req.MaxUses}
	writeJSON(w, http.StatusCreated, model.Invite{
		Link:      "repapp://entrar/" + token,
		Token:     token,
		ExpiresAt: "2026-01-02T00:00:00",
		Message:   fmt.Sprintf("Convite válido por %d horas", req.ValidHours),
	})
}

func (b *Backend) financeSummary(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.state.Summary)
}

func (b *Backend) createExpense(w http.ResponseWriter, r *http.Request) {
	var req model.ExpenseRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.Expenses = append(b.state.Expenses, req)
	writeJSON(w, http.StatusCreated, model.Expense{
		ID:          b.newID(),
		Description: req.Description,
		Total:       req.Total,
		Date:        req.Date,
	})
}

func (b *Backend) stats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.state.Stats)
}

func (b *Backend) activities(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(b.state.Activities))
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var req model.TaskRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t := model.Task{
		ID:          b.newID(),
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		Status:      model.TaskPending,
		Priority:    req.Priority,
		Category:    req.Category,
		AssigneeID:  req.AssigneeID,
	}
	b.state.Tasks = append(b.state.Tasks, t)
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) listTasks(w http.ResponseWriter, r *http.Request) {
	scope := mux.Vars(r)["scope"]
	b.mu.Lock()
	defer b.mu.Unlock()

	userID, _ := b.currentUser(r)
	out := []model.Task{}
	for _, t := range b.state.Tasks {
		switch scope {
		case "minhas":
			if t.AssigneeID == nil || *t.AssigneeID != userID {
				continue
			}
		case "pendentes", "dashboard":
			if t.IsDone() {
				continue
			}
		case "todas":
		default:
			writeError(w, http.StatusNotFound, "")
			return
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) taskIndex(id int64) int {
	for i, t := range b.state.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// completeTask toggles between PENDENTE and CONCLUIDA.
func (b *Backend) completeTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(pathID(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Tarefa não encontrada")
		return
	}
	t := &b.state.Tasks[i]
	if t.IsDone() {
		t.Status, t.Done, t.CompletedAt = model.TaskPending, false, ""
	} else {
		t.Status, t.Done, t.CompletedAt = model.TaskCompleted, true, "2026-01-01T12:00:00"
	}
	writeJSON(w, http.StatusOK, *t)
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(pathID(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Tarefa não encontrada")
		return
	}
	b.state.Tasks = append(b.state.Tasks[:i], b.state.Tasks[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) eventIndex(id int64) int {
	for i, e := range b.state.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) createEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	_, a := b.currentUser(r)
	e := model.Event{
		ID:          b.newID(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		MyStatus:    model.RSVPPending,
	}
	if a != nil {
		e.CreatorName = a.Profile.FullName
	}
	b.state.Events = append(b.state.Events, e)
	writeJSON(w, http.StatusCreated, e)
}

func (b *Backend) updateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.eventIndex(pathID(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Evento não encontrado")
		return
	}
	e := &b.state.Events[i]
	e.Title, e.Description, e.Location, e.StartsAt = req.Title, req.Description, req.Location, req.StartsAt
	writeJSON(w, http.StatusOK, *e)
}

func (b *Backend) deleteEvent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.eventIndex(pathID(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Evento não encontrado")
		return
	}
	b.state.Events = append(b.state.Events[:i], b.state.Events[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) upcoming(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(b.state.Events))
}

// month filters on the yyyy-MM prefix of dataHora.
func (b *Backend) month(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var year, month int
	if _, err := fmt.Sscan(q.Get("ano"), &year); err != nil {
		writeError(w, http.StatusBadRequest, "Ano inválido")
		return
	}
	if _, err := fmt.Sscan(q.Get("mes"), &month); err != nil {
		writeError(w, http.StatusBadRequest, "Mês inválido")
		return
	}
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Event{}
	for _, e := range b.state.Events {
		if strings.HasPrefix(e.StartsAt, prefix) {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) rsvp(w http.ResponseWriter, r *http.Request) {
	status, ok := model.ParseRSVP(r.URL.Query().Get("status"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Status inválido")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.eventIndex(pathID(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Evento não encontrado")
		return
	}
	e := &b.state.Events[i]
	if e.MyStatus == model.RSVPConfirmed {
		e.ConfirmedCount--
	}
	if status == model.RSVPConfirmed {
		e.ConfirmedCount++
	}
	e.MyStatus = status
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) noticeIndex(id int64) int {
	for i, n := range b.state.Notices {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) listNotices(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(b.state.Notices))
}

func (b *Backend) createNotice(w http.ResponseWriter, r *http.Request) {
	var req model.NoticeRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id, a := b.currentUser(r)
	n := model.Notice{
		ID:          b.newID(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Urgency:     req.Urgency,
		Amount:      req.Amount,
		Active:      true,
		AuthorID:    id,
		CreatedAt:   "2026-01-01T12:00:00",
	}
	if a != nil {
		n.AuthorName = a.Profile.FullName
	}
	b.state.Notices = append(b.state.Notices, n)
	writeJSON(w, http.StatusCreated, n)
}

func (b *Backend) toggleNotice(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.noticeIndex(pathID(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Aviso não encontrado")
		return
	}
	b.state.Notices[i].Active = !b.state.Notices[i].Active
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) deleteNotice(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.noticeIndex(pathID(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Aviso não encontrado")
		return
	}
	b.state.Notices = append(b.state.Notices[:i], b.state.Notices[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
