package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dukerupert/repapp/internal/app"
	"github.com/dukerupert/repapp/internal/format"
	"github.com/dukerupert/repapp/internal/model"
	"github.com/dukerupert/repapp/internal/nav"
	"github.com/dukerupert/repapp/internal/screen"
	"github.com/dukerupert/repapp/internal/split"
)

type command func(ctx context.Context, a *app.App, args []string) error

var commands = map[string]command{
	"status":        status,
	"login":         login,
	"register":      register,
	"create-rep":    createRep,
	"logout":        logout,
	"open":          open,
	"join":          join,
	"home":          home,
	"finance":       finance,
	"expense":       expense,
	"tasks":         tasks,
	"task-add":      taskAdd,
	"task-done":     taskDone,
	"task-rm":       taskRemove,
	"agenda":        agenda,
	"event-add":     eventAdd,
	"event-rm":      eventRemove,
	"rsvp":          rsvp,
	"notices":       notices,
	"notice-add":    noticeAdd,
	"notice-toggle": noticeToggle,
	"notice-rm":     noticeRemove,
	"members":       members,
	"role":          role,
	"remove":        remove,
	"invite":        invite,
	"profile":       profile,
	"profile-set":   profileSet,
}

var errUsage = errors.New("wrong arguments, see repapp -h")

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func idArg(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[i])
	}
	return id, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func status(ctx context.Context, a *app.App, args []string) error {
	dest, err := a.Start()
	if err != nil {
		return err
	}
	fmt.Println(dest)
	return nil
}

func login(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	dest, err := a.Auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return arrive(ctx, a, dest)
}

func register(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var r screen.Registration
	fs.StringVar(&r.FullName, "name", "", "full name")
	fs.StringVar(&r.Email, "email", "", "email")
	fs.StringVar(&r.Password, "password", "", "password")
	fs.StringVar(&r.ConfirmPassword, "confirm", "", "password confirmation")
	fs.StringVar(&r.University, "university", "", "university")
	fs.StringVar(&r.Course, "course", "", "course")
	fs.StringVar(&r.Year, "year", "", "year of admission")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dest, err := a.Auth.Register(ctx, r)
	if err != nil {
		return err
	}
	return arrive(ctx, a, dest)
}

func createRep(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("create-rep", flag.ContinueOnError)
	var r screen.RepRegistration
	fs.StringVar(&r.Name, "name", "", "household name")
	fs.StringVar(&r.Street, "street", "", "street")
	fs.StringVar(&r.Number, "number", "", "number")
	fs.StringVar(&r.District, "district", "", "district")
	fs.StringVar(&r.PostalCode, "cep", "", "postal code")
	fs.StringVar(&r.Email, "email", "", "contact email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dest, err := a.Auth.CreateRep(ctx, r)
	if err != nil {
		return err
	}
	return arrive(ctx, a, dest)
}

func logout(ctx context.Context, a *app.App, args []string) error {
	return a.Settings.Logout()
}

func open(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	dest, msg, err := a.Follow(ctx, args[0])
	return show(ctx, dest, msg, err)
}

// arrive navigates to dest, so an invite left pending before sign-in is
// redeemed as soon as the session exists.
func arrive(ctx context.Context, a *app.App, dest nav.Destination) error {
	dest, msg, err := a.Navigate(ctx, dest)
	return show(ctx, dest, msg, err)
}

func show(ctx context.Context, dest nav.Destination, msg string, err error) error {
	if msg != "" {
		fmt.Println(msg)
	}
	if err != nil {
		return err
	}
	return wait(ctx, dest.Delay, func() { fmt.Printf("-> %s\n", dest) })
}

func join(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	res, err := a.Join.AcceptInvite(ctx, args[0])
	return show(ctx, res.Destination, res.Message, err)
}

// wait runs fn after d unless ctx ends first.
func wait(ctx context.Context, d time.Duration, fn func()) error {
	if d <= 0 {
		fn()
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		fn()
		return nil
	}
}

func home(ctx context.Context, a *app.App, args []string) error {
	if err := a.Dashboard.Activate(ctx); err != nil {
		return err
	}
	st := a.Dashboard.Stats()
	fmt.Printf("Saldo atual: %s\n", format.Money(st.CurrentBalance))
	fmt.Printf("Entradas do mês: %s  Saídas do mês: %s\n", format.Money(st.MonthIncome), format.Money(st.MonthSpending))
	fmt.Printf("Tarefas concluídas na semana: %d  Despesas no mês: %d\n\n", st.TasksDoneThisWeek, st.ExpensesCreatedMonth)

	w := table()
	for _, t := range a.Dashboard.Tasks() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Title, format.DisplayDate(t.DueAt), t.AssigneeName)
	}
	w.Flush()
	fmt.Println()
	for _, act := range a.Dashboard.Activities() {
		fmt.Printf("%s  %s (%s)\n", act.Title, act.Description, act.Elapsed)
	}
	return nil
}

func finance(ctx context.Context, a *app.App, args []string) error {
	if err := a.Finance.Activate(ctx); err != nil {
		return err
	}
	sum := a.Finance.Summary()
	fmt.Printf("Saldo da república: %s\n\n", format.Money(sum.HouseholdBalance))

	w := table()
	for _, b := range sum.Balances {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, format.Money(b.Amount), b.StatusText)
	}
	w.Flush()
	fmt.Println()

	w = table()
	for _, e := range sum.RecentExpenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", format.DisplayDate(e.Date), e.Description, format.Money(e.Total), e.PayerName)
	}
	return w.Flush()
}

func expense(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("expense", flag.ContinueOnError)
	var in screen.ExpenseInput
	var typ, mode, toggles string
	fs.StringVar(&in.Description, "desc", "", "description")
	fs.StringVar(&in.Amount, "amount", "", "total, comma or dot decimal")
	fs.StringVar(&in.Date, "date", "", "dd/MM/yyyy or yyyy-MM-dd")
	fs.StringVar(&in.Receipt, "receipt", "", "receipt URL or local file")
	fs.StringVar(&typ, "type", "GASTO", "GASTO or PAGAMENTO")
	fs.StringVar(&mode, "split", "todos", "todos or adm")
	fs.StringVar(&toggles, "toggle", "", "member ids to toggle after -split, comma separated")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.Type = model.ExpenseType(strings.ToUpper(typ))

	ids, err := parseIDs(toggles)
	if err != nil {
		return err
	}

	form := a.Expense
	if err := form.Activate(ctx); err != nil {
		return err
	}
	switch strings.ToLower(mode) {
	case "todos":
		form.Dispatch(split.Action{Kind: split.SelectAll})
	case "adm":
		form.Dispatch(split.Action{Kind: split.SelectAdminsMembers})
	default:
		return fmt.Errorf("unknown split %q", mode)
	}
	for _, id := range ids {
		form.Dispatch(split.Action{Kind: split.Toggle, MemberID: id})
	}

	sel := form.Selection()
	e, err := form.Submit(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("Despesa %d adicionada: %s (%s, %v)\n", e.ID, format.Money(e.Total), sel.Mode, sel.RequestIDs())
	return nil
}

func printTasks(list []model.Task) error {
	w := table()
	for _, t := range list {
		mark := " "
		if t.IsDone() {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s]\t%d\t%s\t%s\t%s\t%s\n", mark, t.ID, t.Title, format.DisplayDate(t.DueAt), t.Priority, t.AssigneeName)
	}
	return w.Flush()
}

func tasks(ctx context.Context, a *app.App, args []string) error {
	filter := screen.TasksAll
	if len(args) > 0 {
		filter = screen.TaskFilter(args[0])
	}
	if err := a.Tasks.Activate(ctx); err != nil {
		return err
	}
	return printTasks(a.Tasks.Tasks(filter))
}

func taskAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("task-add", flag.ContinueOnError)
	var in screen.TaskInput
	var assignee int64
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Description, "desc", "", "description")
	fs.StringVar(&in.Due, "due", "", "due date dd/mm/aaaa")
	fs.StringVar(&in.Priority, "priority", "", "BAIXA, MEDIA, ALTA or URGENTE")
	fs.StringVar(&in.Category, "category", "", "LIMPEZA, COMPRAS, MANUTENCAO or OUTROS")
	fs.Int64Var(&assignee, "assignee", 0, "responsible member id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if assignee != 0 {
		in.AssigneeID = &assignee
	}
	t, err := a.Tasks.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("Tarefa %d criada\n", t.ID)
	return nil
}

func taskDone(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	if err := a.Tasks.Activate(ctx); err != nil {
		return err
	}
	if err := a.Tasks.Complete(ctx, id); err != nil {
		return err
	}
	return printTasks(a.Tasks.Tasks(screen.TasksAll))
}

func taskRemove(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	return a.Tasks.Delete(ctx, id)
}

func agenda(ctx context.Context, a *app.App, args []string) error {
	if err := a.Calendar.Activate(ctx); err != nil {
		return err
	}
	if len(args) > 0 {
		delta, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid month offset %q", args[0])
		}
		if err := a.Calendar.ShiftMonth(ctx, delta); err != nil {
			return err
		}
	}

	month := a.Calendar.Month()
	fmt.Printf("%s\n", month.Format("01/2006"))
	perDay := a.Calendar.EventsPerDay()
	last := month.AddDate(0, 1, -1).Day()
	for d := 1; d <= last; d++ {
		if n := perDay[d]; n > 0 {
			fmt.Printf("  dia %02d: %d evento(s)\n", d, n)
		}
	}
	fmt.Println()

	w := table()
	for _, e := range a.Calendar.Upcoming() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d confirmados\n", e.ID, e.Title, e.StartsAt, e.Location, e.MyStatus, e.ConfirmedCount)
	}
	return w.Flush()
}

func eventAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("event-add", flag.ContinueOnError)
	var in screen.EventInput
	var id int64
	fs.Int64Var(&id, "id", 0, "event to update")
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Description, "desc", "", "description")
	fs.StringVar(&in.Location, "location", "", "location")
	fs.StringVar(&in.Date, "date", "", "dd/MM/yyyy")
	fs.StringVar(&in.Hour, "hour", "", "HH:mm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := a.Calendar.Save(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Printf("Evento %d salvo\n", e.ID)
	return nil
}

func eventRemove(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	return a.Calendar.Delete(ctx, id)
}

func rsvp(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errUsage
	}
	st, ok := model.ParseRSVP(args[1])
	if !ok {
		return fmt.Errorf("unknown status %q", args[1])
	}
	if err := a.Calendar.Activate(ctx); err != nil {
		return err
	}
	return a.Calendar.Respond(ctx, id, st)
}

func notices(ctx context.Context, a *app.App, args []string) error {
	filter := screen.NoticesAll
	if len(args) > 0 {
		filter = screen.NoticeFilter(args[0])
	}
	if err := a.Notices.Activate(ctx); err != nil {
		return err
	}
	now := time.Now()
	w := table()
	for _, n := range a.Notices.Notices(filter) {
		state := "ativo"
		if !n.Active {
			state = "arquivado"
		}
		amount := ""
		if n.Amount != nil {
			amount = format.Money(*n.Amount)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", n.ID, n.Title, n.Category, n.Urgency, amount, state, screen.Age(n, now))
	}
	return w.Flush()
}

func noticeAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("notice-add", flag.ContinueOnError)
	var in screen.NoticeInput
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Description, "desc", "", "description")
	fs.StringVar(&in.Category, "category", "", "GERAL, FINANCEIRO, LIMPEZA, EVENTO or MANUTENCAO")
	fs.StringVar(&in.Urgency, "urgency", "", "BAIXA, MEDIA or ALTA")
	fs.StringVar(&in.Amount, "amount", "", "optional value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := a.Notices.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Println(screen.ShareText(*n))
	return nil
}

func noticeToggle(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	return a.Notices.Toggle(ctx, id)
}

func noticeRemove(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	return a.Notices.Delete(ctx, id)
}

func members(ctx context.Context, a *app.App, args []string) error {
	if err := a.Members.Activate(ctx); err != nil {
		return err
	}
	w := table()
	for _, m := range a.Members.Members() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.UserID, m.Name, m.Role, m.Nickname)
	}
	return w.Flush()
}

func role(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errUsage
	}
	r, err := model.ParseRole(args[1])
	if err != nil {
		return err
	}
	msg, err := a.Members.ChangeRole(ctx, id, r)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func remove(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, 0)
	if err != nil {
		return err
	}
	return a.Members.RemoveMember(ctx, id)
}

func invite(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("invite", flag.ContinueOnError)
	var roleName, uses, hours string
	fs.StringVar(&roleName, "role", "MEMBRO", "ADM, MEMBRO, AGREGADO or EX_MORADOR")
	fs.StringVar(&uses, "uses", "1", "how many times the link can be used")
	fs.StringVar(&hours, "hours", "24", "hours until the link expires")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r, err := model.ParseRole(roleName)
	if err != nil {
		return err
	}
	inv, err := a.Members.GenerateInvite(ctx, r, uses, hours)
	if err != nil {
		return err
	}
	fmt.Println(screen.InviteShareMessage(inv.Link))
	if inv.ExpiresAt != "" {
		fmt.Printf("Expira em %s\n", format.DisplayDate(inv.ExpiresAt))
	}
	return nil
}

func profile(ctx context.Context, a *app.App, args []string) error {
	p, err := a.Settings.LoadProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", p.FullName, p.Email)
	if p.University != "" || p.Course != "" {
		fmt.Printf("%s, %s\n", p.Course, p.University)
	}
	if p.Year != nil {
		fmt.Printf("Ingresso: %d\n", *p.Year)
	}
	return nil
}

func profileSet(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("profile-set", flag.ContinueOnError)
	var in screen.ProfileInput
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.PhotoURL, "photo", "", "photo URL")
	fs.StringVar(&in.Course, "course", "", "course")
	fs.StringVar(&in.University, "university", "", "university")
	fs.StringVar(&in.Year, "year", "", "year of admission")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.Settings.Save(ctx, in); err != nil {
		return err
	}
	fmt.Println("Perfil atualizado.")
	return nil
}
