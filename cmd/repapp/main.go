package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukerupert/repapp/internal/app"
	"github.com/dukerupert/repapp/internal/config"
	"github.com/dukerupert/repapp/internal/logging"
	"github.com/dukerupert/repapp/internal/screen"
)

const usage = `usage: repapp [flags] <command> [args]

commands:
  status                          show where the app opens
  login <email> <password>        sign in
  register                        create an account (see -h on the command)
  create-rep                      create a household
  logout                          sign out
  open <link>                     follow a repapp:// or web link
  join <token>                    accept an invite
  home                            dashboard
  finance                         balances and recent expenses
  expense                         add an expense
  tasks [filter]                  list tasks (Todas, Pendentes, Concluídas, Minhas)
  task-add | task-done <id> | task-rm <id>
  agenda [+N|-N]                  upcoming and month events
  event-add [-id N] | event-rm <id> | rsvp <id> <status>
  notices [filter]                list notices
  notice-add | notice-toggle <id> | notice-rm <id>
  members | role <id> <role> | remove <id> | invite
  profile | profile-set

flags:
`

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "backend base URL")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "session database path")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.Setup(cfg.LogLevel)

	a, err := app.New(cfg, logger)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, a, flag.Args())
	stop()

	if err := a.Close(); err != nil {
		slog.Error("shutdown", "error", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, a *app.App, args []string) int {
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		flag.Usage()
		return 2
	}

	err := cmd(ctx, a, args[1:])
	if err == nil {
		return 0
	}
	if dest, ok := a.Redirect(err); ok {
		fmt.Printf("-> %s\n", dest)
		return 1
	}

	var ve *screen.ValidationError
	var f *screen.Failure
	switch {
	case errors.As(err, &ve):
		fmt.Fprintln(os.Stderr, ve.Message)
	case errors.As(err, &f):
		slog.Debug("request failed", "error", f.Err)
		fmt.Fprintln(os.Stderr, f.Message)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return 1
}
