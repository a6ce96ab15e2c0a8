// Command adminctl is a terminal front end for the RAG admin API.
//
// Configuration comes from the environment (see internal/config) and can
// be overridden with global flags placed before the command name:
//
//	adminctl -url http://localhost:8013 login -u admin -p secret1
//	adminctl stats -range month
//	adminctl feedback list -sentiment bad
//	adminctl watch -range week -interval 30s
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/eshaffer321/ragadmin-go/internal/config"
	"github.com/eshaffer321/ragadmin-go/internal/logging"
	"github.com/eshaffer321/ragadmin-go/pkg/admin"
)

// app is the state shared by every command
type app struct {
	cfg    *config.Config
	client *admin.Client
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":     {"login -u USER [-p PASSWORD]      exchange credentials for a token", runLogin},
	"logout":    {"logout                          drop the stored token", runLogout},
	"whoami":    {"whoami                          show the signed-in profile", runWhoami},
	"check":     {"check                           report whether the backend answers", runCheck},
	"stats":     {"stats [-range R]                summary metrics", runStats},
	"activity":  {"activity [-range R] [-days N]   daily active users with gaps filled", runActivity},
	"chats":     {"chats list|show|delete|export   chat history", runChats},
	"feedback":  {"feedback list|show|priority|note|dashboard|export", runFeedback},
	"faq":       {"faq get|languages|add-category|delete-category|add-item|delete-item", runFAQ},
	"tokens":    {"tokens get|set N                 daily token limit", runTokens},
	"users":     {"users limited|block|unblock|usage", runUsers},
	"documents": {"documents list|upload|delete    indexed documents", runDocuments},
	"watch":     {"watch [-range R] [-interval D]  poll summary metrics with retries", runWatch},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "adminctl: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "admin API base URL")
	fs.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "where the bearer token is stored")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "adminctl: unknown command %q\n", name)
		fs.Usage()
		return 2
	}

	logger := logging.NewWithWriter(stderr, cfg.LogLevel, cfg.LogFormat)

	opts := cfg.ClientOptions(logger)
	opts.OnUnauthorized = func(ctx context.Context) {
		fmt.Fprintln(stderr, "Session expired. Run 'adminctl login' again.")
	}

	client, err := admin.NewClient(opts)
	if err != nil {
		fmt.Fprintf(stderr, "adminctl: %v\n", err)
		return 1
	}
	defer client.Close()

	a := &app{
		cfg:    cfg,
		client: client,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	if err := cmd.run(ctx, a, fs.Args()[1:]); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: adminctl [flags] command [args]")
	fmt.Fprintln(w, "\ncommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}

	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

// report prints err the way an operator should see it
func (a *app) report(err error) {
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	var verrs *admin.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs.Errors {
			fmt.Fprintf(a.stderr, "%s: %s\n", fe.Field, fe.Message)
		}
		return
	}

	var verr *admin.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(a.stderr, "%s: %s\n", verr.Field, verr.Message)
		return
	}

	if errors.Is(err, admin.ErrNotAuthenticated) {
		fmt.Fprintln(a.stderr, "Not logged in. Run 'adminctl login' first.")
		return
	}

	a.logger.Debug("Command failed", "error", err)
	fmt.Fprintln(a.stderr, admin.UserMessage(err))
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// subcommand splits "list -page 2" style arguments
func subcommand(args []string, names ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("expected one of: %s", strings.Join(names, ", "))
	}
	for _, n := range names {
		if args[0] == n {
			return n, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("unknown subcommand %q, expected one of: %s", args[0], strings.Join(names, ", "))
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// requireArgs checks positional arguments left after flag parsing
func requireArgs(fs *flag.FlagSet, n int, names string) error {
	if fs.NArg() < n {
		return fmt.Errorf("%s: missing %s", fs.Name(), names)
	}
	return nil
}
