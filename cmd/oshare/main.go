package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nakamoto-negai/oshare-style-linkers/api"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/config"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/session"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/tokenstore"
	"github.com/nakamoto-negai/oshare-style-linkers/pkg/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired services every subcommand works against.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	session  *session.Manager
	gw       *gateway.Client
	accounts *api.Accounts
	question *api.Questions
	catalog  *api.Catalog
	commerce *api.Commerce

	stdin  io.Reader
	stdout io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "help" {
		printUsage(stdout)
		if len(args) == 0 {
			return fmt.Errorf("missing command")
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer zapLogger.Sync()

	store, err := tokenstore.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}
	defer store.Close()

	gw, err := gateway.New(cfg.API.BaseURL, store, gateway.Options{
		Timeout: cfg.API.Timeout,
		Logger:  zapLogger,
	})
	if err != nil {
		return fmt.Errorf("gateway error: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   zapLogger,
		session:  session.NewManager(gw, store, zapLogger),
		gw:       gw,
		accounts: api.NewAccounts(gw),
		question: api.NewQuestions(gw),
		catalog:  api.NewCatalog(gw),
		commerce: api.NewCommerce(gw),
		stdin:    stdin,
		stdout:   stdout,
	}

	ctx := context.Background()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		return a.login(ctx, rest, stderr)
	case "register":
		return a.register(ctx, rest, stderr)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "status":
		return a.status(ctx)
	case "profile":
		return a.profile(ctx, rest, stderr)
	case "points":
		return a.points(ctx)
	case "my-questions":
		return a.myQuestions(ctx)
	case "my-answers":
		return a.myAnswers(ctx)
	case "recommendations":
		return a.recommendations(ctx)
	case "preferences":
		return a.preferences(ctx, rest, stderr)
	case "stats":
		return a.qaStats(ctx)
	case "questions":
		return a.questions(ctx, rest, stderr)
	case "question":
		return a.questionDetail(ctx, rest, stderr)
	case "ask":
		return a.ask(ctx, rest, stderr)
	case "answers":
		return a.answers(ctx, rest, stderr)
	case "answer":
		return a.answer(ctx, rest, stderr)
	case "vote":
		return a.vote(ctx, rest, stderr)
	case "best":
		return a.best(ctx, rest, stderr)
	case "items":
		return a.items(ctx, rest, stderr)
	case "item":
		return a.item(ctx, rest, stderr)
	case "featured":
		return a.featured(ctx)
	case "brands":
		return a.brands(ctx)
	case "categories":
		return a.categories(ctx)
	case "styles":
		return a.styles(ctx)
	case "cart":
		return a.cart(ctx, rest, stderr)
	case "coupon":
		return a.coupon(ctx, rest, stderr)
	case "checkout":
		return a.checkout(ctx, rest, stderr)
	case "orders":
		return a.orders(ctx)
	case "order":
		return a.orderDetail(ctx, rest, stderr)
	case "cancel":
		return a.cancelOrder(ctx, rest, stderr)
	case "pay":
		return a.pay(ctx, rest, stderr)
	default:
		printUsage(stdout)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: oshare <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account:")
	fmt.Fprintln(w, "  login, register, logout, whoami, profile, points, my-questions, my-answers,")
	fmt.Fprintln(w, "  recommendations, preferences")
	fmt.Fprintln(w, "Q&A:")
	fmt.Fprintln(w, "  questions, question, ask, answers, answer, vote, best, stats")
	fmt.Fprintln(w, "Catalog:")
	fmt.Fprintln(w, "  items, item, featured, brands, categories, styles")
	fmt.Fprintln(w, "Shopping:")
	fmt.Fprintln(w, "  cart, coupon, checkout, orders, order, cancel, pay")
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  status, help")
}

// readPassword reads without echo on a terminal, or a plain line otherwise
// (pipes, tests).
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
