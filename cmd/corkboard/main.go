package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	corkclient "corkboard/internal/client"
	"corkboard/internal/config"
	"corkboard/internal/daemon"
	"corkboard/internal/logging"
	"corkboard/internal/store"
	"corkboard/internal/types"
	"corkboard/internal/ui"
)

const usageText = `corkboard is a shared sticky-note board.

Usage:
  corkboard <command> [flags]

Commands:
  daemon   run the board daemon
  ui       open the board in the terminal
  ls       list notes
  post     create a note
  rm       delete a note
  feed     show recent chat messages
  help     show help

Daemon flags:
  --background    run in background (logs to file)
  --force         stop any running daemon before starting
  --kill          stop any running daemon and exit

Examples:
  corkboard ui
  corkboard post --x 200 --y 150 "pick up milk"
  corkboard rm <id>
`

const version = "dev"

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "daemon":
		exitOnErr("daemon", runDaemonCommand(args[1:]))
	case "ui":
		exitOnErr("ui", runUI(args[1:]))
	case "ls":
		exitOnErr("ls", runLS(args[1:]))
	case "post":
		exitOnErr("post", runPost(args[1:]))
	case "rm":
		exitOnErr("rm", runRM(args[1:]))
	case "feed":
		exitOnErr("feed", runFeed(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func exitOnErr(command string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
	os.Exit(1)
}

func runDaemonCommand(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	background := fs.Bool("background", false, "run in background (logs to file)")
	kill := fs.Bool("kill", false, "stop any running daemon and exit")
	force := fs.Bool("force", false, "stop any running daemon before starting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *kill {
		return killDaemon()
	}
	if *force {
		if err := killDaemon(); err != nil {
			return err
		}
	}
	return runDaemon(*background)
}

func runDaemon(background bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	logWriter := os.Stderr
	if background {
		logPath, err := config.DaemonLogPath()
		if err != nil {
			return err
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		defer file.Close()
		logWriter = file
	}
	logger := logging.New(logWriter, logging.ParseLevel(cfg.LogLevel()))

	tokenPath, err := config.TokenPath()
	if err != nil {
		return err
	}
	token, err := daemon.LoadOrCreateToken(tokenPath)
	if err != nil {
		return err
	}

	dbPath, err := config.DatabasePath()
	if err != nil {
		return err
	}
	repo, err := store.NewRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	stores := &daemon.Stores{
		Notes:    repo.Notes(),
		Messages: repo.Messages(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := daemon.New(cfg.DaemonAddress(), token, version, stores, cfg.Webhook, logger)
	return d.Run(ctx)
}

func killDaemon() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := corkclient.New()
	if err != nil {
		return err
	}
	if err := client.ShutdownDaemon(ctx); err != nil {
		var apiErr *corkclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil
		}
		if isDaemonUnavailable(err) {
			return nil
		}
		return client.KillDaemon(ctx, true)
	}
	return nil
}

func isDaemonUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "connection refused")
}

func runUI(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, err := corkclient.New()
	if err != nil {
		return err
	}
	if err := client.EnsureDaemon(context.Background()); err != nil {
		return err
	}
	return ui.Run(client, cfg.Canvas)
}

func runLS(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := corkclient.New()
	if err != nil {
		return err
	}
	if err := client.EnsureDaemon(ctx); err != nil {
		return err
	}
	notes, err := client.ListNotes(ctx)
	if err != nil {
		return err
	}
	printNotes(notes)
	return nil
}

func runPost(args []string) error {
	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	x := fs.Float64("x", -1, "x position (random when unset)")
	y := fs.Float64("y", -1, "y position (random when unset)")
	size := fs.Float64("size", 0, "font size (0 for default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return errors.New("note text is required")
	}
	if *x < 0 {
		*x = float64(rand.IntN(500) + 100)
	}
	if *y < 0 {
		*y = float64(rand.IntN(500) + 100)
	}

	ctx := context.Background()
	client, err := corkclient.New()
	if err != nil {
		return err
	}
	if err := client.EnsureDaemon(ctx); err != nil {
		return err
	}
	note, err := client.CreateNote(ctx, &types.Note{
		Text:     text,
		X:        *x,
		Y:        *y,
		FontSize: *size,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, note.ID)
	return nil
}

func runRM(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("note id is required")
	}

	ctx := context.Background()
	client, err := corkclient.New()
	if err != nil {
		return err
	}
	if err := client.EnsureDaemon(ctx); err != nil {
		return err
	}
	for _, id := range fs.Args() {
		if err := client.DeleteNote(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func runFeed(args []string) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := corkclient.New()
	if err != nil {
		return err
	}
	if err := client.EnsureDaemon(ctx); err != nil {
		return err
	}
	messages, err := client.Messages(ctx)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		ts := time.UnixMilli(msg.CreatedAt).Local().Format("15:04")
		fmt.Fprintf(os.Stdout, "%s  %-12s %s\n", ts, msg.UserID, msg.Text)
	}
	return nil
}

func printNotes(notes []*types.Note) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tX\tY\tSIZE\tTEXT")
	for _, note := range notes {
		text := strings.ReplaceAll(note.Text, "\n", " ")
		if len(text) > 60 {
			text = text[:60] + "…"
		}
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%s\n", note.ID, note.X, note.Y, note.EffectiveFontSize(), text)
	}
	_ = w.Flush()
}
