// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// rigrun-mentions - a terminal composer for messages with @mentions.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jeranaias/rigrun-mentions/internal/cli"
	"github.com/jeranaias/rigrun-mentions/internal/config"
	"github.com/jeranaias/rigrun-mentions/internal/logging"
	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/storage"
	"github.com/jeranaias/rigrun-mentions/internal/ui/composer"
	"github.com/jeranaias/rigrun-mentions/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one invocation and returns the exit code.
func run(argv []string) int {
	args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, "rigrun-mentions", err, false)
		return cli.GetExitCode(err)
	}
	lipgloss.SetColorProfile(cli.ColorProfile(os.Stdout))

	switch args.Command {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		return exitCode(args, cli.PrintVersion(os.Stdout, args.JSON))
	case cli.CmdConfig:
		if args.Parser.Positional(1) == "init" {
			return exitCode(args, cli.HandleConfig(nil, args, os.Stdout))
		}
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return exitCode(args, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args.Command {
	case cli.CmdParse:
		err = cli.HandleParse(args, os.Stdin, os.Stdout)
	case cli.CmdConfig:
		err = cli.HandleConfig(cfg, args, os.Stdout)
	case cli.CmdDrafts:
		err = withStore(cfg, func(store *storage.DraftStore) error {
			return cli.HandleDrafts(ctx, store, args, os.Stdout)
		})
	default:
		err = runCompose(ctx, cfg, args)
	}
	return exitCode(args, err)
}

func exitCode(args cli.Args, err error) int {
	if err != nil {
		cli.DisplayError(os.Stderr, args.Command.String(), err, args.JSON)
	}
	return cli.GetExitCode(err)
}

// loadConfig loads --config or the default locations and applies the
// global flag overrides.
func loadConfig(args cli.Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if !errors.Is(err, config.ErrInvalidConfig) {
			err = fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		return nil, err
	}

	if args.DBPath != "" {
		cfg.Storage.DBPath = args.DBPath
	}
	if args.LogLevel != "" {
		if _, err := logging.ParseLevel(args.LogLevel); err != nil {
			return nil, &cli.ValidationError{Field: "log level", Value: args.LogLevel, Reason: err.Error()}
		}
		cfg.Logging.Level = args.LogLevel
	}
	return cfg, nil
}

// newLogger creates the composer's logger. The terminal belongs to the UI,
// so logs go to --log-file or to composer.log in the config directory.
func newLogger(cfg *config.Config, args cli.Args) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	path := args.LogFile
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return logging.NewNop(), func() {}, nil
		}
		path = filepath.Join(dir, "composer.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, cli.NewCommandError("log", "open", "could not create log directory", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, cli.NewCommandError("log", "open", "could not open log file", err)
	}
	return logging.NewWithWriter(f, level), func() { f.Close() }, nil
}

func openStore(cfg *config.Config) (*storage.DraftStore, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, cli.NewCommandError("storage", "open", "no database path", err)
	}
	store, err := storage.Open(path)
	if err != nil {
		return nil, cli.NewCommandError("storage", "open", path, err)
	}
	return store, nil
}

func withStore(cfg *config.Config, fn func(*storage.DraftStore) error) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// =============================================================================
// COMPOSER
// =============================================================================

// runCompose starts the terminal composer. Without a terminal it prints the
// requested draft's snapshot instead.
func runCompose(ctx context.Context, cfg *config.Config, args cli.Args) error {
	triggers, err := cfg.Mentions()
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	log, closeLog, err := newLogger(cfg, args)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore(cfg)
	if err != nil {
		if args.DraftID != "" {
			return err
		}
		log.Warn("drafts disabled", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	var draft *storage.Draft
	if args.DraftID != "" {
		id, err := cli.ResolveDraftID(ctx, store, args.DraftID)
		if err != nil {
			return err
		}
		if draft, err = store.Load(ctx, id); err != nil {
			return err
		}
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		if draft != nil {
			return cli.NewJSONResponse("compose", draft.Snapshot()).Write(os.Stdout)
		}
		return cli.NewCommandError("compose", "start", "the composer needs a terminal", nil)
	}

	watcher := startWatcher(ctx, cfg, log)
	if watcher != nil {
		defer watcher.Close()
	}

	m := composer.New(composer.Options{
		Config:   cfg,
		Triggers: triggers,
		Store:    store,
		Watcher:  watcher,
		Draft:    draft,
		Theme:    styles.NewTheme(),
		Logger:   log,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Hover highlights suggestions
	)
	final, err := p.Run()
	if err != nil {
		return cli.NewCommandError("compose", "run", "terminal program failed", err)
	}

	fm, ok := final.(composer.Model)
	if !ok {
		return nil
	}
	if err := autosave(ctx, store, fm, os.Stderr); err != nil {
		log.Error("autosave failed", "error", err)
	}
	if args.JSON {
		return writeSent(os.Stdout, fm.Sent())
	}
	return nil
}

// startWatcher watches trigger data files. It returns nil when there is
// nothing to watch or watching is unavailable.
func startWatcher(ctx context.Context, cfg *config.Config, log *slog.Logger) *config.DataWatcher {
	w, err := config.NewDataWatcher(cfg, config.DefaultDebounce, log)
	if err != nil {
		log.Warn("data reload disabled", "error", err)
		return nil
	}
	if len(w.Files()) == 0 {
		w.Close()
		return nil
	}
	if err := w.Watch(ctx); err != nil {
		log.Warn("data reload disabled", "error", err)
		w.Close()
		return nil
	}
	log.Debug("watching trigger data", "files", w.Files())
	return w
}

// autosave keeps unsaved edits when the composer exits. It still runs when
// ctx was cancelled by the signal that ended the composer.
func autosave(ctx context.Context, store *storage.DraftStore, m composer.Model, out io.Writer) error {
	snap := m.Snapshot()
	if store == nil || !m.Dirty() || snap.IsEmpty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	id, err := store.SaveSnapshot(ctx, m.DraftID(), snap)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Draft saved: "+id)
	return nil
}

type sentMessage struct {
	mention.Snapshot
	SentAt time.Time `json:"sent_at"`
}

func writeSent(w io.Writer, entries []composer.Entry) error {
	out := make([]sentMessage, 0, len(entries))
	for _, e := range entries {
		out = append(out, sentMessage{Snapshot: e.Snapshot, SentAt: e.SentAt})
	}
	return cli.NewJSONResponse("compose", out).Write(w)
}
