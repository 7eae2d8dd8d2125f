package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/marcin-skalski/statusdeck/internal/calendar"
	"github.com/marcin-skalski/statusdeck/internal/config"
	"github.com/marcin-skalski/statusdeck/internal/daemon"
	"github.com/marcin-skalski/statusdeck/internal/github"
	"github.com/marcin-skalski/statusdeck/internal/input"
	"github.com/marcin-skalski/statusdeck/internal/launcher"
	"github.com/marcin-skalski/statusdeck/internal/logging"
	"github.com/marcin-skalski/statusdeck/internal/tui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (.yaml or .toml)")
	noTUI := flag.Bool("no-tui", false, "disable TUI mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Auto-detect TUI capability
	enableTUI := !*noTUI && os.Getenv("STATUSDECK_TUI") != "0" &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	logger, err := logging.Setup(logging.Options{File: cfg.LogFile, Level: cfg.Log.Level, Console: enableTUI})
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseFile()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := daemon.Deps{
		ConfigPath: *configPath,
		Launcher:   launcher.NewExec(cfg.Commands, logger.With("component", "launcher")),
	}

	if cfg.GitHub.Enabled {
		gh, err := github.NewClient(cfg.GitHub.Token, cfg.GitHub.User, cfg.GitHub.APIURL, logger)
		if err != nil {
			fatal(logger, "github client", err)
		}
		deps.GitHub = gh
	}

	if cfg.Calendar.Enabled {
		src, err := calendar.NewGoogleSourceFromFile(ctx, cfg.Calendar.CalendarID, cfg.Calendar.CredentialsFile)
		if err != nil {
			fatal(logger, "calendar source", err)
		}
		deps.Calendar = src
	}

	if cfg.Input.Enabled {
		dev, err := input.OpenDevice(cfg.Input.Device, cfg.Input.Grab)
		if err != nil {
			fatal(logger, "input device", err)
		}
		defer dev.Close()
		deps.Device = dev
	}

	d, err := daemon.New(cfg, deps, logger)
	if err != nil {
		fatal(logger, "daemon", err)
	}

	if enableTUI {
		// TUI mode: run daemon in background, TUI in foreground
		done := make(chan struct{})
		go func() {
			defer close(done)
			logger.Info("statusdeck daemon starting in background", "config", *configPath)
			if err := d.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("daemon error", "err", err)
			}
		}()

		m := tui.NewModel(d, d, cfg.Refresh.Interval.Duration)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		d.OnChange(func() { p.Send(tui.RefreshMsg{}) })

		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			stop()
			<-done
			os.Exit(1)
		}
		stop()
		<-done
		return
	}

	// Headless mode
	logger.Info("statusdeck starting (headless)", "config", *configPath)
	if err := d.Run(ctx); err != nil {
		logger.Error("daemon error", "err", err)
		os.Exit(1)
	}
}

func fatal(logger *slog.Logger, what string, err error) {
	logger.Error("startup failed", "component", what, "err", err)
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", what, err)
	os.Exit(1)
}
