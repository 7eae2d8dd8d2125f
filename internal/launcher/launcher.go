// Package launcher starts external programs on behalf of the console:
// shortcut commands and URL openers. Launches are fire-and-forget.
package launcher

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/marcin-skalski/statusdeck/internal/config"
)

type Launcher interface {
	Run(argv []string)
	OpenURL(url string)
}

// Exec launches processes with os/exec. RunPrefix is prepended to every
// shortcut command (e.g. sudo -u someone); OpenURL is the opener argv the
// URL is appended to.
type Exec struct {
	runPrefix []string
	openURL   []string
	logger    *slog.Logger
	start     func(argv []string) (wait func() error, err error)
}

func NewExec(cfg config.CommandsConfig, logger *slog.Logger) *Exec {
	opener := cfg.OpenURL
	if len(opener) == 0 {
		opener = []string{"xdg-open"}
	}
	return &Exec{
		runPrefix: append([]string(nil), cfg.RunPrefix...),
		openURL:   append([]string(nil), opener...),
		logger:    logger,
		start:     startProcess,
	}
}

func (e *Exec) Run(argv []string) {
	if len(argv) == 0 {
		e.logger.Warn("launch skipped: empty command")
		return
	}
	e.launch("run", concat(e.runPrefix, argv))
}

func (e *Exec) OpenURL(url string) {
	if strings.TrimSpace(url) == "" {
		e.logger.Warn("open url skipped: empty url")
		return
	}
	e.launch("open_url", concat(e.openURL, []string{url}))
}

func (e *Exec) launch(kind string, argv []string) {
	wait, err := e.start(argv)
	if err != nil {
		e.logger.Error("couldn't launch command", "kind", kind, "argv", argv, "err", err)
		return
	}
	e.logger.Info("launched", "kind", kind, "argv", argv)

	go func() {
		if err := wait(); err != nil {
			e.logger.Warn("launched command failed", "kind", kind, "cmd", argv[0], "err", err)
		}
	}()
}

func startProcess(argv []string) (func() error, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}
	return cmd.Wait, nil
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
