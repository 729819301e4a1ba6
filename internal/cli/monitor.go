package cli

import (
	"context"
	stderrors "errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensordash/internal/config"
	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/logger"
	"github.com/rileyhilliard/sensordash/internal/monitor"
	"github.com/rileyhilliard/sensordash/internal/poller"
	"github.com/rileyhilliard/sensordash/internal/sensor"
	"github.com/rileyhilliard/sensordash/internal/telemetry"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// monitorCommand runs the live dashboard, or plain line output when stdout
// isn't a terminal.
func monitorCommand(cmd *cobra.Command, flags *DashboardFlags) error {
	cfg, path, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	// The dashboard owns the terminal, so diagnostics go to a file or nowhere.
	var logPath string
	if interactive {
		path, closeLog, err := redirectLogs(cfg)
		if err != nil {
			return err
		}
		defer closeLog()
		logPath = path
	}

	log := logger.NewEnvLogger("[monitor]")
	if path != "" {
		log.Debug("using config %s", path)
	}

	ordering, err := poller.ParseOrdering(cfg.Ordering)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	var stream *telemetry.Stream
	if cfg.Metrics.Addr != "" {
		metricsLog := logger.NewEnvLogger("[metrics]")
		stream = telemetry.NewStream(metricsLog)
		defer stream.Close()

		srv, err := telemetry.Serve(cfg.Metrics.Addr, metrics, stream, metricsLog)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	p := poller.New(sensor.NewClient(cfg.Endpoint), poller.Options{
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
		Ordering: ordering,
		Logger:   logger.NewEnvLogger("[poller]"),
		Observer: metrics,
	})
	defer p.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := &liveSettings{current: config.ReloadableOf(cfg)}

	tapCtx, cancelTap := context.WithCancel(ctx)
	defer cancelTap()

	var source monitor.Source = p
	results := p.Start(ctx)
	if stream != nil {
		results = poller.Tap(tapCtx, results, func(r poller.Result) {
			stream.Publish(telemetry.NewUpdate(r, settings.get().Threshold))
		})
		source = tappedSource{Poller: p, results: results}
	}

	if path != "" {
		err := config.Watch(path, func(next *config.Config) {
			if keys := restartKeys(cmd, cfg, next); len(keys) > 0 {
				log.Warn("config changed (%s), restart sensordash to apply", strings.Join(keys, ", "))
			}
			settings.update(cmd, next)
			if prog := settings.program(); prog != nil {
				prog.Send(settings.message())
			}
		}, func(err error) {
			log.Warn("ignoring config change: %v", err)
		})
		if err != nil {
			log.Warn("live reload disabled: %v", err)
		}
	}

	if !interactive {
		log.Debug("stdout is not a terminal, using plain output")
		return monitor.RunPlain(ctx, results, cmd.OutOrStdout(), monitor.PlainOptions{
			Threshold: cfg.Threshold,
			PageSize:  cfg.PageSize,
			Settings:  settings.message,
		})
	}

	model := monitor.NewModel(monitor.Options{
		Source:    source,
		Endpoint:  cfg.Endpoint,
		Interval:  cfg.Interval,
		Threshold: cfg.Threshold,
		PageSize:  cfg.PageSize,
		ClampPage: cfg.ClampPage,
		LogPath:   logPath,
		Logger:    log,
	})

	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	settings.setProgram(prog)
	if _, err := prog.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrRender,
			"The dashboard stopped unexpectedly",
			"Try 'sensordash snapshot' or pipe the output to get plain text")
	}
	return nil
}

// tappedSource is a poller whose results pass through a tap first.
type tappedSource struct {
	*poller.Poller
	results <-chan poller.Result
}

func (s tappedSource) Results() <-chan poller.Result {
	return s.results
}

// liveSettings holds the reloadable settings shared by the config watcher,
// the stream tap and the dashboard program.
type liveSettings struct {
	mu      sync.Mutex
	current config.Reloadable
	prog    *tea.Program
}

func (l *liveSettings) setProgram(p *tea.Program) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prog = p
}

func (l *liveSettings) program() *tea.Program {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prog
}

func (l *liveSettings) get() config.Reloadable {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// message returns the current settings as a dashboard message.
func (l *liveSettings) message() monitor.SettingsMsg {
	r := l.get()
	return monitor.SettingsMsg{
		Threshold: r.Threshold,
		PageSize:  r.PageSize,
		ClampPage: r.ClampPage,
	}
}

// update adopts next's reloadable settings, except where a command-line
// flag pinned the value for this run.
func (l *liveSettings) update(cmd *cobra.Command, next *config.Config) config.Reloadable {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := config.ReloadableOf(next)
	if cmd.Flags().Changed("threshold") {
		r.Threshold = l.current.Threshold
	}
	if cmd.Flags().Changed("page-size") {
		r.PageSize = l.current.PageSize
	}
	l.current = r
	return r
}

// restartFlags maps restart-only config keys to the flags that pin them.
var restartFlags = map[string]string{
	"endpoint":     "endpoint",
	"interval":     "interval",
	"timeout":      "timeout",
	"ordering":     "ordering",
	"metrics.addr": "metrics-addr",
}

// restartKeys lists restart-only keys that changed on disk, leaving out any
// a flag set for this run since the file value wouldn't apply anyway.
func restartKeys(cmd *cobra.Command, running, next *config.Config) []string {
	var keys []string
	for _, key := range config.RestartRequired(running, next) {
		if flag, ok := restartFlags[key]; ok && cmd.Flags().Changed(flag) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// redirectLogs sends the standard logger to cfg's log file, or to
// config.DefaultLogFile when none is set, and returns the path in use.
func redirectLogs(cfg *config.Config) (string, func(), error) {
	path := cfg.LogFilePath()
	if path == "" {
		path = config.DefaultLogFile()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't create log directory "+filepath.Dir(path),
				"Set log_file or --log-file to a writable path")
		}
	}

	f, err := tea.LogToFile(path, "sensordash")
	if err != nil {
		return "", nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+path,
			"Check the log_file setting or --log-file path")
	}
	return path, func() {
		_ = f.Close()
		log.SetOutput(os.Stderr)
		log.SetPrefix("")
	}, nil
}
