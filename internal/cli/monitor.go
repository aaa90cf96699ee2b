package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/barnwall/hbmon/internal/config"
	"github.com/barnwall/hbmon/internal/errors"
	"github.com/barnwall/hbmon/internal/logger"
	"github.com/barnwall/hbmon/internal/monitor"
	"github.com/barnwall/hbmon/internal/receiver"
	"github.com/barnwall/hbmon/internal/telemetry"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// monitorCommand binds the heartbeat port and runs the dashboard until the
// command context is cancelled.
func monitorCommand(cmd *cobra.Command) error {
	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	interactive := isTerminal(os.Stdout) && isTerminal(os.Stdin)

	log, closeLog, err := openLogger(cfg.Log, interactive, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	if cfgPath != "" {
		log.Debug("loaded config from %s", cfgPath)
	}

	rcv, err := receiver.Listen(receiver.Options{Port: cfg.Port, BufferSize: cfg.BufferSize})
	if err != nil {
		log.Debug("bind failed on port %d", cfg.Port)
		return err
	}
	defer rcv.Close()
	log.Info("listening on udp %s", rcv.LocalAddr())

	store := telemetry.NewStore()
	opts := monitor.Options{
		Interval:    cfg.Interval,
		MaxDrain:    cfg.MaxDrain,
		StaleAfter:  cfg.StaleAfter,
		Port:        cfg.Port,
		Interactive: interactive,
	}

	ctx := cmd.Context()
	if interactive {
		return monitor.RunInteractive(ctx, func(screen monitor.Screen) *monitor.Loop {
			return monitor.NewLoop(rcv, store, screen, opts, log)
		})
	}

	loop := monitor.NewLoop(rcv, store, monitor.NewANSIScreen(cmd.OutOrStdout()), opts, log)
	return loop.Run(ctx)
}

// loadConfig resolves the effective config, letting an explicit --port win.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	return config.Resolve("", config.WithFlag("port", cmd.Flags().Lookup("port")))
}

// openLogger picks the log destination. A log file always wins; otherwise
// logs go to stderr, except on a TTY where they would tear the dashboard.
func openLogger(cfg config.LogConfig, interactive bool, stderr io.Writer) (logger.Logger, func() error, error) {
	out := stderr
	closer := func() error { return nil }

	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Can't open log file %s", cfg.File),
				"Check the directory exists and is writable, or unset log.file.")
		}
		out = f
		closer = f.Close
	case interactive:
		out = io.Discard
	}

	log, err := logger.New(logger.Config{Level: cfg.Level, Output: out}, "monitor")
	if err != nil {
		closer()
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid log level '%s'", cfg.Level),
			"Use one of: debug, info, warn, error.")
	}
	return log, closer, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
