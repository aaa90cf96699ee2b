package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/barnwall/hbmon/internal/errors"
	"github.com/barnwall/hbmon/internal/receiver"
	"github.com/spf13/cobra"
)

// portFlag is the only flag; everything else comes from config or env.
var portFlag int

// rootCmd runs the monitor when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "hbmon",
	Short: "Watch heartbeats from the LED wall controllers",
	Long: `hbmon listens for the JSON heartbeats the LEFT and RIGHT wall controllers
broadcast over UDP and redraws a status table once per second.

Devices that have not reported yet show "--". Press q or Ctrl+C to quit.

Examples:
  hbmon
  hbmon --port 50000
  HBMON_CONFIG=./wall.yaml hbmon > status.log

Settings are read from $HBMON_CONFIG, ./hbmon.yaml or
~/.config/hbmon/config.yaml, then HBMON_* variables (HBMON_INTERVAL,
HBMON_STALE_AFTER, ...), then --port.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", receiver.DefaultPort, "UDP port to listen on")
}

// Execute runs the root command with SIGINT/SIGTERM wired to cancellation.
// Errors are printed to stderr and exit the process with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if isUnknownCommandError(err) {
			err = errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("hbmon doesn't understand %q", extractUnknownCommand(err)),
				"Run 'hbmon --help' to see the available commands and flags.")
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the quoted token out of a cobra error like
// `unknown command "foo" for "hbmon"`. Flag errors have no quotes and fall
// back to the text after the colon.
func extractUnknownCommand(err error) string {
	msg := err.Error()

	start := strings.Index(msg, `"`)
	if start != -1 {
		end := strings.Index(msg[start+1:], `"`)
		if end == -1 {
			return ""
		}
		return msg[start+1 : start+1+end]
	}

	if _, after, ok := strings.Cut(msg, ": "); ok {
		if fields := strings.Fields(after); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
