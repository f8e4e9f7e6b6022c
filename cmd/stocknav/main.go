// Command stocknav serves and inspects the stock application's route table.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/stocknav/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir  string
	routesFile string
	history    string
	base       string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "stocknav",
		Short: "Route table and navigation server for the stock app",
		Long: `stocknav resolves browser locations against the stock application's
route table and serves the app shell, a resolve API and live navigation
sessions.

Routes:
  /                                 SearchForm
  /stock/:stockcode                 StockInfo
  /stock/:stockcode/currentStock    CurrentStock
  /stock/:stockcode/historyStock    HistoryStock
  /stock/:stockcode/predictStock    PredictStock

Configuration is read from stocknav.toml in --config-dir, then
STOCKNAV_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configDir, "config-dir", "c", ".", "Directory containing stocknav.toml")
	pf.StringVar(&g.routesFile, "routes", "", "YAML route declaration file replacing the built-in table")
	pf.StringVar(&g.history, "history", "", `History mode: "hash" or "path"`)
	pf.StringVar(&g.base, "base", "", "Base path the app is served under")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(g),
		resolveCmd(g),
		routesCmd(g),
		publishCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// reportError prints err for a terminal. Route table validation failures
// are listed one by one.
func reportError(w io.Writer, err error) {
	if problems := errors.FromValidation(err); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(w, p.Format())
		}
		fmt.Fprintf(w, "%d problem(s) in route table\n", len(problems))
		return
	}
	errors.PrintError(w, err)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
