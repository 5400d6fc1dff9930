// Package cli implements the canned-http command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BuildInfo carries build-time version metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var buildInfo = BuildInfo{Version: "dev", Commit: "none", BuildDate: "unknown"}

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cannedhttp",
	Short: "cannedhttp is a scriptable HTTP test double",
	Long: `cannedhttp serves canned HTTP responses while verifying, in real time, that a
client performs exactly the connections and requests a declarative script
prescribes. The moment the client diverges, serving stops with a protocol
violation.

Scripts are YAML or JSON arrays of connections, each an array of exchanges
(an expected request plus an optional canned response).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. It is called once from main.
func Execute(info BuildInfo) {
	buildInfo = info
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
