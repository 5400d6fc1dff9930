package cli

import (
	"time"

	"github.com/mgp/canned-http/pkg/director"
	"github.com/mgp/canned-http/pkg/engine"
	"github.com/mgp/canned-http/pkg/logging"
	"github.com/spf13/cobra"
)

// serveFlags holds the flag values for the serve command.
type serveFlags struct {
	port        int
	yamlFile    string
	jsonFile    string
	readTimeout time.Duration
	logLevel    string
	logFormat   string
}

var serveFlagVals serveFlags

// serveCmd starts the server and runs it until the script is exhausted or
// the client violates it.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a script until it completes or the client violates it",
	Example: `  # Serve a YAML script on the default port
  cannedhttp serve --yaml session.yaml

  # Serve a JSON script on port 3000
  cannedhttp serve --json session.json --port 3000

  # Verbose serving logs
  cannedhttp serve --yaml session.yaml --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(&serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().IntVarP(&f.port, "port", "p", 8080, "Port the server listens on")
	serveCmd.Flags().StringVar(&f.yamlFile, "yaml", "", "YAML script file with expected requests and canned replies")
	serveCmd.Flags().StringVar(&f.jsonFile, "json", "", "JSON script file with expected requests and canned replies")
	serveCmd.Flags().DurationVar(&f.readTimeout, "read-timeout", 0, "Per-request read timeout (0 = none)")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
	serveCmd.MarkFlagsMutuallyExclusive("yaml", "json")
	serveCmd.MarkFlagsOneRequired("yaml", "json")
}

func runServe(f *serveFlags) error {
	s, err := loadScript(f.yamlFile, f.jsonFile)
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
	})

	srv := engine.New(director.New(s), engine.Config{
		Port:        f.port,
		ReadTimeout: f.readTimeout,
		Logger:      log,
	})
	return srv.ListenAndServe()
}
