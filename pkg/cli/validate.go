package cli

import (
	"errors"
	"fmt"

	"github.com/mgp/canned-http/pkg/director"
	"github.com/mgp/canned-http/pkg/script"
	"github.com/spf13/cobra"
)

// validateFlags holds the flag values for the validate command.
type validateFlags struct {
	yamlFile string
	jsonFile string
}

var validateFlagVals validateFlags

// validateCmd builds a script without serving it, so script files can be
// checked before a test run.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a script file without starting the server",
	Example: `  # Validate a YAML script
  cannedhttp validate --yaml session.yaml

  # Validate a JSON script
  cannedhttp validate --json session.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScript(validateFlagVals.yamlFile, validateFlagVals.jsonFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Script is valid: %d connection(s), %d exchange(s), %d event(s)\n",
			len(s.Connections), s.NumExchanges(), len(director.Linearize(s)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	f := &validateFlagVals
	validateCmd.Flags().StringVar(&f.yamlFile, "yaml", "", "YAML script file to validate")
	validateCmd.Flags().StringVar(&f.jsonFile, "json", "", "JSON script file to validate")
	validateCmd.MarkFlagsMutuallyExclusive("yaml", "json")
	validateCmd.MarkFlagsOneRequired("yaml", "json")
}

// loadScript loads a script from whichever of the two file flags is set.
func loadScript(yamlFile, jsonFile string) (*script.Script, error) {
	switch {
	case yamlFile != "":
		return script.LoadYAMLFile(yamlFile)
	case jsonFile != "":
		return script.LoadJSONFile(jsonFile)
	default:
		return nil, errors.New("either --yaml or --json must be specified")
	}
}
