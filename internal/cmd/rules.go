package cmd

import (
	"github.com/spf13/cobra"

	"github.com/petrarca/dependency-detector/internal/detectable"
	"github.com/petrarca/dependency-detector/internal/executable"
	"github.com/petrarca/dependency-detector/internal/provider"
)

func init() {
	rootCmd.AddCommand(newRulesCmd())
}

func newRulesCmd() *cobra.Command {
	var format, outputFile string
	var types []string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the detector rules with their nesting and fallbacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveFormat(format, outputFile)
			if err != nil {
				return err
			}

			factory := detectable.NewFactory(provider.NewFSProvider("."), executable.NewProcessRunner(nil), executable.NewPathResolver(nil), nil)
			rules, err := detectable.Filter(factory.RuleSet(), types)
			if err != nil {
				return err
			}
			return OutputToFile(NewRulesOutput(rules), resolved, true, outputFile, cmd.OutOrStdout())
		},
	}

	setupOutputFlags(cmd, &format, &outputFile)
	cmd.Flags().StringSliceVar(&types, "detectors", nil, "Only list these detector types")
	return cmd
}
