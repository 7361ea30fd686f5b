package cmd

import (
	"fmt"
	"strings"

	"airlockmc"
	"airlockmc/checking"
	"airlockmc/properties"

	"github.com/spf13/cobra"
)

var (
	propertyNames []string
	withoutRules  []string
	maxStates     int
	maxDepth      int
	workers       int
	outputFormat  string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the properties of the airlock",
	Long: `Explore the reachable state space of the model and check the airlock properties.

Prints PASS, FAIL or INCONCLUSIVE for every property and a counterexample for every
violated property. The exit status is 0 if every property holds, 1 if a property is
violated, 2 if the model is malformed, 3 if the exploration stopped at a limit before
a verdict could be reached and 4 for usage and I/O errors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadModel()
		if err != nil {
			return err
		}
		for _, r := range withoutRules {
			table, rule, ok := strings.Cut(r, "/")
			if !ok {
				return fmt.Errorf("--without expects table/rule, got %q", r)
			}
			if m, err = m.Without(table, rule); err != nil {
				return err
			}
		}
		props, err := properties.Select(properties.Airlock(), propertyNames)
		if err != nil {
			return err
		}

		opts := []airlockmc.VerifyOption{
			airlockmc.MaxStates(intFlag(cmd, "max-states", maxStates, defaults.MaxStates)),
			airlockmc.MaxDepth(intFlag(cmd, "max-depth", maxDepth, defaults.MaxDepth)),
			airlockmc.NumConcurrent(intFlag(cmd, "workers", workers, defaults.Workers)),
			airlockmc.WithLogger(logger),
		}
		report, err := airlockmc.Verify(cmd.Context(), m, props, opts...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outputFormat {
		case "json":
			js, err := report.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(js))
		default:
			_, desc := report.Response()
			fmt.Fprint(out, desc)
		}
		if v := report.Verdict(); v != checking.Pass {
			return &exitError{code: verdictCode(v)}
		}
		return nil
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("unknown format %q, expected text or json", outputFormat)
		}
		return nil
	},
}

// The value of an int flag, or the default if the flag was not set
func intFlag(cmd *cobra.Command, name string, value, def int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return def
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringSliceVarP(&propertyNames, "property", "p", nil, "property to check, all properties if not set")
	verifyCmd.Flags().StringSliceVar(&withoutRules, "without", nil, "remove a rule from the model before checking, as table/rule")
	verifyCmd.Flags().IntVar(&maxStates, "max-states", 0, "maximum number of configurations explored, 0 for no limit")
	verifyCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum exploration depth, 0 for no limit")
	verifyCmd.Flags().IntVar(&workers, "workers", 0, "number of configurations expanded concurrently")
	verifyCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format, text or json")
}
