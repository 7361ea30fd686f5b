package cmd

import (
	"fmt"
	"io"
	"os"

	"airlockmc"
	"airlockmc/graphviz"
	"airlockmc/properties"
	"airlockmc/state"

	"github.com/spf13/cobra"
)

var (
	graphOutput string
	graphFormat string
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the reachable state space",
	Long: `Render the reachable state space of the model with graphviz.
Configurations violating a state invariant are highlighted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := graphviz.ParseFormat(graphFormat)
		if err != nil {
			return err
		}
		m, err := loadModel()
		if err != nil {
			return err
		}
		props := properties.Airlock()
		props.Liveness = nil
		report, err := airlockmc.Verify(cmd.Context(), m, props,
			airlockmc.MaxStates(defaults.MaxStates),
			airlockmc.MaxDepth(defaults.MaxDepth),
			airlockmc.NumConcurrent(defaults.Workers),
			airlockmc.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		highlight := func(cfg state.Configuration) bool {
			for _, inv := range props.Invariants {
				if !inv.Holds(cfg) {
					return true
				}
			}
			return false
		}

		var out io.Writer = cmd.OutOrStdout()
		if graphOutput != "" && graphOutput != "-" {
			df, err := os.Create(graphOutput)
			if err != nil {
				return err
			}
			defer func() {
				_ = df.Close()
			}()
			out = df
		}
		w := graphviz.New(&graphviz.Config{
			Name:    m.Name,
			Font:    graphviz.Helvetica,
			RankDir: graphviz.LeftToRight,
			Format:  format,
		})
		if err := w.Flush(out, report.Space(), highlight); err != nil {
			return err
		}
		if out != cmd.OutOrStdout() {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %v configurations to %v\n", report.Summary.States, graphOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "output file, stdout if empty")
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "dot", "output format, dot, svg or png")
}
