package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// modelCmd represents the model command
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Check a model file and print its rule tables",
	Long: `Load the model, check that every rule table covers every configuration and print
the initial configuration, the access mode graph and the rule tables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadModel()
		if err != nil {
			return err
		}
		if err := m.Describe(cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "model %v is well formed\n", m.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)
}
