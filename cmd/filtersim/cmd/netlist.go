package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/filterkit/filter"
)

var netlistCmd = &cobra.Command{
	Use:   "netlist",
	Short: "Print the SPICE deck of a filter.",
	Long: "`netlist` prints the testbench the spice model would hand to the " +
		"simulator, without running it.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		model, err := globals.model("spice")
		if err != nil {
			return err
		}

		f := globals.builder(model).Build("Filter")

		deck, err := model.(filter.SpiceModel).Configure(f).Deck()
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), deck)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(netlistCmd)
}
