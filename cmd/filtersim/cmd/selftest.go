package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarchlab/filterkit/filter"
	"github.com/sarchlab/filterkit/plotting"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run one filter per model and plot the responses.",
	Long: "`selftest --models software,behavioral,spice` builds one filter " +
		"per model, runs it and plots filter_<model>.<format> for every " +
		"model that produces a waveform.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		models, _ := cmd.Flags().GetStringSlice("models")
		plotDir, _ := cmd.Flags().GetString("plot-dir")
		format, _ := cmd.Flags().GetString("format")
		samples, _ := cmd.Flags().GetInt("samples")

		return selftest(cmd, models, plotDir, format, samples)
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
	selftestCmd.Flags().StringSlice("models", filter.ModelNames(),
		"models to run")
	selftestCmd.Flags().String("plot-dir", ".", "directory of the plots")
	selftestCmd.Flags().String("format", "png",
		"image format of the plots (png, svg, pdf, eps)")
	selftestCmd.Flags().Int("samples", 64,
		"length of the step applied to the input port")
}

func selftest(
	cmd *cobra.Command,
	models []string,
	plotDir, format string,
	samples int,
) error {
	if err := os.MkdirAll(plotDir, 0o755); err != nil {
		return err
	}

	var failed []error

	for _, name := range models {
		model, err := globals.model(name)
		if err != nil {
			return err
		}

		f := globals.builder(model).Build("Filter")
		f.IOS().Get(filter.PortInput).Data = stepInput(samples).Data

		res, err := f.Run(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", model.Name(), err)
			failed = append(failed, err)

			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s has %d rows\n",
			model.Name(), res.Port, res.Data.NumRows())

		waveform, found := f.IOS().Lookup(filter.PortWaveform)
		if !found || waveform.IsEmpty() {
			continue
		}

		path := filepath.Join(plotDir,
			fmt.Sprintf("filter_%s.%s", model.Name(), format))

		err = plotting.Bode(f.Name(), model.Name(), waveform, path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: plotted %s\n", model.Name(), path)
	}

	return errors.Join(failed...)
}
