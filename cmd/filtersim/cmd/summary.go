package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/filterkit/datarecording"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <record>",
	Short: "Summarize a batch recorded with run --record.",
	Long: "`summary` reads a recording back and prints the execution info " +
		"followed by one line per run. The record may be given with or " +
		"without the .sqlite3 extension.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		if !strings.HasSuffix(filename, ".sqlite3") {
			filename += ".sqlite3"
		}

		if _, err := os.Stat(filename); err != nil {
			return err
		}

		reader, err := datarecording.NewReader(filename)
		if err != nil {
			return err
		}
		defer reader.Close()

		reader.MapTable(datarecording.ExecTableName, datarecording.ExecInfo{})
		reader.MapTable(datarecording.RunTableName, datarecording.RunEntry{})
		reader.MapTable(datarecording.WaveformTableName,
			datarecording.WaveformEntry{})

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		infos, _, err := reader.Query(ctx, datarecording.ExecTableName,
			datarecording.QueryParams{})
		if err != nil {
			return err
		}

		for _, i := range infos {
			info := i.(*datarecording.ExecInfo)
			fmt.Fprintf(out, "%s: %s\n", info.Property, info.Value)
		}

		runs, total, err := reader.Query(ctx, datarecording.RunTableName,
			datarecording.QueryParams{OrderBy: "Entity"})
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range runs {
			run := r.(*datarecording.RunEntry)

			_, points, err := reader.Query(ctx, datarecording.WaveformTableName,
				datarecording.QueryParams{
					Where: "RunID = ?",
					Args:  []any{run.ID},
					Limit: 1,
				})
			if err != nil {
				return err
			}

			status := "ok"
			if run.Error != "" {
				status = run.Error
				failed++
			}

			fmt.Fprintf(out, "%s [%s] %s has %d rows, %d waveform points, %.3gs: %s\n",
				run.Entity, run.Model, run.Port, run.Rows, points,
				run.Duration, status)
		}

		fmt.Fprintf(out, "%d runs recorded (%d failed)\n", total, failed)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
