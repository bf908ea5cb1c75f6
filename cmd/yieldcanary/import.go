package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yieldcanary/yieldcanary/pkg/pg"
	"github.com/yieldcanary/yieldcanary/svc/etf"
)

func importCmd(load configLoader) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-etfs [csv-file]",
		Short: "Replace the ETF table with the rows of a metrics CSV",
		Long: `Replace the ETF table with the rows of a metrics CSV export.

Percent columns are read as percentages (12.5 is stored as 0.125) and AUM
in millions. Rows with a duplicate ticker are skipped.

Examples:
  yieldcanary import-etfs data/etfs.csv
  yieldcanary import-etfs data/etfs.csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			rows, err := etf.ParseCSV(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed %d ETFs from %s\n", len(rows), args[0])
			if dryRun {
				fmt.Fprintln(out, "Dry run - no changes made")
				return nil
			}

			ctx := cmd.Context()
			cfg, err := load()
			if err != nil {
				return err
			}

			pool, err := pg.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := etf.NewPGStore(pool).ReplaceAll(ctx, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d ETFs\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without writing to the database")

	return cmd
}
