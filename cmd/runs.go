package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/catchment/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved scoring runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ctx := cmd.Context()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		modelFilter, _ := cmd.Flags().GetString("model")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{Model: modelFilter, Limit: limit})
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs found.")
			return nil
		}

		fmt.Printf("%-36s %-8s %-14s %-6s %8s %8s  %s\n",
			"ID", "Model", "Kernel", "Huff", "Demand", "Supply", "Created")
		fmt.Println(strings.Repeat("-", 100))
		for _, r := range runs {
			fmt.Printf("%-36s %-8s %-14s %-6v %8d %8d  %s\n",
				r.ID, r.Model, r.Kernel, r.HuffNormalization,
				r.NumDemand, r.NumSupply, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	f := runsCmd.Flags()
	f.String("model", "", "filter by model name")
	f.Int("limit", 20, "maximum runs to list")

	rootCmd.AddCommand(runsCmd)
}
