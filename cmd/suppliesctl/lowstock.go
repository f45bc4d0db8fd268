package main

import (
	"fmt"
	"text/tabwriter"

	"supplies-backend/bootstrap"
	"supplies-backend/internal/application/reports"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newLowStockCmd() *cobra.Command {
	var threshold, xlsxPath string
	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List active supplies at or below a stock threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(func(rt *bootstrap.Runtime) error {
				limit := rt.Config.LowStockThreshold
				if threshold != "" {
					d, err := decimal.NewFromString(threshold)
					if err != nil {
						return fmt.Errorf("--threshold: %w", err)
					}
					limit = d
				}
				rows, err := rt.Services.Stock.ListLow(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if xlsxPath != "" {
					f, err := reports.LowStockWorkbook(rows, limit)
					if err != nil {
						return err
					}
					defer f.Close()
					if err := f.SaveAs(xlsxPath); err != nil {
						return err
					}
					fmt.Fprintf(out, "wrote %d rows to %s\n", len(rows), xlsxPath)
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDESCRIPTION\tSTOCK")
				for _, r := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Description, r.StockActual)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&threshold, "threshold", "", "stock threshold (defaults to LOW_STOCK_THRESHOLD)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the report to this .xlsx file instead of stdout")
	return cmd
}
