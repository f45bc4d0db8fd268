package main

import (
	"fmt"
	"text/tabwriter"

	"supplies-backend/bootstrap"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var repair, asJSON bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare every stock projection with the sum of its movements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(func(rt *bootstrap.Runtime) error {
				report, err := rt.Services.Reconcile.RunLocked(cmd.Context(), repair)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, report)
				}
				if report.Skipped {
					fmt.Fprintln(out, "another reconcile holds the lock; skipped")
					return nil
				}
				fmt.Fprintf(out, "checked %d supplies, %d out of sync\n", report.Checked, len(report.Discrepancies))
				if len(report.Discrepancies) == 0 {
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tPROJECTION\tLEDGER\tMISSING\tREPAIRED\tERROR")
				for _, d := range report.Discrepancies {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%t\t%s\n", d.SupplyID, d.Projection, d.LedgerSum, d.Missing, d.Repaired, d.Error)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "rewrite mismatched projections to the ledger sum")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
