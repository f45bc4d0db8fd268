package main

import (
	"encoding/json"
	"io"

	"supplies-backend/bootstrap"

	"github.com/spf13/cobra"
)

// loadRuntime is replaced in tests.
var loadRuntime = bootstrap.Load

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "suppliesctl",
		Short:         "Operate the supplies stock ledger",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newReconcileCmd(), newLowStockCmd())
	return root
}

// withRuntime opens the runtime for one command and closes it afterwards.
func withRuntime(fn func(rt *bootstrap.Runtime) error) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
