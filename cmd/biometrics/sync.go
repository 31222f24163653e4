package main

import (
	"encoding/json"
	"fmt"
	"io"

	"biometrics/internal/app"

	"github.com/spf13/cobra"
)

func newSyncCommand(root *rootOptions) *cobra.Command {
	var pastOnly bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile biometrics once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApplication(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if pastOnly {
				err = a.rec.ReconcilePast(ctx)
			} else {
				err = a.rec.Sync(ctx, a.current)
			}
			if err != nil {
				return err
			}
			if err := a.settings.Flush(ctx); err != nil {
				return err
			}
			return printCurrent(cmd.OutOrStdout(), a)
		},
	}
	cmd.Flags().BoolVar(&pastOnly, "past-only", false, "Only reconcile past days")
	return cmd
}

func printCurrent(w io.Writer, a *application) error {
	b := a.current.Snapshot()
	out := map[string]any{
		"biometrics": b,
		"display":    app.DisplayValues(b, a.settings.Settings()),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}
