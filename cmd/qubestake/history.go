// cmd/qubestake/history.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/qubestake/internal/journal"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.Journal.Enabled {
				return fmt.Errorf("the journal is disabled (set [journal] enabled = true)")
			}
			j, err := journal.Open(a.cfg.Journal.Dir)
			if err != nil {
				return err
			}
			defer j.Close()

			records, err := j.List(limit)
			if err != nil {
				return err
			}
			if a.out.IsJSONMode() {
				if records == nil {
					records = []journal.Record{}
				}
				return a.out.JSON(records)
			}
			if len(records) == 0 {
				a.out.Info("No transactions recorded.")
				return nil
			}
			for _, r := range records {
				status := r.TxHash
				if !r.Success {
					status = "failed: " + r.Error
				}
				a.out.Println("%s  %-28s %s", r.Time.Local().Format(time.DateTime), r.TxType, status)
				if r.Summary != "" {
					a.out.Debug("  %s", r.Summary)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records (0 = all)")
	return cmd
}
