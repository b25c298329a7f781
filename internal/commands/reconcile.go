package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/spf13/cobra"
)

var errOwnerMissing = errors.New("no owner specified. Use --owner or set OWNER_ID")

func newReconcileCommand(a *app) *cobra.Command {
	var owner string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute account balances from their transactions",
		Long: "Lists all accounts of an owner whose stored balance differs from the sum of credits " +
			"minus the sum of debits and sets their balance to that sum.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.owner(owner, true)
			if err != nil {
				return err
			}

			return runReconcile(cmd.OutOrStdout(), id, dryRun)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ID of the owner. Defaults to OWNER_ID")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list accounts with drifted balances")

	return cmd
}

func runReconcile(out io.Writer, owner uuid.UUID, dryRun bool) error {
	drifts, err := models.BalanceDrifts(models.DB, owner)
	if err != nil {
		return fmt.Errorf("listing balance drift: %w", err)
	}

	for _, d := range drifts {
		fmt.Fprintf(out, "%s (%s): stored %s, derived %s, drift %s\n", d.Name, d.AccountID, d.Stored.StringFixed(2), d.Derived.StringFixed(2), d.Drift.StringFixed(2))

		if dryRun {
			continue
		}

		if _, err := models.RecomputeBalance(models.DB, owner, d.AccountID); err != nil {
			return fmt.Errorf("recomputing balance of %s: %w", d.AccountID, err)
		}
	}

	if dryRun {
		fmt.Fprintf(out, "%d accounts drifted\n", len(drifts))
	} else {
		fmt.Fprintf(out, "%d accounts reconciled\n", len(drifts))
	}

	return nil
}
